package services

import (
	"net/mail"
	"sort"
	"strings"

	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driving"
)

// Ensure Classifier implements the interface.
var _ driving.ClassifierService = (*Classifier)(nil)

// Message categories.
const (
	CategoryTeam        = "Team"
	CategoryAutoReply   = "Auto-reply"
	CategoryService     = "Service"
	CategoryPromotional = "Promotional"
	CategoryCustomer    = "Customer"
	CategoryUrgent      = "Urgent"
	CategoryGeneral     = "General"
)

// verdict is the outcome of one classification rule.
type verdict struct {
	priority domain.Priority
	category string
	reason   string
}

// messageFacts is the normalised view of a message the rules inspect.
type messageFacts struct {
	sender    string // lowercased sender address
	from      string // lowercased raw From header, display name included
	subject   string // lowercased subject
	text      string // lowercased subject and snippet
	addresses []string
}

// Classifier assigns a priority and category to inbound mail with a
// fixed, ordered rule list. It is safe for concurrent use.
type Classifier struct {
	tables domain.ClassifierRules
	rules  []rule[messageFacts, verdict]
}

// NewClassifier creates a classifier over the given lookup tables.
// Table entries are matched case-insensitively.
func NewClassifier(tables domain.ClassifierRules) *Classifier {
	c := &Classifier{tables: lowerTables(tables)}
	c.rules = c.buildRules()
	return c
}

func (c *Classifier) buildRules() []rule[messageFacts, verdict] {
	t := c.tables
	return []rule[messageFacts, verdict]{
		{
			name:   "internal-sender",
			match:  func(m messageFacts) bool { return c.isInternal(m.sender) },
			decide: always[messageFacts](verdict{domain.PriorityCritical, CategoryTeam, "Sent from the company domain"}),
		},
		{
			name:   "auto-reply",
			match:  func(m messageFacts) bool { return containsAny(m.text, t.AutoReplyPatterns) },
			decide: always[messageFacts](verdict{domain.PriorityLow, CategoryAutoReply, "Automatic reply"}),
		},
		{
			name:   "service-sender",
			match:  func(m messageFacts) bool { return c.isPromotionalSender(m.sender) },
			decide: always[messageFacts](verdict{domain.PriorityLow, CategoryService, "Known service or newsletter sender"}),
		},
		{
			name:   "promotional-content",
			match:  func(m messageFacts) bool { return containsAny(m.text, t.PromotionalKeywords) },
			decide: always[messageFacts](verdict{domain.PriorityLow, CategoryPromotional, "Promotional language"}),
		},
		{
			name:   "internal-thread",
			match:  func(m messageFacts) bool { return c.internalAddressCount(m.addresses) >= 2 },
			decide: always[messageFacts](verdict{domain.PriorityCritical, CategoryTeam, "Thread with several colleagues"}),
		},
		{
			name: "customer",
			match: func(m messageFacts) bool {
				return containsAny(m.from, t.CustomerNames) || containsAny(m.subject, t.CustomerNames)
			},
			decide: always[messageFacts](verdict{domain.PriorityCritical, CategoryCustomer, "From or about a customer"}),
		},
		{
			name:   "urgent",
			match:  func(m messageFacts) bool { return containsAny(m.text, t.UrgencyKeywords) },
			decide: always[messageFacts](verdict{domain.PriorityImportant, CategoryUrgent, "Urgent wording"}),
		},
	}
}

// Classify returns the message with its priority, category and reason.
func (c *Classifier) Classify(msg domain.InboundMessage) domain.ClassifiedMessage {
	v, _ := firstMatch(c.rules, factsOf(msg), verdict{domain.PriorityNormal, CategoryGeneral, "No special signals"})
	return domain.ClassifiedMessage{
		InboundMessage: msg,
		Priority:       v.priority,
		PriorityReason: v.reason,
		Category:       v.category,
	}
}

// SortByPriority returns a copy ordered critical, important, normal,
// low. Messages of equal priority keep their relative order.
func (c *Classifier) SortByPriority(msgs []domain.ClassifiedMessage) []domain.ClassifiedMessage {
	sorted := make([]domain.ClassifiedMessage, len(msgs))
	copy(sorted, msgs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority.Rank() < sorted[j].Priority.Rank()
	})
	return sorted
}

func (c *Classifier) isInternal(address string) bool {
	d := domainOf(address)
	if d == "" {
		return false
	}
	for _, internal := range c.tables.InternalDomains {
		if d == internal || strings.HasSuffix(d, "."+internal) {
			return true
		}
	}
	return false
}

// isPromotionalSender checks the address only. "@domain" entries match
// the domain, "local@" entries a local-part prefix, anything else the
// whole address.
func (c *Classifier) isPromotionalSender(address string) bool {
	if address == "" || c.isInternal(address) {
		return false
	}
	for _, entry := range c.tables.PromotionalSenders {
		switch {
		case strings.HasPrefix(entry, "@"):
			if strings.HasSuffix(address, entry) {
				return true
			}
		case strings.HasSuffix(entry, "@"):
			if strings.HasPrefix(address, entry) {
				return true
			}
		case address == entry:
			return true
		}
	}
	return false
}

func (c *Classifier) internalAddressCount(addresses []string) int {
	seen := make(map[string]bool)
	for _, a := range addresses {
		if c.isInternal(a) {
			seen[a] = true
		}
	}
	return len(seen)
}

func factsOf(msg domain.InboundMessage) messageFacts {
	sender := parseAddress(msg.From)
	addresses := []string{sender}
	for _, field := range [][]string{msg.To, msg.Cc} {
		for _, entry := range field {
			addresses = append(addresses, parseAddressList(entry)...)
		}
	}
	subject := strings.ToLower(msg.Subject)
	return messageFacts{
		sender:    sender,
		from:      strings.ToLower(msg.From),
		subject:   subject,
		text:      subject + " " + strings.ToLower(msg.Snippet),
		addresses: addresses,
	}
}

// parseAddress extracts the lowercased address from a header value
// such as "Jane Doe <jane@acme.com>".
func parseAddress(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if addr, err := mail.ParseAddress(raw); err == nil {
		return strings.ToLower(addr.Address)
	}
	if open := strings.LastIndex(raw, "<"); open >= 0 {
		if end := strings.LastIndex(raw, ">"); end > open {
			return strings.ToLower(strings.TrimSpace(raw[open+1 : end]))
		}
	}
	return strings.ToLower(strings.Trim(raw, "\"' "))
}

func parseAddressList(raw string) []string {
	if list, err := mail.ParseAddressList(raw); err == nil {
		out := make([]string, 0, len(list))
		for _, a := range list {
			out = append(out, strings.ToLower(a.Address))
		}
		return out
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if addr := parseAddress(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

func domainOf(address string) string {
	at := strings.LastIndex(address, "@")
	if at < 0 || at == len(address)-1 {
		return ""
	}
	return address[at+1:]
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func lowerTables(t domain.ClassifierRules) domain.ClassifierRules {
	return domain.ClassifierRules{
		InternalDomains:     lowerAll(t.InternalDomains, "@"),
		AutoReplyPatterns:   lowerAll(t.AutoReplyPatterns, ""),
		PromotionalSenders:  lowerAll(t.PromotionalSenders, ""),
		PromotionalKeywords: lowerAll(t.PromotionalKeywords, ""),
		CustomerNames:       lowerAll(t.CustomerNames, ""),
		UrgencyKeywords:     lowerAll(t.UrgencyKeywords, ""),
	}
}

func lowerAll(values []string, trimPrefix string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if trimPrefix != "" {
			v = strings.TrimPrefix(v, trimPrefix)
		}
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
