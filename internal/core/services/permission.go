package services

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driving"
)

// Ensure PermissionEngine implements the interface.
var _ driving.ScopeService = (*PermissionEngine)(nil)

// directMessagePrefix marks two-party channels: "dm:<userA>:<userB>".
const directMessagePrefix = "dm:"

var leadershipKeywords = []string{
	"ceo", "cto", "cfo", "coo", "chief", "founder", "president",
	"vp", "vice president", "director", "head of",
}

var managerKeywords = []string{
	"manager", "lead", "head", "director", "supervisor",
}

// accessRequest is the input of the visibility decision list.
type accessRequest struct {
	requester *domain.RequesterContext
	doc       *domain.Document
}

// ownedByRequester never matches an anonymous requester.
func (a accessRequest) ownedByRequester() bool {
	return a.requester.UserID != "" && a.doc.OwnerID == a.requester.UserID
}

// accessRules is the ordered visibility policy. The first matching
// rule decides; anything unmatched is denied.
var accessRules = []rule[accessRequest, bool]{
	{
		name:   "owner",
		match:  func(a accessRequest) bool { return a.ownedByRequester() },
		decide: always[accessRequest](true),
	},
	{
		name:   "private",
		match:  func(a accessRequest) bool { return a.doc.IsPrivate },
		decide: always[accessRequest](false),
	},
	{
		name:   "mail",
		match:  func(a accessRequest) bool { return a.doc.Source == domain.SourceMail },
		decide: accessRequest.ownedByRequester,
	},
	{
		name: "channel-message",
		match: func(a accessRequest) bool {
			return a.doc.Source == domain.SourceMessage && a.doc.ChannelID != ""
		},
		decide: func(a accessRequest) bool {
			if isDirectMessageChannel(a.doc.ChannelID) {
				return isDirectMessageParty(a.doc.ChannelID, a.requester.UserID)
			}
			return a.requester.IsMemberOf(a.doc.ChannelID)
		},
	},
	{
		name: "team-artifact",
		match: func(a accessRequest) bool {
			return a.doc.Source == domain.SourceIssue || a.doc.Source == domain.SourceSharedDocument
		},
		decide: always[accessRequest](true),
	},
	{
		name:   "announcement",
		match:  func(a accessRequest) bool { return a.doc.Source == domain.SourceAnnouncement },
		decide: always[accessRequest](true),
	},
	{
		name:   "calendar",
		match:  func(a accessRequest) bool { return a.doc.Source == domain.SourceCalendarEvent },
		decide: accessRequest.ownedByRequester,
	},
}

// PermissionEngine decides document visibility for a requester.
// It holds no state; every method is a pure function of its inputs.
type PermissionEngine struct{}

// NewPermissionEngine creates a permission engine.
func NewPermissionEngine() *PermissionEngine {
	return &PermissionEngine{}
}

// ComputeScope derives the requester's permission scope. A nil
// requester gets an empty scope; the hard exclusions are always set.
func (e *PermissionEngine) ComputeScope(requester *domain.RequesterContext) domain.PermissionScope {
	scope := domain.PermissionScope{
		CanAccessChannels:           make(map[string]bool),
		ExcludeOthersPrivateMail:    true,
		ExcludeOthersDirectMessages: true,
		ExcludeOthersPersonalData:   true,
	}
	if requester == nil {
		return scope
	}

	for _, id := range requester.Channels() {
		scope.CanAccessChannels[id] = true
	}

	leadership := isLeadership(requester)
	manager := leadership || isManager(requester)

	scope.CanAccessOwnData = true
	scope.CanAccessTeamArtifacts = true
	scope.CanAccessDepartmentData = manager && requester.Department != ""
	scope.CanAccessOrgInsights = leadership
	return scope
}

// CanAccess reports whether the requester may see the document.
func (e *PermissionEngine) CanAccess(requester *domain.RequesterContext, doc *domain.Document) bool {
	if requester == nil || doc == nil {
		return false
	}
	allowed, _ := firstMatch(accessRules, accessRequest{requester: requester, doc: doc}, false)
	return allowed
}

// FilterByPermission returns the documents the requester may see,
// preserving their order.
func (e *PermissionEngine) FilterByPermission(
	requester *domain.RequesterContext,
	docs []domain.Document,
) []domain.Document {
	filtered := make([]domain.Document, 0, len(docs))
	for i := range docs {
		if e.CanAccess(requester, &docs[i]) {
			filtered = append(filtered, docs[i])
		}
	}
	return filtered
}

// DescribeScope renders what the requester's answers draw on and
// what they never include.
func (e *PermissionEngine) DescribeScope(requester *domain.RequesterContext) string {
	if requester == nil {
		return "No data available: your identity could not be verified."
	}

	scope := e.ComputeScope(requester)

	included := []string{"your own calendar, mail and data"}
	if n := len(scope.CanAccessChannels); n > 0 {
		included = append(included, fmt.Sprintf("%d %s you belong to", n, plural(n, "channel", "channels")))
	}
	if scope.CanAccessTeamArtifacts {
		included = append(included, "team issues and shared documents")
	}
	included = append(included, "company announcements")
	if scope.CanAccessDepartmentData {
		included = append(included, fmt.Sprintf("%s department data", requester.Department))
	}
	if scope.CanAccessOrgInsights {
		included = append(included, "organisation-wide insights")
	}

	var excluded []string
	if scope.ExcludeOthersPrivateMail {
		excluded = append(excluded, "other people's private mail")
	}
	if scope.ExcludeOthersDirectMessages {
		excluded = append(excluded, "direct messages you are not part of")
	}
	if scope.ExcludeOthersPersonalData {
		excluded = append(excluded, "other people's personal data")
	}

	return fmt.Sprintf("Included: %s. Excluded: %s.",
		strings.Join(included, "; "), strings.Join(excluded, "; "))
}

func isDirectMessageChannel(channelID string) bool {
	return strings.HasPrefix(channelID, directMessagePrefix)
}

// isDirectMessageParty reports whether userID is one of the two
// participants of a direct-message channel. Malformed ids have no
// participants.
func isDirectMessageParty(channelID, userID string) bool {
	if userID == "" {
		return false
	}
	parts := strings.Split(strings.TrimPrefix(channelID, directMessagePrefix), ":")
	if len(parts) != 2 {
		return false
	}
	return parts[0] == userID || parts[1] == userID
}

// DirectMessageChannel returns the canonical channel id for a thread
// between two users. The order of the arguments does not matter.
func DirectMessageChannel(userA, userB string) string {
	users := []string{userA, userB}
	sort.Strings(users)
	return directMessagePrefix + users[0] + ":" + users[1]
}

func isLeadership(r *domain.RequesterContext) bool {
	return r.IsLeadership || roleMatches(r.Role, leadershipKeywords)
}

func isManager(r *domain.RequesterContext) bool {
	return r.IsManager || roleMatches(r.Role, managerKeywords)
}

// roleMatches reports whether any keyword occurs in the role as a
// whole word or phrase.
func roleMatches(role string, keywords []string) bool {
	words := strings.FieldsFunc(strings.ToLower(role), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return false
	}
	normalised := " " + strings.Join(words, " ") + " "
	for _, kw := range keywords {
		if strings.Contains(normalised, " "+kw+" ") {
			return true
		}
	}
	return false
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
