// Package gmail implements driven.MailService over the Gmail API using
// message metadata only. Bodies are never fetched.
package gmail

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/gmail/v1"

	"github.com/custodia-labs/askwork/internal/connectors/google"
	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.MailService = (*Service)(nil)

const (
	userID = "me"

	// DefaultLabel restricts listing to the inbox.
	DefaultLabel = "INBOX"

	fetchConcurrency = 4
)

// metadataHeaders are the headers requested for each message.
var metadataHeaders = []string{"From", "To", "Cc", "Subject", "Date"}

// Service lists recent messages from the signed-in mailbox.
type Service struct {
	label    string
	endpoint string
	limiter  *google.RateLimiter
}

// Option configures a Service.
type Option func(*Service)

// WithLabel lists a label other than the inbox.
func WithLabel(label string) Option {
	return func(s *Service) { s.label = label }
}

// WithEndpoint overrides the API base URL.
func WithEndpoint(endpoint string) Option {
	return func(s *Service) { s.endpoint = endpoint }
}

// New creates a mail service.
func New(opts ...Option) *Service {
	s := &Service{
		label:   DefaultLabel,
		limiter: google.NewRateLimiter(google.ServiceGmail),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListMessages returns up to maxResults of the newest messages, newest
// first.
func (s *Service) ListMessages(ctx context.Context, token string, maxResults int) ([]domain.MailRecord, error) {
	if maxResults <= 0 {
		return nil, nil
	}
	svc, err := google.NewGmailService(ctx, token, s.endpoint)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	list, err := svc.Users.Messages.List(userID).
		LabelIds(s.label).
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", s.limiter.Observe(err))
	}

	refs := list.Messages
	if len(refs) > maxResults {
		refs = refs[:maxResults]
	}
	records := make([]domain.MailRecord, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, ref := range refs {
		g.Go(func() error {
			if err := s.limiter.Wait(gctx); err != nil {
				return err
			}
			msg, err := svc.Users.Messages.Get(userID, ref.Id).
				Format("metadata").
				MetadataHeaders(metadataHeaders...).
				Context(gctx).
				Do()
			if err != nil {
				return fmt.Errorf("get message %s: %w", ref.Id, s.limiter.Observe(err))
			}
			records[i] = MessageToRecord(msg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}

// MessageToRecord converts a metadata-format message.
func MessageToRecord(msg *gmail.Message) domain.MailRecord {
	rec := domain.MailRecord{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
	}
	if msg.InternalDate > 0 {
		rec.Date = time.UnixMilli(msg.InternalDate)
	}
	if msg.Payload == nil {
		return rec
	}

	for _, h := range msg.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "from":
			rec.From = h.Value
		case "to":
			rec.To = splitAddresses(h.Value)
		case "cc":
			rec.Cc = splitAddresses(h.Value)
		case "subject":
			rec.Subject = h.Value
		case "date":
			if rec.Date.IsZero() {
				if t, err := mail.ParseDate(h.Value); err == nil {
					rec.Date = t
				}
			}
		}
	}
	return rec
}

// splitAddresses splits an address header, keeping display names.
func splitAddresses(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if list, err := mail.ParseAddressList(value); err == nil {
		out := make([]string, 0, len(list))
		for _, addr := range list {
			if addr.Name == "" {
				out = append(out, addr.Address)
			} else {
				out = append(out, addr.String())
			}
		}
		return out
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
