package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

// IdentityService resolves a user ID into the facts used for access
// decisions. A nil context with a nil error means the user is unknown.
type IdentityService interface {
	RequesterContext(ctx context.Context, userID string) (*domain.RequesterContext, error)
}

// CalendarService lists the requester's events in a time window.
// The token is the requester's OAuth access token.
type CalendarService interface {
	ListEvents(ctx context.Context, token string, from, to time.Time) ([]domain.CalendarEventRecord, error)
}

// MailService lists recent message metadata from the requester's mailbox.
type MailService interface {
	ListMessages(ctx context.Context, token string, maxResults int) ([]domain.MailRecord, error)
}

// IssueTracker lists issues visible to the team.
type IssueTracker interface {
	ListIssues(ctx context.Context) ([]domain.IssueRecord, error)
}

// KnowledgeBase serves static company data.
type KnowledgeBase interface {
	// TeamDirectory returns the people directory.
	TeamDirectory(ctx context.Context) ([]domain.TeamMember, error)

	// CompanyKnowledge returns org-wide reference entries.
	CompanyKnowledge(ctx context.Context) ([]domain.KnowledgeEntry, error)
}
