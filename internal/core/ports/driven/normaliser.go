package driven

import (
	"time"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

// RecordNormaliser turns external payload records into Documents.
// Every method is pure; a malformed record yields a
// *domain.NormalizationError instead of a Document.
type RecordNormaliser interface {
	Issue(rec domain.IssueRecord, ownerID string) (domain.Document, error)
	CalendarEvent(rec domain.CalendarEventRecord, ownerID string) (domain.Document, error)
	Mail(msg domain.ClassifiedMessage, ownerID string) (domain.Document, error)
	TeamMember(member domain.TeamMember, ownerID string) (domain.Document, error)
	Knowledge(entry domain.KnowledgeEntry, ownerID string) (domain.Document, error)

	// DateContext returns the note telling the model what "today" is.
	DateContext(now time.Time, ownerID string) domain.Document
}
