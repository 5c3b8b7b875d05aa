package normalisers

import (
	"time"

	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driven"
	"github.com/custodia-labs/askwork/internal/normalisers/calendar"
	"github.com/custodia-labs/askwork/internal/normalisers/issue"
	"github.com/custodia-labs/askwork/internal/normalisers/knowledge"
	"github.com/custodia-labs/askwork/internal/normalisers/mail"
)

// Ensure Set implements the interface.
var _ driven.RecordNormaliser = (*Set)(nil)

// Set dispatches each record type to its source normaliser.
type Set struct{}

// NewSet creates the default normaliser set.
func NewSet() *Set {
	return &Set{}
}

// Issue normalises an issue-tracker record.
func (s *Set) Issue(rec domain.IssueRecord, ownerID string) (domain.Document, error) {
	return issue.Normalise(rec, ownerID)
}

// CalendarEvent normalises a calendar event.
func (s *Set) CalendarEvent(rec domain.CalendarEventRecord, ownerID string) (domain.Document, error) {
	return calendar.Normalise(rec, ownerID)
}

// Mail normalises a classified mail message.
func (s *Set) Mail(msg domain.ClassifiedMessage, ownerID string) (domain.Document, error) {
	return mail.Normalise(msg, ownerID)
}

// TeamMember normalises a team directory entry.
func (s *Set) TeamMember(member domain.TeamMember, ownerID string) (domain.Document, error) {
	return knowledge.NormaliseMember(member, ownerID)
}

// Knowledge normalises a company knowledge entry.
func (s *Set) Knowledge(entry domain.KnowledgeEntry, ownerID string) (domain.Document, error) {
	return knowledge.NormaliseEntry(entry, ownerID)
}

// DateContext builds the current-date note.
func (s *Set) DateContext(now time.Time, ownerID string) domain.Document {
	return knowledge.DateContext(now, ownerID)
}
