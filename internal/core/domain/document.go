package domain

import "time"

// SourceKind identifies where a document came from.
// Together with IsPrivate it decides which visibility rule applies.
type SourceKind string

// Known source kinds.
const (
	// SourceMessage is a chat message posted in a channel or direct thread.
	SourceMessage SourceKind = "message"

	// SourceIssue is an issue-tracker item.
	SourceIssue SourceKind = "issue"

	// SourceCalendarEvent is an event from the requester's calendar.
	SourceCalendarEvent SourceKind = "calendar_event"

	// SourceMail is a message from the requester's mailbox.
	SourceMail SourceKind = "mail"

	// SourceSharedDocument is team-visible reference material.
	SourceSharedDocument SourceKind = "shared_document"

	// SourceAnnouncement is org-wide knowledge.
	SourceAnnouncement SourceKind = "announcement"
)

// AllSourceKinds returns every known source kind in a stable order.
func AllSourceKinds() []SourceKind {
	return []SourceKind{
		SourceMessage,
		SourceIssue,
		SourceCalendarEvent,
		SourceMail,
		SourceSharedDocument,
		SourceAnnouncement,
	}
}

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceMessage, SourceIssue, SourceCalendarEvent, SourceMail,
		SourceSharedDocument, SourceAnnouncement:
		return true
	default:
		return false
	}
}

// Label returns the default human title used when a document has none.
func (k SourceKind) Label() string {
	switch k {
	case SourceMessage:
		return "Message"
	case SourceIssue:
		return "Issue"
	case SourceCalendarEvent:
		return "Calendar event"
	case SourceMail:
		return "Email"
	case SourceSharedDocument:
		return "Shared document"
	case SourceAnnouncement:
		return "Announcement"
	default:
		return "Document"
	}
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// Document represents an indexed unit of retrievable knowledge.
// Every document has exactly one owner; IsPrivate and Source
// jointly determine who else may see it.
type Document struct {
	// ID is the unique identifier within a requester's snapshot.
	ID string

	// Source is the kind of system that produced the document.
	Source SourceKind

	// SourceID is the identifier in the external system.
	SourceID string

	// Title is the human-readable title. May be empty.
	Title string

	// Content is the free text used for matching and prompting.
	Content string

	// OwnerID is the user the document belongs to.
	OwnerID string

	// IsPrivate hides the document from everyone except the owner.
	IsPrivate bool

	// ChannelID is set for channel messages.
	ChannelID string

	// Department scopes department-level documents.
	Department string

	// URL links back to the document in its source system.
	URL string

	// Embedding is the vector representation, nil when unavailable.
	Embedding []float32

	// CreatedAt is when the item was created in the source system.
	CreatedAt time.Time
}

// HasEmbedding reports whether the document carries a usable vector.
func (d *Document) HasEmbedding() bool {
	return len(d.Embedding) > 0
}

// DisplayTitle returns the title, falling back to the source label.
func (d *Document) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Source.Label()
}
