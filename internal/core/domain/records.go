package domain

import "time"

// External payload records. Each mirrors the shape a collaborator
// returns; optional fields are zero values or nil pointers and are
// validated by the per-source normalisers.

// CalendarEventRecord is a calendar event within a time window.
type CalendarEventRecord struct {
	ID        string
	Title     string
	Start     time.Time
	End       time.Time
	Location  string
	Attendees []string
	URL       string
}

// MailRecord is mailbox message metadata.
type MailRecord struct {
	ID       string
	Subject  string
	From     string
	To       []string
	Cc       []string
	Date     time.Time
	Snippet  string
	ThreadID string
}

// IssueRecord is an issue-tracker item.
type IssueRecord struct {
	ID          string
	Identifier  string
	Title       string
	Description string
	State       string
	Priority    string
	Assignee    string
	DueDate     *time.Time
	URL         string
	UpdatedAt   time.Time
}

// TeamMember is one entry of the static team directory.
type TeamMember struct {
	ID         string   `toml:"id"`
	Name       string   `toml:"name"`
	Email      string   `toml:"email"`
	Role       string   `toml:"role"`
	Department string   `toml:"department"`
	Channels   []string `toml:"channels"`
	Leadership bool     `toml:"leadership"`
	Manager    bool     `toml:"manager"`
}

// KnowledgeEntry is a piece of static company knowledge.
type KnowledgeEntry struct {
	ID         string    `toml:"id"`
	Title      string    `toml:"title"`
	Content    string    `toml:"content"`
	Department string    `toml:"department"`
	UpdatedAt  time.Time `toml:"updated_at"`
}

// ToInboundMessage projects a mail record onto the classifier input.
func (m *MailRecord) ToInboundMessage() InboundMessage {
	return InboundMessage{
		ID:       m.ID,
		Subject:  m.Subject,
		From:     m.From,
		Snippet:  m.Snippet,
		Date:     m.Date,
		ThreadID: m.ThreadID,
		To:       m.To,
		Cc:       m.Cc,
	}
}
