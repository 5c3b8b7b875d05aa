package domain

import "time"

// Priority is the triage level assigned to an inbound message.
type Priority string

// Priority levels, most urgent first.
const (
	PriorityCritical  Priority = "critical"
	PriorityImportant Priority = "important"
	PriorityNormal    Priority = "normal"
	PriorityLow       Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityCritical:  0,
	PriorityImportant: 1,
	PriorityNormal:    2,
	PriorityLow:       3,
}

// Rank returns the sort rank of the priority. Unknown values sort last.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// IsValid returns true if the priority is recognised.
func (p Priority) IsValid() bool {
	_, ok := priorityRank[p]
	return ok
}

// String returns the string representation.
func (p Priority) String() string {
	return string(p)
}

// InboundMessage is the mail metadata the classifier works on.
type InboundMessage struct {
	ID       string
	Subject  string
	From     string
	Snippet  string
	Date     time.Time
	ThreadID string
	To       []string
	Cc       []string
}

// ClassifiedMessage is an InboundMessage with its triage verdict.
// It is created by the classifier and never mutated afterwards.
type ClassifiedMessage struct {
	InboundMessage

	Priority       Priority
	PriorityReason string
	Category       string
}
