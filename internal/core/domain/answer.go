package domain

import "time"

// Answer defaults.
const (
	// DefaultMaxSources is the number of chunks retrieved for an answer.
	DefaultMaxSources = 5

	// MaxHistoryTurns is the number of past turns included in the prompt.
	MaxHistoryTurns = 5

	// GenerationTimeout bounds the chat-completion call.
	GenerationTimeout = 25 * time.Second
)

// Conversation roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one prior message in the conversation.
type ConversationTurn struct {
	Role    string
	Content string
}

// AnswerRequest is the input of the answer orchestrator.
type AnswerRequest struct {
	// Query is the user's natural-language question.
	Query string

	// Requester is the resolved identity. Nil is an authorisation gap.
	Requester *RequesterContext

	// History holds prior turns, oldest first.
	History []ConversationTurn

	// MaxSources bounds retrieval (default 5).
	MaxSources int

	// ExternalToken is the OAuth access token for calendar and mail.
	ExternalToken string
}

// AnswerResult is what the answer orchestrator returns.
type AnswerResult struct {
	Answer           string
	Sources          []Citation
	ScopeDescription string
	TokensUsed       int
	ProcessingTime   time.Duration

	// Fallback is true when the answer was templated instead of generated.
	Fallback bool
}

// ProcessingTimeMs returns the processing time in milliseconds.
func (r *AnswerResult) ProcessingTimeMs() int64 {
	return r.ProcessingTime.Milliseconds()
}
