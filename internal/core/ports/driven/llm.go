package driven

import "context"

// ChatService is the chat-completion collaborator used to phrase answers.
// This is an optional service - when nil, answers degrade to a fixed apology.
//
// Implementations must honour ctx cancellation: the answer orchestrator
// bounds every call with a deadline and expects the request to stop.
type ChatService interface {
	// Complete runs one chat completion over the given messages.
	Complete(ctx context.Context, messages []ChatMessage, opts ChatOptions) (*Completion, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// Completion is the model's reply.
type Completion struct {
	// Content is the generated text.
	Content string

	// PromptTokens and CompletionTokens are reported by the provider.
	PromptTokens     int
	CompletionTokens int
}

// TotalTokens returns prompt plus completion tokens.
func (c *Completion) TotalTokens() int {
	return c.PromptTokens + c.CompletionTokens
}
