package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or source type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the chat-completion service is not configured.
	// Terminal for generation; surfaced to users as a fixed apology.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates no query embedding could be produced.
	// Not a failure: retrieval switches to keyword matching.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrAuthorizationGap indicates the requester context could not be resolved.
	// The caller must re-authenticate.
	ErrAuthorizationGap = errors.New("requester context unavailable")

	// ErrGenerationTimeout indicates the chat-completion call hit its deadline.
	ErrGenerationTimeout = errors.New("generation timed out")

	// ErrGenerationFailed indicates the chat-completion call returned an error.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthRequired indicates a collaborator needs a token that was not supplied.
	ErrAuthRequired = errors.New("authentication required")
)

// ExternalSourceError records the failure of one sync source.
// The sync orchestrator recovers from it and continues with the next source.
type ExternalSourceError struct {
	Source SyncSource
	Err    error
}

func (e *ExternalSourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *ExternalSourceError) Unwrap() error {
	return e.Err
}

// NormalizationError reports an external record that could not be
// turned into a Document.
type NormalizationError struct {
	Source   SyncSource
	RecordID string
	Reason   string
}

func (e *NormalizationError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("%s: invalid record: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("%s: record %s: %s", e.Source, e.RecordID, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) match normalisation failures.
func (e *NormalizationError) Is(target error) bool {
	return target == ErrInvalidInput
}
