package driving

import (
	"context"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

// AnswerService answers a question from the requester's authorised data.
type AnswerService interface {
	// Answer always returns some answer unless the requester is missing,
	// in which case it returns domain.ErrAuthorizationGap.
	Answer(ctx context.Context, req domain.AnswerRequest) (*domain.AnswerResult, error)
}
