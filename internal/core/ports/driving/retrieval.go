package driving

import (
	"context"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

// RetrievalService ranks the requester's permitted documents for a query.
type RetrievalService interface {
	Retrieve(
		ctx context.Context,
		requester *domain.RequesterContext,
		query string,
		opts domain.RetrieveOptions,
	) (*domain.RetrievalResult, error)
}
