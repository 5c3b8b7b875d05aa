package driving

import (
	"context"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

// SyncService refreshes a requester's document snapshot from every source.
type SyncService interface {
	// SyncAll pulls every configured source for the requester. Source
	// failures are reported in the result, not as an error. A result
	// younger than domain.SyncResultTTL is returned from cache.
	SyncAll(ctx context.Context, requesterID, externalToken string) (*domain.SyncResult, error)

	// Invalidate forgets the requester's cached result.
	Invalidate(requesterID string)
}
