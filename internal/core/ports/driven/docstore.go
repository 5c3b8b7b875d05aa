package driven

import (
	"context"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

// DocumentStore holds the indexed documents, partitioned by requester.
// Each partition is one requester's snapshot of authorised knowledge;
// clearing one partition never touches another.
type DocumentStore interface {
	// Index stores or replaces a document in the requester's partition.
	Index(ctx context.Context, requesterID string, doc domain.Document) error

	// Remove deletes a document from the requester's partition.
	Remove(ctx context.Context, requesterID, id string) error

	// Clear empties the requester's partition.
	Clear(ctx context.Context, requesterID string) error

	// All returns the requester's documents in insertion order.
	All(ctx context.Context, requesterID string) ([]domain.Document, error)
}

// SyncResultCache remembers the last sync result per requester for a
// bounded time.
type SyncResultCache interface {
	// Get returns the cached result if it has not expired.
	Get(requesterID string) (*domain.SyncResult, bool)

	// Put stores a result for the requester.
	Put(requesterID string, result *domain.SyncResult)

	// Invalidate drops the requester's cached result.
	Invalidate(requesterID string)

	// Purge drops every cached result.
	Purge()
}
