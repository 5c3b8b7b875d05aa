package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// partition is one requester's snapshot. order keeps insertion order
// so scans and tie-breaks are deterministic.
type partition struct {
	order []string
	docs  map[string]domain.Document
}

func newPartition() *partition {
	return &partition{docs: make(map[string]domain.Document)}
}

// DocumentStore is an in-memory implementation of driven.DocumentStore,
// holding one partition per requester.
type DocumentStore struct {
	mu         sync.RWMutex
	partitions map[string]*partition
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		partitions: make(map[string]*partition),
	}
}

// Index stores or replaces a document. A replaced document keeps its
// original position.
func (s *DocumentStore) Index(_ context.Context, requesterID string, doc domain.Document) error {
	if doc.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.partitions[requesterID]
	if !ok {
		p = newPartition()
		s.partitions[requesterID] = p
	}
	if _, exists := p.docs[doc.ID]; !exists {
		p.order = append(p.order, doc.ID)
	}
	p.docs[doc.ID] = doc
	return nil
}

// Remove deletes a document. Removing a missing document is a no-op.
func (s *DocumentStore) Remove(_ context.Context, requesterID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.partitions[requesterID]
	if !ok {
		return nil
	}
	if _, exists := p.docs[id]; !exists {
		return nil
	}
	delete(p.docs, id)
	for i, existing := range p.order {
		if existing == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return nil
}

// Clear drops the requester's partition.
func (s *DocumentStore) Clear(_ context.Context, requesterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.partitions, requesterID)
	return nil
}

// All returns a copy of the requester's documents in insertion order.
func (s *DocumentStore) All(_ context.Context, requesterID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.partitions[requesterID]
	if !ok {
		return []domain.Document{}, nil
	}
	docs := make([]domain.Document, 0, len(p.order))
	for _, id := range p.order {
		docs = append(docs, p.docs[id])
	}
	return docs, nil
}

// Count returns the number of documents in the requester's partition.
func (s *DocumentStore) Count(requesterID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.partitions[requesterID]; ok {
		return len(p.order)
	}
	return 0
}
