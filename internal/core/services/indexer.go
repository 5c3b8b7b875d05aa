package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driven"
	"github.com/custodia-labs/askwork/internal/logger"
)

// Indexer embeds documents and writes them to a requester's partition.
// The embedding service is optional; without it, or when it fails,
// documents are stored without a vector.
type Indexer struct {
	store    driven.DocumentStore
	embedder driven.EmbeddingService
}

// NewIndexer creates an indexer. embedder may be nil.
func NewIndexer(store driven.DocumentStore, embedder driven.EmbeddingService) *Indexer {
	return &Indexer{store: store, embedder: embedder}
}

// Index computes the document's embedding when possible and upserts it.
func (i *Indexer) Index(ctx context.Context, requesterID string, doc domain.Document) error {
	if _, errs := i.IndexBatch(ctx, requesterID, []domain.Document{doc}); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// IndexBatch embeds the documents that have no vector in one call and
// upserts every document. It returns the number stored and one error
// per document that could not be stored.
func (i *Indexer) IndexBatch(ctx context.Context, requesterID string, docs []domain.Document) (int, []error) {
	i.embed(ctx, docs)

	var (
		stored int
		errs   []error
	)
	for _, doc := range docs {
		if err := i.store.Index(ctx, requesterID, doc); err != nil {
			errs = append(errs, fmt.Errorf("index document %s: %w", doc.ID, err))
			continue
		}
		stored++
	}
	return stored, errs
}

// embed fills in missing vectors in place. A failed batch leaves the
// documents without vectors.
func (i *Indexer) embed(ctx context.Context, docs []domain.Document) {
	if i.embedder == nil {
		return
	}
	var (
		pending []int
		texts   []string
	)
	for idx := range docs {
		if !docs[idx].HasEmbedding() {
			pending = append(pending, idx)
			texts = append(texts, embeddingText(&docs[idx]))
		}
	}
	if len(pending) == 0 {
		return
	}

	vecs, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil || len(vecs) != len(pending) {
		logger.Debug("Embedding %d documents failed, storing without vectors: %v", len(pending), err)
		return
	}
	for n, idx := range pending {
		docs[idx].Embedding = vecs[n]
	}
}

// Clear empties the requester's partition.
func (i *Indexer) Clear(ctx context.Context, requesterID string) error {
	if err := i.store.Clear(ctx, requesterID); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}
	return nil
}

func embeddingText(doc *domain.Document) string {
	if doc.Title == "" || strings.Contains(doc.Content, doc.Title) {
		return doc.Content
	}
	return doc.Title + "\n" + doc.Content
}
