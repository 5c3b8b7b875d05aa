package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driven"
	"github.com/custodia-labs/askwork/internal/core/ports/driving"
	"github.com/custodia-labs/askwork/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// recencyIntentWords trigger the recency shortcut when found anywhere
// in the lowercased query.
var recencyIntentWords = []string{
	"update", "task", "priority", "todo", "what", "summary", "overview",
}

// RetrievalService ranks a requester's permitted documents for a query.
type RetrievalService struct {
	store       driven.DocumentStore
	embedder    driven.EmbeddingService
	permissions *PermissionEngine
}

// NewRetrievalService creates a retrieval service.
// The embedder parameter is optional (can be nil).
func NewRetrievalService(
	store driven.DocumentStore,
	embedder driven.EmbeddingService,
	permissions *PermissionEngine,
) *RetrievalService {
	if permissions == nil {
		permissions = NewPermissionEngine()
	}
	return &RetrievalService{
		store:       store,
		embedder:    embedder,
		permissions: permissions,
	}
}

// Retrieve returns the requester's best-matching permitted documents.
// Every returned chunk passed the permission filter before ranking.
func (s *RetrievalService) Retrieve(
	ctx context.Context,
	requester *domain.RequesterContext,
	query string,
	opts domain.RetrieveOptions,
) (*domain.RetrievalResult, error) {
	if requester == nil {
		return nil, domain.ErrAuthorizationGap
	}
	opts = opts.WithDefaults()

	logger.Section("Retrieval")
	logger.Debug("Requester: %s, query length: %d, topK: %d", requester.UserID, len(query), opts.TopK)

	docs, err := s.store.All(ctx, requester.UserID)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	docs = restrictSources(docs, opts.Sources)
	docs = s.permissions.FilterByPermission(requester, docs)
	logger.Debug("Permitted documents: %d", len(docs))

	var (
		chunks   []domain.RetrievedChunk
		strategy domain.RetrievalStrategy
	)
	switch {
	case hasRecencyIntent(query):
		strategy = domain.StrategyRecency
		chunks = rankByRecency(docs, query, opts.TopK)
	default:
		queryVec, embedErr := s.embedQuery(ctx, query)
		if embedErr != nil {
			logger.Debug("Falling back to keyword matching: %v", embedErr)
			strategy = domain.StrategyKeyword
			chunks = rankByKeywords(docs, query, opts.TopK)
		} else {
			strategy = domain.StrategyEmbedding
			chunks = rankBySimilarity(docs, queryVec, query, opts.TopK, opts.Threshold)
		}
	}
	logger.Info("Retrieved %d chunks via %s", len(chunks), strategy)

	result := &domain.RetrievalResult{
		Chunks:           chunks,
		Sources:          citations(chunks),
		ScopeDescription: s.permissions.DescribeScope(requester),
		Strategy:         strategy,
	}

	logger.Audit(requester.UserID, "retrieve", chunkIDs(chunks), len(query))
	return result, nil
}

// embedQuery returns the query vector, or ErrEmbeddingUnavailable.
func (s *RetrievalService) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vec) == 0 {
		return nil, domain.ErrEmbeddingUnavailable
	}
	return vec, nil
}

func restrictSources(docs []domain.Document, sources []domain.SourceKind) []domain.Document {
	if len(sources) == 0 {
		return docs
	}
	allowed := make(map[domain.SourceKind]bool, len(sources))
	for _, s := range sources {
		allowed[s] = true
	}
	kept := make([]domain.Document, 0, len(docs))
	for i := range docs {
		if allowed[docs[i].Source] {
			kept = append(kept, docs[i])
		}
	}
	return kept
}

func hasRecencyIntent(query string) bool {
	q := strings.ToLower(query)
	for _, w := range recencyIntentWords {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

func rankByRecency(docs []domain.Document, query string, topK int) []domain.RetrievedChunk {
	sorted := make([]domain.Document, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	n := min(topK, len(sorted))
	chunks := make([]domain.RetrievedChunk, 0, n)
	for i := range n {
		chunks = append(chunks, domain.RetrievedChunk{Document: sorted[i], Similarity: 1.0, Query: query})
	}
	return chunks
}

func rankByKeywords(docs []domain.Document, query string, topK int) []domain.RetrievedChunk {
	words := queryWords(query)
	if len(words) == 0 {
		return []domain.RetrievedChunk{}
	}

	var chunks []domain.RetrievedChunk
	for i := range docs {
		content := strings.ToLower(docs[i].Content)
		matched := 0
		for _, w := range words {
			if strings.Contains(content, w) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		chunks = append(chunks, domain.RetrievedChunk{
			Document:   docs[i],
			Similarity: float64(matched) / float64(len(words)),
			Query:      query,
		})
	}
	return topChunks(chunks, topK)
}

func rankBySimilarity(
	docs []domain.Document,
	queryVec []float32,
	query string,
	topK int,
	threshold float64,
) []domain.RetrievedChunk {
	var chunks []domain.RetrievedChunk
	for i := range docs {
		if !docs[i].HasEmbedding() {
			continue
		}
		sim := CosineSimilarity(queryVec, docs[i].Embedding)
		if sim < threshold {
			continue
		}
		chunks = append(chunks, domain.RetrievedChunk{Document: docs[i], Similarity: sim, Query: query})
	}
	return topChunks(chunks, topK)
}

// topChunks sorts by descending score, keeping store order on ties.
func topChunks(chunks []domain.RetrievedChunk, topK int) []domain.RetrievedChunk {
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Similarity > chunks[j].Similarity
	})
	if len(chunks) > topK {
		chunks = chunks[:topK]
	}
	if chunks == nil {
		return []domain.RetrievedChunk{}
	}
	return chunks
}

// queryWords splits a query into lowercased words, dropping punctuation.
func queryWords(query string) []string {
	return strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func citations(chunks []domain.RetrievedChunk) []domain.Citation {
	out := make([]domain.Citation, 0, len(chunks))
	for i := range chunks {
		doc := &chunks[i].Document
		out = append(out, domain.Citation{
			DocumentID: doc.ID,
			Source:     doc.Source,
			Title:      doc.DisplayTitle(),
			Snippet:    snippet(doc.Content, domain.SnippetLength),
			URL:        doc.URL,
			Relevance:  chunks[i].Similarity,
		})
	}
	return out
}

// snippet returns the first n characters of text, marking truncation.
func snippet(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

func chunkIDs(chunks []domain.RetrievedChunk) []string {
	ids := make([]string, 0, len(chunks))
	for i := range chunks {
		ids = append(ids, chunks[i].Document.ID)
	}
	return ids
}
