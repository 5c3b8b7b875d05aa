package driven

import "context"

// EmbeddingService turns text into vectors for similarity ranking.
// It is optional: with a nil service documents are stored without
// vectors and retrieval ranks by keyword overlap.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per text, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	Dimensions() int
	ModelName() string

	// Ping issues the cheapest request the provider allows.
	Ping(ctx context.Context) error

	Close() error
}
