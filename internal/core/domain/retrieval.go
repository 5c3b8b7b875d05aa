package domain

// Retrieval defaults.
const (
	DefaultTopK      = 10
	DefaultThreshold = 0.3

	// SnippetLength is the number of characters kept in a citation snippet.
	SnippetLength = 150
)

// RetrievalStrategy names the ranking path a retrieval took.
type RetrievalStrategy string

// Retrieval strategies.
const (
	StrategyRecency   RetrievalStrategy = "recency"
	StrategyEmbedding RetrievalStrategy = "embedding"
	StrategyKeyword   RetrievalStrategy = "keyword"
)

// RetrieveOptions configures one retrieval call.
type RetrieveOptions struct {
	// TopK is the maximum number of chunks returned (default 10).
	TopK int

	// Threshold is the minimum cosine similarity on the embedding path (default 0.3).
	Threshold float64

	// Sources restricts retrieval to these kinds. Empty means all.
	Sources []SourceKind
}

// WithDefaults returns a copy with zero values replaced by defaults.
func (o RetrieveOptions) WithDefaults() RetrieveOptions {
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	return o
}

// RetrievedChunk is a document scored within one retrieval call.
type RetrievedChunk struct {
	Document   Document
	Similarity float64
	Query      string
}

// Citation is the user-facing reference to a retrieved document.
type Citation struct {
	DocumentID string
	Source     SourceKind
	Title      string
	Snippet    string
	URL        string
	Relevance  float64
}

// RetrievalResult is the output of the retrieval pipeline.
type RetrievalResult struct {
	Chunks           []RetrievedChunk
	Sources          []Citation
	ScopeDescription string
	Strategy         RetrievalStrategy
}
