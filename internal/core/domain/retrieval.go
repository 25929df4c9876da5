package domain

// ScoredChunk is a single sub-index hit before fusion.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// SubScore records where a chunk ranked inside one sub-index.
type SubScore struct {
	Rank  int     `json:"rank"`
	Score float64 `json:"score"`
}

// RetrievalCandidate is a fused hybrid retrieval result. Lexical or
// Semantic is nil when the chunk was returned by only one sub-index.
// Transient: produced per query, never persisted.
type RetrievalCandidate struct {
	Chunk    Chunk     `json:"chunk"`
	Lexical  *SubScore `json:"lexical,omitempty"`
	Semantic *SubScore `json:"semantic,omitempty"`
	Combined float64   `json:"combined_score"`
}

// Answer is a grounded response together with the chunks that were
// actually placed into the generation context.
type Answer struct {
	Text    string  `json:"answer"`
	Sources []Chunk `json:"sources"`
}

// AnswerDelta is one fragment of a streamed answer. Err is non-nil only
// on the terminal delta of a failed stream.
type AnswerDelta struct {
	Text string
	Err  error
}
