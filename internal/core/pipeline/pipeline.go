package pipeline

import (
	"github.com/docuquery/docuquery/internal/core/domain"
	"github.com/docuquery/docuquery/internal/core/ports"
)

// Pipeline is the assembled retrieval state for one document: its
// chunks and the two conversational sub-indexes, plus a separate
// semantic-only index used by structured extraction. Indexes are
// read-only after build, so a Pipeline is safe for concurrent queries.
type Pipeline struct {
	Key        string
	Params     domain.ChunkingParams
	Chunks     []domain.Chunk
	Lexical    ports.LexicalIndex
	Semantic   ports.SemanticIndex
	Extraction ports.SemanticIndex
}
