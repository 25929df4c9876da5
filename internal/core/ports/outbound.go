package ports

import (
	"context"
	"io"

	"github.com/docuquery/docuquery/internal/core/domain"
)

// Embedder builds vectors for chunks and query text. An external,
// network-backed service with possible transient failure.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Generator issues a single completion against the external model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	GenerateStream(ctx context.Context, prompt string) (<-chan domain.AnswerDelta, error)
}

// Redactor masks sensitive spans in user-supplied text. Stateless after
// initialization and safe for concurrent use.
type Redactor interface {
	Redact(text string) string
}

// DocumentLoader extracts text units from an uploaded file.
type DocumentLoader interface {
	Load(ctx context.Context, filename string, data io.Reader) ([]domain.DocumentUnit, error)
}

// Chunker splits document units into bounded, overlapping chunks.
type Chunker interface {
	Split(units []domain.DocumentUnit, params domain.ChunkingParams) ([]domain.Chunk, error)
}

// LexicalIndex ranks chunks by term overlap with the query. Pure
// in-process computation, deterministic for a fixed corpus and query.
type LexicalIndex interface {
	Query(text string, k int) []domain.ScoredChunk
}

// SemanticIndex performs nearest-neighbor search over chunk embeddings.
// Query-time embedding may fail; the index itself is read-only after build.
type SemanticIndex interface {
	Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error)
}

// SemanticIndexBuilder embeds every chunk eagerly and returns a fully
// built index, or fails atomically with no partial state.
type SemanticIndexBuilder interface {
	Build(ctx context.Context, chunks []domain.Chunk) (SemanticIndex, error)
}

// LexicalIndexBuilder builds a term-frequency ranking structure over chunks.
type LexicalIndexBuilder interface {
	Build(chunks []domain.Chunk) LexicalIndex
}
