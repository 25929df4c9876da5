package semantic

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/docuquery/docuquery/internal/core/domain"
	"github.com/docuquery/docuquery/internal/core/ports"
)

// Builder embeds every chunk eagerly through the external embedder and
// returns a fully built index. Build is atomic: any embedding failure
// leaves no partial state behind.
type Builder struct {
	embedder ports.Embedder
}

func NewBuilder(embedder ports.Embedder) *Builder {
	return &Builder{embedder: embedder}
}

func (b *Builder) Build(ctx context.Context, chunks []domain.Chunk) (ports.SemanticIndex, error) {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := b.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, domain.WrapError(domain.ErrEmbedding, "embed chunks", err)
	}
	if len(vectors) != len(chunks) {
		return nil, domain.WrapError(domain.ErrEmbedding, "embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)))
	}

	return &Index{
		embedder: b.embedder,
		chunks:   chunks,
		vectors:  vectors,
	}, nil
}

// Index is a brute-force cosine-similarity nearest-neighbor store over
// one document's chunk embeddings. Read-only after build.
type Index struct {
	embedder ports.Embedder
	chunks   []domain.Chunk
	vectors  [][]float32
}

func (idx *Index) Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error) {
	if k <= 0 || len(idx.chunks) == 0 {
		return nil, nil
	}

	queryVector, err := idx.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrieval, "embed query", err)
	}

	scored := make([]domain.ScoredChunk, 0, len(idx.chunks))
	for i := range idx.vectors {
		scored = append(scored, domain.ScoredChunk{
			Chunk: idx.chunks[i],
			Score: cosine(idx.vectors[i], queryVector),
		})
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
