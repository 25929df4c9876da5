package lexical

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/docuquery/docuquery/internal/core/domain"
	"github.com/docuquery/docuquery/internal/core/ports"
)

const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// Index is an in-memory BM25 ranking structure over one document's
// chunks. Read-only after Build; pure in-process computation with
// deterministic output for a fixed corpus and query.
type Index struct {
	chunks    []domain.Chunk
	termFreqs []map[string]int
	docLens   []int
	docFreq   map[string]int
	avgDocLen float64
}

// Builder adapts Build to the ports.LexicalIndexBuilder contract.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Build(chunks []domain.Chunk) ports.LexicalIndex {
	return Build(chunks)
}

func Build(chunks []domain.Chunk) *Index {
	idx := &Index{
		chunks:    chunks,
		termFreqs: make([]map[string]int, len(chunks)),
		docLens:   make([]int, len(chunks)),
		docFreq:   make(map[string]int, 256),
	}

	totalLen := 0
	for i, chunk := range chunks {
		tokens := tokenize(chunk.Text)
		tf := make(map[string]int, len(tokens))
		for _, token := range tokens {
			tf[token]++
		}
		for token := range tf {
			idx.docFreq[token]++
		}
		idx.termFreqs[i] = tf
		idx.docLens[i] = len(tokens)
		totalLen += len(tokens)
	}
	if len(chunks) > 0 {
		idx.avgDocLen = float64(totalLen) / float64(len(chunks))
	}
	return idx
}

// Query returns the top-k chunks by BM25 score. Chunks with zero score
// are omitted; ties break on corpus order for reproducibility.
func (idx *Index) Query(text string, k int) []domain.ScoredChunk {
	if k <= 0 || len(idx.chunks) == 0 {
		return nil
	}

	queryTokens := tokenize(text)
	if len(queryTokens) == 0 {
		return nil
	}

	n := float64(len(idx.chunks))
	scored := make([]domain.ScoredChunk, 0, len(idx.chunks))
	for i := range idx.chunks {
		score := 0.0
		docLen := float64(idx.docLens[i])
		for _, token := range queryTokens {
			tf := float64(idx.termFreqs[i][token])
			if tf == 0 {
				continue
			}
			df := float64(idx.docFreq[token])
			idf := math.Log(1.0 + (n-df+0.5)/(df+0.5))
			norm := bm25K1 * (1.0 - bm25B + bm25B*docLen/idx.avgDocLen)
			score += idf * tf * (bm25K1 + 1.0) / (tf + norm)
		}
		if score > 0 {
			scored = append(scored, domain.ScoredChunk{Chunk: idx.chunks[i], Score: score})
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

func tokenize(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, 24)
	var b strings.Builder
	for _, r := range s {
		r = unicode.ToLower(r)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			out = append(out, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}
