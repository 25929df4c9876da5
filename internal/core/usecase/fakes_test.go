package usecase

import (
	"context"
	"strings"

	"github.com/docuquery/docuquery/internal/core/domain"
)

// passRedactor is a no-op masker for tests that don't exercise redaction.
type passRedactor struct{}

func (passRedactor) Redact(text string) string { return text }

type genCall struct {
	out string
	err error
}

// scriptedGenerator replays canned completions in order and records
// every prompt it was handed.
type scriptedGenerator struct {
	prompts []string
	calls   []genCall

	jsonPrompts []string
	jsonOut     string
	jsonErr     error

	streamDeltas []domain.AnswerDelta
	streamErr    error
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if len(g.calls) == 0 {
		return "", nil
	}
	call := g.calls[0]
	g.calls = g.calls[1:]
	return call.out, call.err
}

func (g *scriptedGenerator) GenerateJSON(_ context.Context, prompt string) (string, error) {
	g.jsonPrompts = append(g.jsonPrompts, prompt)
	return g.jsonOut, g.jsonErr
}

func (g *scriptedGenerator) GenerateStream(_ context.Context, prompt string) (<-chan domain.AnswerDelta, error) {
	g.prompts = append(g.prompts, prompt)
	if g.streamErr != nil {
		return nil, g.streamErr
	}
	out := make(chan domain.AnswerDelta, len(g.streamDeltas))
	for _, delta := range g.streamDeltas {
		out <- delta
	}
	close(out)
	return out, nil
}

// keywordEmbedder produces deterministic vectors from keyword presence,
// so semantic similarity in tests is controlled by wording alone.
type keywordEmbedder struct {
	keywords []string
	err      error
}

func (e *keywordEmbedder) vectorFor(text string) []float32 {
	lower := strings.ToLower(text)
	vec := make([]float32, len(e.keywords)+1)
	vec[len(e.keywords)] = 0.01
	for i, kw := range e.keywords {
		if strings.Contains(lower, kw) {
			vec[i] = 1
		}
	}
	return vec
}

func (e *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.vectorFor(text)
	}
	return out, nil
}

func (e *keywordEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.vectorFor(text), nil
}

// fakeSemanticIndex returns canned hits without embedding anything.
type fakeSemanticIndex struct {
	hits    []domain.ScoredChunk
	err     error
	queries []string
}

func (f *fakeSemanticIndex) Query(_ context.Context, text string, k int) ([]domain.ScoredChunk, error) {
	f.queries = append(f.queries, text)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.hits) > k {
		return f.hits[:k], nil
	}
	return f.hits, nil
}
