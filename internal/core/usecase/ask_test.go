package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/docuquery/docuquery/internal/core/domain"
	"github.com/docuquery/docuquery/internal/core/pipeline"
)

// parisPipeline ingests the two-passage Paris document through the real
// splitter and both real indexes, backed by the keyword embedder.
func parisPipeline(t *testing.T, cache *pipeline.Cache) {
	t.Helper()
	embedder := &keywordEmbedder{keywords: []string{"eiffel", "paris", "capital"}}
	uc := newIngest(cache, embedder)

	units := []domain.DocumentUnit{
		{Text: "Paris is the capital of France.", Page: 1},
		{Text: "The Eiffel Tower is in Paris.", Page: 2},
	}
	if err := uc.Ingest(context.Background(), "paris", units, domain.ChunkingOptions{}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
}

func TestAskUnknownKey(t *testing.T) {
	uc := NewQueryUseCase(pipeline.NewCache(), passRedactor{}, &scriptedGenerator{}, Options{})

	_, err := uc.Ask(context.Background(), "ghost", "anything", nil)
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want not-found kind", err)
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	cache := pipeline.NewCache()
	parisPipeline(t, cache)
	uc := NewQueryUseCase(cache, passRedactor{}, &scriptedGenerator{}, Options{})

	_, err := uc.Ask(context.Background(), "paris", "   ", nil)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Errorf("error = %v, want invalid-input kind", err)
	}
}

func TestAskGroundsAnswerInDocument(t *testing.T) {
	cache := pipeline.NewCache()
	parisPipeline(t, cache)

	gen := &scriptedGenerator{calls: []genCall{{out: "The Eiffel Tower is in Paris."}}}
	uc := NewQueryUseCase(cache, passRedactor{}, gen, Options{})

	answer, err := uc.Ask(context.Background(), "paris", "Where is the Eiffel Tower?", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer.Text != "The Eiffel Tower is in Paris." {
		t.Errorf("answer = %q", answer.Text)
	}

	if len(answer.Sources) == 0 {
		t.Fatal("answer carries no sources")
	}
	if !strings.Contains(answer.Sources[0].Text, "Eiffel") {
		t.Errorf("top source = %q, want the Eiffel passage", answer.Sources[0].Text)
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("generator saw %d prompts, want 1 (no rewrite without history)", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "The Eiffel Tower is in Paris.") {
		t.Error("synthesis prompt missing retrieved context")
	}
	if !strings.Contains(prompt, "Where is the Eiffel Tower?") {
		t.Error("synthesis prompt missing the question")
	}

	sources, err := uc.Sources("paris")
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	if len(sources) != len(answer.Sources) {
		t.Errorf("Sources returned %d chunks, answer had %d", len(sources), len(answer.Sources))
	}
}

func TestAskWithHistoryRewritesQuery(t *testing.T) {
	cache := pipeline.NewCache()
	parisPipeline(t, cache)

	gen := &scriptedGenerator{calls: []genCall{
		{out: "What is the capital of France?"},
		{out: "Paris."},
	}}
	uc := NewQueryUseCase(cache, passRedactor{}, gen, Options{})

	history := []domain.ConversationTurn{
		domain.UserTurn("Tell me about France."),
		domain.AssistantTurn("France is a country in Europe."),
	}
	answer, err := uc.Ask(context.Background(), "paris", "What is its capital?", history)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer.Text != "Paris." {
		t.Errorf("answer = %q", answer.Text)
	}

	if len(gen.prompts) != 2 {
		t.Fatalf("generator saw %d prompts, want rewrite + synthesis", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "Tell me about France.") {
		t.Error("rewrite prompt missing history")
	}
	if !strings.Contains(gen.prompts[1], "What is the capital of France?") {
		t.Error("synthesis prompt does not use the rewritten question")
	}
}

func TestAskRewriteFailureFallsBackToQuestion(t *testing.T) {
	cache := pipeline.NewCache()
	parisPipeline(t, cache)

	gen := &scriptedGenerator{calls: []genCall{
		{err: errors.New("model busy")},
		{out: "Paris is the capital of France."},
	}}
	uc := NewQueryUseCase(cache, passRedactor{}, gen, Options{})

	history := []domain.ConversationTurn{domain.UserTurn("earlier turn")}
	answer, err := uc.Ask(context.Background(), "paris", "What is the capital of France?", history)
	if err != nil {
		t.Fatalf("Ask after rewrite failure: %v", err)
	}
	if answer.Text != "Paris is the capital of France." {
		t.Errorf("answer = %q", answer.Text)
	}
	if !strings.Contains(gen.prompts[1], "What is the capital of France?") {
		t.Error("fallback did not retrieve with the original question")
	}
}

func TestAskGenerationFailure(t *testing.T) {
	cache := pipeline.NewCache()
	parisPipeline(t, cache)

	gen := &scriptedGenerator{calls: []genCall{{err: errors.New("model down")}}}
	uc := NewQueryUseCase(cache, passRedactor{}, gen, Options{})

	_, err := uc.Ask(context.Background(), "paris", "Where is the Eiffel Tower?", nil)
	if !domain.IsKind(err, domain.ErrGeneration) {
		t.Errorf("error = %v, want generation kind", err)
	}

	if sources, _ := uc.Sources("paris"); len(sources) != 0 {
		t.Error("failed query recorded sources")
	}
}

func TestAskHistoryLimit(t *testing.T) {
	cache := pipeline.NewCache()
	parisPipeline(t, cache)

	gen := &scriptedGenerator{calls: []genCall{
		{out: "standalone"},
		{out: "answer"},
	}}
	uc := NewQueryUseCase(cache, passRedactor{}, gen, Options{HistoryLimit: 2})

	history := []domain.ConversationTurn{
		domain.UserTurn("dropped turn"),
		domain.UserTurn("kept one"),
		domain.AssistantTurn("kept two"),
	}
	if _, err := uc.Ask(context.Background(), "paris", "question", history); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if strings.Contains(gen.prompts[0], "dropped turn") {
		t.Error("rewrite prompt contains a turn beyond the history limit")
	}
	if !strings.Contains(gen.prompts[0], "kept two") {
		t.Error("rewrite prompt missing a retained turn")
	}
}

func TestAskStreamForwardsDeltasAndStoresSources(t *testing.T) {
	cache := pipeline.NewCache()
	parisPipeline(t, cache)

	gen := &scriptedGenerator{streamDeltas: []domain.AnswerDelta{
		{Text: "The Eiffel Tower "},
		{Text: "is in Paris."},
	}}
	uc := NewQueryUseCase(cache, passRedactor{}, gen, Options{})

	deltas, err := uc.AskStream(context.Background(), "paris", "Where is the Eiffel Tower?", nil)
	if err != nil {
		t.Fatalf("AskStream: %v", err)
	}

	var full strings.Builder
	for delta := range deltas {
		if delta.Err != nil {
			t.Fatalf("unexpected stream error: %v", delta.Err)
		}
		full.WriteString(delta.Text)
	}
	if full.String() != "The Eiffel Tower is in Paris." {
		t.Errorf("streamed answer = %q", full.String())
	}

	sources, err := uc.Sources("paris")
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	if len(sources) == 0 {
		t.Error("completed stream did not record sources")
	}
}

func TestAskStreamMidStreamFailure(t *testing.T) {
	cache := pipeline.NewCache()
	parisPipeline(t, cache)

	gen := &scriptedGenerator{streamDeltas: []domain.AnswerDelta{
		{Text: "partial "},
		{Err: errors.New("connection reset")},
	}}
	uc := NewQueryUseCase(cache, passRedactor{}, gen, Options{})

	deltas, err := uc.AskStream(context.Background(), "paris", "Where is the Eiffel Tower?", nil)
	if err != nil {
		t.Fatalf("AskStream: %v", err)
	}

	var streamErr error
	for delta := range deltas {
		if delta.Err != nil {
			streamErr = delta.Err
		}
	}
	if !domain.IsKind(streamErr, domain.ErrGeneration) {
		t.Errorf("stream error = %v, want generation kind", streamErr)
	}

	if sources, _ := uc.Sources("paris"); len(sources) != 0 {
		t.Error("failed stream recorded sources")
	}
}

func TestAskStreamOpenFailure(t *testing.T) {
	cache := pipeline.NewCache()
	parisPipeline(t, cache)

	gen := &scriptedGenerator{streamErr: errors.New("dial refused")}
	uc := NewQueryUseCase(cache, passRedactor{}, gen, Options{})

	_, err := uc.AskStream(context.Background(), "paris", "Where is the Eiffel Tower?", nil)
	if !domain.IsKind(err, domain.ErrGeneration) {
		t.Errorf("error = %v, want generation kind", err)
	}
}

func TestSourcesUnknownKey(t *testing.T) {
	uc := NewQueryUseCase(pipeline.NewCache(), passRedactor{}, &scriptedGenerator{}, Options{})

	_, err := uc.Sources("ghost")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want not-found kind", err)
	}
}
