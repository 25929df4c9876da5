package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/docuquery/docuquery/internal/core/domain"
	"github.com/docuquery/docuquery/internal/core/pipeline"
	"github.com/docuquery/docuquery/internal/core/ports"
)

// Options tunes the retrieval and synthesis stages. Zero values fall
// back to the fixed defaults.
type Options struct {
	RetrievalK     int
	LexicalWeight  float64
	SemanticWeight float64
	// ContextBudget bounds the context block in characters; 0 means
	// unbounded.
	ContextBudget int
	// HistoryLimit caps how many trailing turns feed the rewriter and
	// synthesizer; 0 means all.
	HistoryLimit int
}

func (o Options) normalize() Options {
	if o.RetrievalK <= 0 {
		o.RetrievalK = DefaultRetrievalK
	}
	if o.LexicalWeight <= 0 && o.SemanticWeight <= 0 {
		o.LexicalWeight = DefaultLexicalWeight
		o.SemanticWeight = DefaultSemanticWeight
	}
	return o
}

// QueryUseCase orchestrates one conversational query: redact, rewrite,
// hybrid retrieve, synthesize. Stages run strictly in that order; the
// only suspension points are the external rewrite/generate calls.
type QueryUseCase struct {
	cache     *pipeline.Cache
	redactor  ports.Redactor
	generator ports.Generator
	opts      Options

	mu          sync.RWMutex
	lastSources map[string][]domain.Chunk
}

func NewQueryUseCase(
	cache *pipeline.Cache,
	redactor ports.Redactor,
	generator ports.Generator,
	opts Options,
) *QueryUseCase {
	return &QueryUseCase{
		cache:       cache,
		redactor:    redactor,
		generator:   generator,
		opts:        opts.normalize(),
		lastSources: make(map[string][]domain.Chunk),
	}
}

func (uc *QueryUseCase) Ask(
	ctx context.Context,
	key, question string,
	history []domain.ConversationTurn,
) (*domain.Answer, error) {
	prompt, used, err := uc.prepare(ctx, key, question, history)
	if err != nil {
		return nil, err
	}

	answerText, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, domain.WrapError(domain.ErrGeneration, "synthesize answer", err)
	}

	uc.storeSources(key, used)
	return &domain.Answer{Text: answerText, Sources: used}, nil
}

// AskStream runs the same pipeline but forwards the answer as a lazy
// fragment sequence. Sources are recorded only once the stream
// completes cleanly; cancelling the context stops forwarding.
func (uc *QueryUseCase) AskStream(
	ctx context.Context,
	key, question string,
	history []domain.ConversationTurn,
) (<-chan domain.AnswerDelta, error) {
	prompt, used, err := uc.prepare(ctx, key, question, history)
	if err != nil {
		return nil, err
	}

	upstream, err := uc.generator.GenerateStream(ctx, prompt)
	if err != nil {
		return nil, domain.WrapError(domain.ErrGeneration, "open answer stream", err)
	}

	out := make(chan domain.AnswerDelta)
	go func() {
		defer close(out)
		failed := false
		for delta := range upstream {
			if delta.Err != nil {
				failed = true
				delta.Err = domain.WrapError(domain.ErrGeneration, "stream answer", delta.Err)
			}
			select {
			case out <- delta:
			case <-ctx.Done():
				return
			}
		}
		if !failed {
			uc.storeSources(key, used)
		}
	}()
	return out, nil
}

// Sources returns the chunks used by the most recent completed query
// for the key. Valid only after Ask, or after an AskStream sequence has
// been fully consumed.
func (uc *QueryUseCase) Sources(key string) ([]domain.Chunk, error) {
	if _, ok := uc.cache.Get(key); !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "fetch sources",
			fmt.Errorf("no pipeline for document key %q", key))
	}

	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.lastSources[key], nil
}

// prepare runs the shared redact -> rewrite -> retrieve -> assemble
// stages and returns the synthesis prompt plus the chunks placed into
// the context block.
func (uc *QueryUseCase) prepare(
	ctx context.Context,
	key, question string,
	history []domain.ConversationTurn,
) (string, []domain.Chunk, error) {
	p, ok := uc.cache.Get(key)
	if !ok {
		return "", nil, domain.WrapError(domain.ErrNotFound, "answer question",
			fmt.Errorf("no pipeline for document key %q", key))
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return "", nil, domain.WrapError(domain.ErrInvalidInput, "answer question",
			errors.New("question is required"))
	}

	redacted := uc.redactor.Redact(question)
	history = uc.trimHistory(history)
	standalone := uc.rewriteQuery(ctx, history, redacted)

	candidates, err := uc.retrieve(ctx, p, standalone)
	if err != nil {
		return "", nil, err
	}

	contextBlock, used := buildContextBlock(candidates, uc.opts.ContextBudget)
	prompt := buildAnswerPrompt(standalone, contextBlock, history)
	return prompt, used, nil
}

// rewriteQuery condenses history plus the latest question into a
// standalone retrieval query. With no history the question passes
// through untouched and no external call is made. A failed rewrite
// degrades to the redacted question rather than failing the request.
func (uc *QueryUseCase) rewriteQuery(
	ctx context.Context,
	history []domain.ConversationTurn,
	question string,
) string {
	if len(history) == 0 {
		return question
	}

	standalone, err := uc.generator.Generate(ctx, buildRewritePrompt(history, question))
	if err != nil {
		err = domain.WrapError(domain.ErrRewrite, "rewrite query", err)
		slog.Warn("rewrite_fallback", "error", err)
		return question
	}
	standalone = strings.TrimSpace(standalone)
	if standalone == "" {
		return question
	}
	return standalone
}

func (uc *QueryUseCase) retrieve(
	ctx context.Context,
	p *pipeline.Pipeline,
	standalone string,
) ([]domain.RetrievalCandidate, error) {
	lexicalHits := p.Lexical.Query(standalone, uc.opts.RetrievalK)

	semanticHits, err := p.Semantic.Query(ctx, standalone, uc.opts.RetrievalK)
	if err != nil {
		return nil, fmt.Errorf("semantic retrieval: %w", err)
	}

	return fuseWeighted(lexicalHits, semanticHits, uc.opts.LexicalWeight, uc.opts.SemanticWeight), nil
}

func (uc *QueryUseCase) trimHistory(history []domain.ConversationTurn) []domain.ConversationTurn {
	if uc.opts.HistoryLimit <= 0 || len(history) <= uc.opts.HistoryLimit {
		return history
	}
	return history[len(history)-uc.opts.HistoryLimit:]
}

func (uc *QueryUseCase) storeSources(key string, used []domain.Chunk) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.lastSources[key] = used
}
