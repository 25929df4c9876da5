package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"

	httpadapter "github.com/docuquery/docuquery/internal/adapters/http"
	mcpadapter "github.com/docuquery/docuquery/internal/adapters/mcp"
	"github.com/docuquery/docuquery/internal/config"
	"github.com/docuquery/docuquery/internal/core/pipeline"
	"github.com/docuquery/docuquery/internal/core/usecase"
	"github.com/docuquery/docuquery/internal/infrastructure/chunking"
	"github.com/docuquery/docuquery/internal/infrastructure/index/lexical"
	"github.com/docuquery/docuquery/internal/infrastructure/index/semantic"
	"github.com/docuquery/docuquery/internal/infrastructure/llm/ollama"
	"github.com/docuquery/docuquery/internal/infrastructure/loader"
	"github.com/docuquery/docuquery/internal/infrastructure/loader/pdf"
	"github.com/docuquery/docuquery/internal/infrastructure/loader/plaintext"
	"github.com/docuquery/docuquery/internal/infrastructure/loader/xlsx"
	"github.com/docuquery/docuquery/internal/infrastructure/redaction"
	"github.com/docuquery/docuquery/internal/infrastructure/resilience"
	"github.com/docuquery/docuquery/internal/observability/logging"
	"github.com/docuquery/docuquery/internal/observability/metrics"
)

const Version = "1.0.0"

// App holds the assembled object graph shared by the API and MCP
// entrypoints.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	Ingest  *usecase.IngestUseCase
	Query   *usecase.QueryUseCase
	Extract *usecase.ExtractUseCase

	loaders *loader.Registry
}

func New(service string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewJSONLogger(service, cfg.LogLevel)
	slog.SetDefault(logger)

	m := metrics.New()

	executorCfg := resilience.DefaultConfig()
	executorCfg.RetryMaxAttempts = cfg.EmbedRetryMaxAttempts
	executorCfg.BreakerEnabled = cfg.BreakerEnabled
	executor := resilience.NewExecutor(executorCfg)

	client := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, executor)
	embedder := ollama.NewEmbedder(client)
	generator := ollama.NewGenerator(client)

	redactor := redaction.NewRedactor()
	redactor.OnMatch(func(entity string) {
		m.RedactedEntities.WithLabelValues(entity).Inc()
	})

	loaders := loader.NewRegistry()
	loaders.Register(".txt", plaintext.New())
	loaders.Register(".md", plaintext.New())
	loaders.Register(".pdf", pdf.New())
	loaders.Register(".xlsx", xlsx.New())

	cache := pipeline.NewCache()

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
		Ingest: usecase.NewIngestUseCase(
			cache,
			chunking.NewSplitter(),
			lexical.NewBuilder(),
			semantic.NewBuilder(embedder),
		),
		Query: usecase.NewQueryUseCase(cache, redactor, generator, usecase.Options{
			RetrievalK:     cfg.RetrievalK,
			LexicalWeight:  cfg.LexicalWeight,
			SemanticWeight: cfg.SemanticWeight,
			ContextBudget:  cfg.ContextCharBudget,
			HistoryLimit:   cfg.HistoryMaxTurns,
		}),
		Extract: usecase.NewExtractUseCase(cache, redactor, generator, cfg.ExtractionTopK),

		loaders: loaders,
	}
	return app, nil
}

// Router builds the HTTP surface over the assembled services.
func (a *App) Router() (http.Handler, error) {
	apidoc, err := httpadapter.NewAPIDoc()
	if err != nil {
		return nil, err
	}

	handlers := httpadapter.NewHandlers(a.Logger, a.Metrics, a.loaders, a.Ingest, a.Query, a.Extract)
	return httpadapter.NewRouter(a.Logger, a.Metrics, handlers, apidoc, httpadapter.RouterConfig{
		RateLimitRPS:   a.Config.APIRateLimitRPS,
		RateLimitBurst: a.Config.APIRateLimitBurst,
		MaxInFlight:    a.Config.APIMaxInFlight,
	}), nil
}

// MCPServer builds the stdio MCP surface over the assembled services.
func (a *App) MCPServer() *mcpadapter.Server {
	return mcpadapter.NewServer(Version, a.Query, a.Extract)
}
