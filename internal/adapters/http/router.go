package http

import (
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/docuquery/docuquery/internal/observability/metrics"
)

type RouterConfig struct {
	RateLimitRPS   float64
	RateLimitBurst int
	MaxInFlight    int
}

// NewRouter assembles the HTTP surface. API routes share a rate limiter
// and a backpressure gate; the operational endpoints bypass both so
// probes keep working under load.
func NewRouter(
	logger *slog.Logger,
	m *metrics.Metrics,
	handlers *Handlers,
	apidoc *APIDoc,
	cfg RouterConfig,
) http.Handler {
	mux := http.NewServeMux()

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	api := func(route string, handler http.HandlerFunc) http.Handler {
		var h http.Handler = handler
		h = backpressure(cfg.MaxInFlight, h)
		h = rateLimit(limiter, h)
		h = instrument(m, route, h)
		h = accessLog(logger, route, h)
		return h
	}

	mux.Handle("POST /v1/documents", api("/v1/documents", handlers.handleUpload))
	mux.Handle("POST /v1/chat", api("/v1/chat", handlers.handleChat))
	mux.Handle("POST /v1/chat/stream", api("/v1/chat/stream", handlers.handleChatStream))
	mux.Handle("GET /v1/documents/{key}/sources", api("/v1/documents/{key}/sources", handlers.handleSources))
	mux.Handle("POST /v1/extract", api("/v1/extract", handlers.handleExtract))

	mux.HandleFunc("GET /healthz", handlers.handleHealthz)
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /openapi.json", apidoc.handleSpec)

	return requestID(mux)
}
