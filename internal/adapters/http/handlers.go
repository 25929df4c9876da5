package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/docuquery/docuquery/internal/core/domain"
	"github.com/docuquery/docuquery/internal/core/ports"
	"github.com/docuquery/docuquery/internal/infrastructure/loader"
	"github.com/docuquery/docuquery/internal/observability/metrics"
)

const maxUploadBytes = 32 << 20

type Handlers struct {
	logger    *slog.Logger
	metrics   *metrics.Metrics
	loaders   *loader.Registry
	ingestor  ports.DocumentIngestor
	query     ports.QueryService
	extractor ports.RecordExtractor
}

func NewHandlers(
	logger *slog.Logger,
	m *metrics.Metrics,
	loaders *loader.Registry,
	ingestor ports.DocumentIngestor,
	query ports.QueryService,
	extractor ports.RecordExtractor,
) *Handlers {
	return &Handlers{
		logger:    logger,
		metrics:   m,
		loaders:   loaders,
		ingestor:  ingestor,
		query:     query,
		extractor: extractor,
	}
}

type uploadResponse struct {
	DocumentKey string `json:"document_key"`
	Pages       int    `json:"pages"`
}

type turnPayload struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type chatRequest struct {
	Key      string        `json:"key"`
	Question string        `json:"question"`
	History  []turnPayload `json:"history"`
}

type sourcePayload struct {
	Text  string `json:"text"`
	Page  int    `json:"page"`
	Chunk int    `json:"chunk"`
}

type chatResponse struct {
	Answer  string          `json:"answer"`
	Sources []sourcePayload `json:"sources"`
}

type extractRequest struct {
	Key         string `json:"key"`
	Instruction string `json:"instruction"`
}

// handleUpload ingests a multipart document. Supported form fields:
// file (required), key, mode (automatic|manual), chunk_size, chunk_overlap.
func (h *Handlers) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "form field 'file' is required")
		return
	}
	defer file.Close()

	docLoader, err := h.loaders.For(header.Filename)
	if err != nil {
		h.metrics.IngestTotal.WithLabelValues("error").Inc()
		writeDomainError(w, err)
		return
	}

	units, err := docLoader.Load(r.Context(), header.Filename, file)
	if err != nil {
		h.metrics.IngestTotal.WithLabelValues("error").Inc()
		writeDomainError(w, err)
		return
	}

	opts, err := parseChunkingOptions(r)
	if err != nil {
		h.metrics.IngestTotal.WithLabelValues("error").Inc()
		writeDomainError(w, err)
		return
	}

	key := r.FormValue("key")
	if key == "" {
		key = uuid.NewString()
	}

	if err := h.ingestor.Ingest(r.Context(), key, units, opts); err != nil {
		h.metrics.IngestTotal.WithLabelValues("error").Inc()
		writeDomainError(w, err)
		return
	}

	h.metrics.IngestTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusCreated, uploadResponse{DocumentKey: key, Pages: len(units)})
}

func parseChunkingOptions(r *http.Request) (domain.ChunkingOptions, error) {
	opts := domain.ChunkingOptions{Mode: domain.ChunkingMode(r.FormValue("mode"))}
	if opts.Mode != domain.ChunkingManual {
		return opts, nil
	}

	var err error
	if opts.Size, err = formInt(r, "chunk_size"); err != nil {
		return domain.ChunkingOptions{}, err
	}
	if opts.Overlap, err = formInt(r, "chunk_overlap"); err != nil {
		return domain.ChunkingOptions{}, err
	}
	return opts, nil
}

func formInt(r *http.Request, field string) (int, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.WrapError(domain.ErrInvalidInput, "parse upload form",
			err)
	}
	return n, nil
}

func (h *Handlers) handleChat(w http.ResponseWriter, r *http.Request) {
	req, history, ok := h.decodeChatRequest(w, r)
	if !ok {
		return
	}

	started := time.Now()
	answer, err := h.query.Ask(r.Context(), req.Key, req.Question, history)
	if err != nil {
		h.metrics.QueryTotal.WithLabelValues("error").Inc()
		writeDomainError(w, err)
		return
	}
	h.metrics.QueryTotal.WithLabelValues("ok").Inc()
	h.metrics.QueryDuration.Observe(time.Since(started).Seconds())

	writeJSON(w, http.StatusOK, chatResponse{
		Answer:  answer.Text,
		Sources: toSourcePayloads(answer.Sources),
	})
}

// handleChatStream forwards answer fragments as SSE data frames and
// terminates the stream with a [DONE] sentinel. A mid-stream failure is
// reported as an error event; by then the status line is long gone.
func (h *Handlers) handleChatStream(w http.ResponseWriter, r *http.Request) {
	req, history, ok := h.decodeChatRequest(w, r)
	if !ok {
		return
	}

	deltas, err := h.query.AskStream(r.Context(), req.Key, req.Question, history)
	if err != nil {
		h.metrics.StreamTotal.WithLabelValues("error").Inc()
		writeDomainError(w, err)
		return
	}

	sse, ok := newSSEWriter(w)
	if !ok {
		h.metrics.StreamTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	for delta := range deltas {
		if delta.Err != nil {
			h.metrics.StreamTotal.WithLabelValues("error").Inc()
			sse.sendEvent("error", delta.Err.Error())
			return
		}
		sse.sendData(delta.Text)
	}

	h.metrics.StreamTotal.WithLabelValues("ok").Inc()
	sse.sendDone()
}

func (h *Handlers) handleSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.query.Sources(r.PathValue("key"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]sourcePayload{
		"sources": toSourcePayloads(sources),
	})
}

func (h *Handlers) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	record, err := h.extractor.Extract(r.Context(), req.Key, req.Instruction)
	if err != nil {
		h.metrics.ExtractTotal.WithLabelValues("error").Inc()
		writeDomainError(w, err)
		return
	}

	h.metrics.ExtractTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, record)
}

func (h *Handlers) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) decodeChatRequest(w http.ResponseWriter, r *http.Request) (chatRequest, []domain.ConversationTurn, bool) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return chatRequest{}, nil, false
	}

	history := make([]domain.ConversationTurn, 0, len(req.History))
	for _, turn := range req.History {
		role, err := domain.ParseTurnRole(turn.Role)
		if err != nil {
			writeDomainError(w, err)
			return chatRequest{}, nil, false
		}
		history = append(history, domain.ConversationTurn{Role: role, Text: turn.Text})
	}
	return req, history, true
}

func toSourcePayloads(chunks []domain.Chunk) []sourcePayload {
	payloads := make([]sourcePayload, 0, len(chunks))
	for _, c := range chunks {
		payloads = append(payloads, sourcePayload{
			Text:  c.Text,
			Page:  c.Metadata.Page,
			Chunk: c.Metadata.Index,
		})
	}
	return payloads
}
