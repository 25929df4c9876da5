package http

import (
	"encoding/json"
	"net/http"

	"github.com/docuquery/docuquery/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusForError maps domain error kinds onto HTTP statuses. Upstream
// model failures surface as 502 so callers can distinguish them from
// bugs in this service.
func statusForError(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput),
		domain.IsKind(err, domain.ErrConfiguration):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrEmptyDocument):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrEmbedding),
		domain.IsKind(err, domain.ErrGeneration),
		domain.IsKind(err, domain.ErrExtraction),
		domain.IsKind(err, domain.ErrRewrite):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusForError(err), err.Error())
}
