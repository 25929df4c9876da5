package plaintext

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/docuquery/docuquery/internal/core/domain"
)

// Loader reads a UTF-8 text file as a single document unit.
type Loader struct{}

func New() *Loader {
	return &Loader{}
}

func (l *Loader) Load(_ context.Context, filename string, data io.Reader) ([]domain.DocumentUnit, error) {
	raw, err := io.ReadAll(data)
	if err != nil {
		return nil, fmt.Errorf("read source document: %w", err)
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("file %s is not valid UTF-8 text", filename)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, nil
	}
	return []domain.DocumentUnit{{Text: text, Page: 1}}, nil
}
