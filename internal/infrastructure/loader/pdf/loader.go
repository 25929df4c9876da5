package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docuquery/docuquery/internal/core/domain"
)

// Loader extracts one document unit per PDF page.
type Loader struct{}

func New() *Loader {
	return &Loader{}
}

func (l *Loader) Load(_ context.Context, filename string, data io.Reader) ([]domain.DocumentUnit, error) {
	raw, err := io.ReadAll(data)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf %s: %w", filename, err)
	}

	units := make([]domain.DocumentUnit, 0, reader.NumPage())
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract pdf page %d: %w", pageNum, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		units = append(units, domain.DocumentUnit{Text: text, Page: pageNum})
	}
	return units, nil
}
