package xlsx

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/docuquery/docuquery/internal/core/domain"
)

// Loader extracts one document unit per spreadsheet sheet, rows joined
// with newlines and cells with tabs.
type Loader struct{}

func New() *Loader {
	return &Loader{}
}

func (l *Loader) Load(_ context.Context, filename string, data io.Reader) ([]domain.DocumentUnit, error) {
	f, err := excelize.OpenReader(data)
	if err != nil {
		return nil, fmt.Errorf("parse workbook %s: %w", filename, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	units := make([]domain.DocumentUnit, 0, len(sheets))
	for i, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}

		var b strings.Builder
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, "\t"))
			if line == "" {
				continue
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		text := strings.TrimSpace(b.String())
		if text == "" {
			continue
		}
		units = append(units, domain.DocumentUnit{Text: text, Page: i + 1})
	}
	return units, nil
}
