package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/docuquery/docuquery/internal/core/domain"
	"github.com/docuquery/docuquery/internal/core/pipeline"
	"github.com/docuquery/docuquery/internal/core/ports"
)

// DefaultExtractionK is the candidate count for the semantic-only
// extraction retriever. Larger than the conversational default: recall
// matters more than precision when hunting for scattered fields.
const DefaultExtractionK = 5

type ExtractUseCase struct {
	cache     *pipeline.Cache
	redactor  ports.Redactor
	generator ports.Generator
	topK      int
}

func NewExtractUseCase(
	cache *pipeline.Cache,
	redactor ports.Redactor,
	generator ports.Generator,
	topK int,
) *ExtractUseCase {
	if topK <= 0 {
		topK = DefaultExtractionK
	}
	return &ExtractUseCase{
		cache:     cache,
		redactor:  redactor,
		generator: generator,
		topK:      topK,
	}
}

// Extract retrieves passages relevant to the instruction through the
// pipeline's dedicated semantic index and asks the model for a
// schema-conforming record. Fields the model omits or mistypes come
// back absent, never defaulted.
func (uc *ExtractUseCase) Extract(
	ctx context.Context,
	key, instruction string,
) (domain.ExtractedRecord, error) {
	p, ok := uc.cache.Get(key)
	if !ok {
		return domain.ExtractedRecord{}, domain.WrapError(domain.ErrNotFound, "extract record",
			fmt.Errorf("no pipeline for document key %q", key))
	}

	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return domain.ExtractedRecord{}, domain.WrapError(domain.ErrInvalidInput, "extract record",
			errors.New("instruction is required"))
	}

	redacted := uc.redactor.Redact(instruction)

	hits, err := p.Extraction.Query(ctx, redacted, uc.topK)
	if err != nil {
		return domain.ExtractedRecord{}, fmt.Errorf("extraction retrieval: %w", err)
	}

	var b strings.Builder
	for i, hit := range hits {
		b.WriteString(fmt.Sprintf("[%d] page=%d\n%s\n\n", i+1, hit.Chunk.Metadata.Page, hit.Chunk.Text))
	}

	raw, err := uc.generator.GenerateJSON(ctx, buildExtractionPrompt(redacted, b.String()))
	if err != nil {
		return domain.ExtractedRecord{}, domain.WrapError(domain.ErrExtraction, "generate record", err)
	}

	return domain.ParseExtractedRecord(raw)
}
