package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/docuquery/docuquery/internal/core/domain"
	"github.com/docuquery/docuquery/internal/core/pipeline"
	"github.com/docuquery/docuquery/internal/core/ports"
)

// Extraction retrieval uses its own fixed chunking, independent of the
// conversational pipeline's parameters.
var extractionChunking = domain.ChunkingParams{Size: 1000, Overlap: 200}

type IngestUseCase struct {
	cache    *pipeline.Cache
	chunker  ports.Chunker
	lexical  ports.LexicalIndexBuilder
	semantic ports.SemanticIndexBuilder
}

func NewIngestUseCase(
	cache *pipeline.Cache,
	chunker ports.Chunker,
	lexical ports.LexicalIndexBuilder,
	semantic ports.SemanticIndexBuilder,
) *IngestUseCase {
	return &IngestUseCase{
		cache:    cache,
		chunker:  chunker,
		lexical:  lexical,
		semantic: semantic,
	}
}

// Ingest builds the full retrieval pipeline for a document and publishes
// it under its key, replacing any previous pipeline for that key. Any
// failure leaves the cache untouched: a half-built pipeline is never
// visible to queries.
func (uc *IngestUseCase) Ingest(
	ctx context.Context,
	key string,
	units []domain.DocumentUnit,
	opts domain.ChunkingOptions,
) error {
	if strings.TrimSpace(key) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "ingest document", errors.New("document key is required"))
	}

	params, err := opts.Resolve(units)
	if err != nil {
		return err
	}

	chunks, err := uc.chunker.Split(units, params)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return domain.WrapError(domain.ErrEmptyDocument, "ingest document",
			errors.New("splitting produced zero chunks"))
	}

	lexicalIndex := uc.lexical.Build(chunks)

	semanticIndex, err := uc.semantic.Build(ctx, chunks)
	if err != nil {
		return fmt.Errorf("build semantic index: %w", err)
	}

	extractionChunks, err := uc.chunker.Split(units, extractionChunking)
	if err != nil {
		return err
	}
	extractionIndex, err := uc.semantic.Build(ctx, extractionChunks)
	if err != nil {
		return fmt.Errorf("build extraction index: %w", err)
	}

	uc.cache.Put(key, &pipeline.Pipeline{
		Key:        key,
		Params:     params,
		Chunks:     chunks,
		Lexical:    lexicalIndex,
		Semantic:   semanticIndex,
		Extraction: extractionIndex,
	})

	slog.Info("pipeline_built",
		"document_key", key,
		"chunks", len(chunks),
		"chunk_size", params.Size,
		"chunk_overlap", params.Overlap,
	)
	return nil
}
