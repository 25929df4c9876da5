package ports

import (
	"context"

	"github.com/docuquery/docuquery/internal/core/domain"
)

// DocumentIngestor is the inbound contract for building and publishing a
// document's retrieval pipeline. Re-ingesting an existing key fully
// replaces the prior pipeline.
type DocumentIngestor interface {
	Ingest(ctx context.Context, key string, units []domain.DocumentUnit, opts domain.ChunkingOptions) error
}

// QueryService is the inbound contract for conversational answering.
type QueryService interface {
	Ask(ctx context.Context, key, question string, history []domain.ConversationTurn) (*domain.Answer, error)
	// AskStream yields answer fragments. The sequence is finite and not
	// restartable; sources become available via Sources once it completes.
	AskStream(ctx context.Context, key, question string, history []domain.ConversationTurn) (<-chan domain.AnswerDelta, error)
	// Sources returns the chunks used by the most recent completed
	// query for the key.
	Sources(key string) ([]domain.Chunk, error)
}

// RecordExtractor is the inbound contract for schema-constrained
// structured extraction.
type RecordExtractor interface {
	Extract(ctx context.Context, key, instruction string) (domain.ExtractedRecord, error)
}
