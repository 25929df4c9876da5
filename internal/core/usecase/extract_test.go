package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/docuquery/docuquery/internal/core/domain"
	"github.com/docuquery/docuquery/internal/core/pipeline"
)

func invoicePipeline(cache *pipeline.Cache, index *fakeSemanticIndex) {
	cache.Put("invoice", &pipeline.Pipeline{Key: "invoice", Extraction: index})
}

func TestExtractUnknownKey(t *testing.T) {
	uc := NewExtractUseCase(pipeline.NewCache(), passRedactor{}, &scriptedGenerator{}, 0)

	_, err := uc.Extract(context.Background(), "ghost", "extract the total")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want not-found kind", err)
	}
}

func TestExtractEmptyInstruction(t *testing.T) {
	cache := pipeline.NewCache()
	invoicePipeline(cache, &fakeSemanticIndex{})
	uc := NewExtractUseCase(cache, passRedactor{}, &scriptedGenerator{}, 0)

	_, err := uc.Extract(context.Background(), "invoice", "  ")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Errorf("error = %v, want invalid-input kind", err)
	}
}

func TestExtractBuildsRecordFromRetrievedContext(t *testing.T) {
	cache := pipeline.NewCache()
	index := &fakeSemanticIndex{hits: []domain.ScoredChunk{
		{Chunk: domain.NewChunk("Invoice A123 issued by Acme Corp.", 1, 0), Score: 0.9},
		{Chunk: domain.NewChunk("Total due: $450.00 by 2024-03-31.", 2, 1), Score: 0.7},
	}}
	invoicePipeline(cache, index)

	gen := &scriptedGenerator{jsonOut: `{"invoice_id": "A123", "total_amount": 450.00}`}
	uc := NewExtractUseCase(cache, passRedactor{}, gen, 0)

	record, err := uc.Extract(context.Background(), "invoice", "extract the invoice id and total amount")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if record.InvoiceID == nil || *record.InvoiceID != "A123" {
		t.Errorf("InvoiceID = %v, want A123", record.InvoiceID)
	}
	if record.TotalAmount == nil || *record.TotalAmount != 450.0 {
		t.Errorf("TotalAmount = %v, want 450", record.TotalAmount)
	}
	if record.VendorName != nil || record.InvoiceDate != nil {
		t.Error("unrequested fields were fabricated")
	}

	if len(gen.jsonPrompts) != 1 {
		t.Fatalf("generator saw %d JSON prompts, want 1", len(gen.jsonPrompts))
	}
	prompt := gen.jsonPrompts[0]
	if !strings.Contains(prompt, "Invoice A123 issued by Acme Corp.") {
		t.Error("extraction prompt missing retrieved context")
	}
	if !strings.Contains(prompt, "extract the invoice id and total amount") {
		t.Error("extraction prompt missing the instruction")
	}

	if len(index.queries) != 1 {
		t.Fatalf("extraction index saw %d queries, want 1", len(index.queries))
	}
}

func TestExtractRetrievalFailure(t *testing.T) {
	cache := pipeline.NewCache()
	invoicePipeline(cache, &fakeSemanticIndex{err: domain.WrapError(domain.ErrRetrieval, "embed query", errors.New("down"))})
	uc := NewExtractUseCase(cache, passRedactor{}, &scriptedGenerator{}, 0)

	_, err := uc.Extract(context.Background(), "invoice", "extract the total")
	if !domain.IsKind(err, domain.ErrRetrieval) {
		t.Errorf("error = %v, want retrieval kind", err)
	}
}

func TestExtractModelFailure(t *testing.T) {
	cache := pipeline.NewCache()
	invoicePipeline(cache, &fakeSemanticIndex{})
	gen := &scriptedGenerator{jsonErr: errors.New("model down")}
	uc := NewExtractUseCase(cache, passRedactor{}, gen, 0)

	_, err := uc.Extract(context.Background(), "invoice", "extract the total")
	if !domain.IsKind(err, domain.ErrExtraction) {
		t.Errorf("error = %v, want extraction kind", err)
	}
}

func TestExtractMalformedModelOutput(t *testing.T) {
	cache := pipeline.NewCache()
	invoicePipeline(cache, &fakeSemanticIndex{})
	gen := &scriptedGenerator{jsonOut: "sorry, I cannot help with that"}
	uc := NewExtractUseCase(cache, passRedactor{}, gen, 0)

	_, err := uc.Extract(context.Background(), "invoice", "extract the total")
	if !domain.IsKind(err, domain.ErrExtraction) {
		t.Errorf("error = %v, want extraction kind", err)
	}
}
