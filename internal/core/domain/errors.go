package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks invalid chunking or retrieval parameters.
	// Not retried; surfaced to the caller for correction.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrEmptyDocument marks a document whose splitting yielded no chunks.
	ErrEmptyDocument = errors.New("document has no extractable text")
	// ErrNotFound marks a query against a document key with no built pipeline.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidInput marks malformed caller input.
	ErrInvalidInput = errors.New("invalid input")

	// External-service failure kinds. Each aborts the current request
	// only; no automatic retry is applied at this level.
	ErrEmbedding  = errors.New("embedding failed")
	ErrGeneration = errors.New("generation failed")
	ErrRewrite    = errors.New("query rewrite failed")
	ErrExtraction = errors.New("extraction failed")
	ErrRetrieval  = errors.New("retrieval failed")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
