// Package store persists document rows and their processing status. The
// schema itself (ownership, row-level security) belongs to the managed
// backend; this package only reads and updates rows the upload frontend
// already created.
package store

import (
	"context"

	"github.com/nvelusamy/deed-translator/internal/domain"
)

// SearchParams filters completed documents for one owner. Query matches
// against the stored text; empty fields are ignored.
type SearchParams struct {
	UserID string
	Query  string
}

// DocumentStore is the pipeline's only write target.
type DocumentStore interface {
	// MarkProcessing re-asserts the processing status; idempotent so
	// documents can be reprocessed.
	MarkProcessing(ctx context.Context, documentID string) error

	// SaveResults writes text fields, detected language, extracted records
	// and the completed status in a single update.
	SaveResults(ctx context.Context, documentID, originalText, translatedText, detectedLanguage string, records []domain.Transaction) error

	// MarkFailed sets the failed status, leaving text fields in whatever
	// partial state existed at failure time.
	MarkFailed(ctx context.Context, documentID string) error

	// SearchDocuments returns completed documents owned by the given user,
	// optionally filtered by a text match.
	SearchDocuments(ctx context.Context, params SearchParams) ([]domain.Document, error)
}
