package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nvelusamy/deed-translator/internal/domain"
)

// PostgresStore implements DocumentStore over a pgx connection pool.
// Extracted records live in a jsonb column and are replaced wholesale on
// each reprocessing.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the document database.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// MarkProcessing implements DocumentStore.
func (s *PostgresStore) MarkProcessing(ctx context.Context, documentID string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE documents
		SET processing_status = $2, updated_at = $3
		WHERE id = $1`,
		documentID, domain.StatusProcessing, time.Now())
	if err != nil {
		return fmt.Errorf("store: mark processing %s: %w", documentID, err)
	}
	return nil
}

// SaveResults implements DocumentStore. Text fields, language, records and
// the completed status land in one update so the completed invariant holds.
func (s *PostgresStore) SaveResults(ctx context.Context, documentID, originalText, translatedText, detectedLanguage string, records []domain.Transaction) error {
	if records == nil {
		records = []domain.Transaction{}
	}
	recordsJSON, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("store: marshal records for %s: %w", documentID, err)
	}

	_, err = s.pool.Exec(ctx, `
		UPDATE documents
		SET original_text = $2,
		    translated_text = $3,
		    detected_language = $4,
		    extracted_records = $5,
		    processing_status = $6,
		    updated_at = $7
		WHERE id = $1`,
		documentID, originalText, translatedText, detectedLanguage,
		recordsJSON, domain.StatusCompleted, time.Now())
	if err != nil {
		return fmt.Errorf("store: save results %s: %w", documentID, err)
	}
	return nil
}

// MarkFailed implements DocumentStore. No rollback of text fields.
func (s *PostgresStore) MarkFailed(ctx context.Context, documentID string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE documents
		SET processing_status = $2, updated_at = $3
		WHERE id = $1`,
		documentID, domain.StatusFailed, time.Now())
	if err != nil {
		return fmt.Errorf("store: mark failed %s: %w", documentID, err)
	}
	return nil
}

// SearchDocuments implements DocumentStore.
func (s *PostgresStore) SearchDocuments(ctx context.Context, params SearchParams) ([]domain.Document, error) {
	query := `
		SELECT id, user_id, storage_path, original_text, translated_text,
		       detected_language, processing_status, extracted_records,
		       created_at, updated_at
		FROM documents
		WHERE user_id = $1 AND processing_status = $2`
	args := []interface{}{params.UserID, domain.StatusCompleted}

	if params.Query != "" {
		query += ` AND (original_text ILIKE $3 OR translated_text ILIKE $3)`
		args = append(args, "%"+params.Query+"%")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: search documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var doc domain.Document
		var recordsJSON []byte
		if err := rows.Scan(
			&doc.ID, &doc.UserID, &doc.StoragePath, &doc.OriginalText,
			&doc.TranslatedText, &doc.DetectedLanguage, &doc.Status,
			&recordsJSON, &doc.CreatedAt, &doc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("store: scan document row: %w", err)
		}
		if len(recordsJSON) > 0 {
			if err := json.Unmarshal(recordsJSON, &doc.Transactions); err != nil {
				return nil, fmt.Errorf("store: decode records for %s: %w", doc.ID, err)
			}
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate document rows: %w", err)
	}
	return docs, nil
}

var _ DocumentStore = (*PostgresStore)(nil)
