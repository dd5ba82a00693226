// Package pipeline orchestrates document processing: download, text
// extraction, language detection, chunked translation, structured field
// extraction and the final status write. Each invocation moves a document
// from processing to exactly one terminal state.
package pipeline

import (
	"context"
	"fmt"

	"github.com/nvelusamy/deed-translator/internal/domain"
	"github.com/nvelusamy/deed-translator/internal/langdetect"
	"github.com/nvelusamy/deed-translator/internal/store"
	"github.com/nvelusamy/deed-translator/internal/storage"
	"github.com/nvelusamy/deed-translator/internal/textextract"
	"github.com/rs/zerolog"
)

// Translator translates full document text to English, reporting the
// number of chunks dispatched.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang string) (translated string, chunks int, err error)
}

// FieldExtractor pulls structured transactions out of translated text.
type FieldExtractor interface {
	Extract(ctx context.Context, translatedText string) ([]domain.Transaction, error)
}

// Result summarizes one successful pipeline run.
type Result struct {
	DetectedLanguage string `json:"detected_language"`
	ChunksTranslated int    `json:"chunks_translated"`
	TransactionCount int    `json:"transaction_count"`
}

// Processor runs the document processing pipeline. The caller must not
// invoke Process concurrently for the same document id.
type Processor struct {
	store      store.DocumentStore
	downloader storage.Downloader
	texts      textextract.TextExtractor
	translator Translator
	fields     FieldExtractor
	bucket     string
	log        zerolog.Logger
}

// NewProcessor wires the pipeline's collaborators.
func NewProcessor(
	docs store.DocumentStore,
	downloader storage.Downloader,
	texts textextract.TextExtractor,
	translator Translator,
	fields FieldExtractor,
	bucket string,
	log zerolog.Logger,
) *Processor {
	return &Processor{
		store:      docs,
		downloader: downloader,
		texts:      texts,
		translator: translator,
		fields:     fields,
		bucket:     bucket,
		log:        log,
	}
}

// Process runs the full pipeline for one document. On success the document
// row holds original text, translated text, detected language, filtered
// records and status completed, all written in one update. Any fatal error
// marks the document failed (text fields keep whatever partial state
// existed) and is returned to the caller.
func (p *Processor) Process(ctx context.Context, documentID, storagePath string, filter RecordFilter) (Result, error) {
	log := p.log.With().Str("document_id", documentID).Logger()

	// Re-assert processing so reprocessing a terminal document works.
	if err := p.store.MarkProcessing(ctx, documentID); err != nil {
		return Result{}, p.fail(ctx, log, documentID, fmt.Errorf("mark processing: %w", err))
	}

	data, err := p.downloader.Download(ctx, p.bucket, storagePath)
	if err != nil {
		return Result{}, p.fail(ctx, log, documentID, fmt.Errorf("download %s: %w", storagePath, err))
	}

	originalText, err := p.texts.Extract(data)
	if err != nil {
		return Result{}, p.fail(ctx, log, documentID, fmt.Errorf("extract text: %w", err))
	}

	lang := langdetect.Detect(originalText)
	log.Info().Str("language", lang).Int("text_chars", len(originalText)).Msg("Language detected")

	translated, chunks, err := p.translator.Translate(ctx, originalText, lang)
	if err != nil {
		return Result{}, p.fail(ctx, log, documentID, fmt.Errorf("translate: %w", err))
	}

	records, err := p.fields.Extract(ctx, translated)
	if err != nil {
		return Result{}, p.fail(ctx, log, documentID, fmt.Errorf("extract fields: %w", err))
	}

	filtered := filter.Apply(records)

	if err := p.store.SaveResults(ctx, documentID, originalText, translated, lang, filtered); err != nil {
		return Result{}, p.fail(ctx, log, documentID, fmt.Errorf("save results: %w", err))
	}

	log.Info().
		Str("language", lang).
		Int("chunks_translated", chunks).
		Int("transaction_count", len(filtered)).
		Msg("Document processing completed")

	return Result{
		DetectedLanguage: lang,
		ChunksTranslated: chunks,
		TransactionCount: len(filtered),
	}, nil
}

// fail marks the document failed (best effort) and returns the original
// error. Text fields are left in whatever state the failure found them.
func (p *Processor) fail(ctx context.Context, log zerolog.Logger, documentID string, cause error) error {
	log.Error().Err(cause).Msg("Document processing failed")
	if err := p.store.MarkFailed(ctx, documentID); err != nil {
		log.Error().Err(err).Msg("Failed to record failed status")
	}
	return cause
}
