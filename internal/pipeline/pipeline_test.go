package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nvelusamy/deed-translator/internal/domain"
	"github.com/nvelusamy/deed-translator/internal/extract"
	"github.com/nvelusamy/deed-translator/internal/pipeline"
	"github.com/nvelusamy/deed-translator/internal/store"
	"github.com/nvelusamy/deed-translator/internal/translate"
	"github.com/rs/zerolog"
)

// mockStore records status transitions and the final save.
type mockStore struct {
	statuses []string

	savedOriginal   string
	savedTranslated string
	savedLanguage   string
	savedRecords    []domain.Transaction

	markProcessingErr error
	saveErr           error
}

func (m *mockStore) MarkProcessing(ctx context.Context, documentID string) error {
	if m.markProcessingErr != nil {
		return m.markProcessingErr
	}
	m.statuses = append(m.statuses, domain.StatusProcessing)
	return nil
}

func (m *mockStore) SaveResults(ctx context.Context, documentID, originalText, translatedText, detectedLanguage string, records []domain.Transaction) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.statuses = append(m.statuses, domain.StatusCompleted)
	m.savedOriginal = originalText
	m.savedTranslated = translatedText
	m.savedLanguage = detectedLanguage
	m.savedRecords = records
	return nil
}

func (m *mockStore) MarkFailed(ctx context.Context, documentID string) error {
	m.statuses = append(m.statuses, domain.StatusFailed)
	return nil
}

func (m *mockStore) SearchDocuments(ctx context.Context, params store.SearchParams) ([]domain.Document, error) {
	return nil, nil
}

type mockDownloader struct {
	data []byte
	err  error

	gotBucket string
	gotPath   string
}

func (m *mockDownloader) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	m.gotBucket = bucket
	m.gotPath = path
	return m.data, m.err
}

type mockTextExtractor struct {
	text string
	err  error
}

func (m *mockTextExtractor) Extract(data []byte) (string, error) {
	return m.text, m.err
}

// promptGenerator answers translation and extraction prompts differently,
// so the real Translator and Extractor can run against it.
type promptGenerator struct {
	translation string
	extraction  string
}

func (g *promptGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "data extraction assistant") {
		return g.extraction, nil
	}
	return g.translation, nil
}

func newProcessor(st *mockStore, dl *mockDownloader, te *mockTextExtractor, gen *promptGenerator) *pipeline.Processor {
	log := zerolog.Nop()
	return pipeline.NewProcessor(
		st, dl, te,
		translate.New(gen, translate.DefaultChunkSize, translate.DefaultConcurrency, log),
		extract.New(gen, log),
		"documents",
		log,
	)
}

func TestProcess_EndToEnd(t *testing.T) {
	st := &mockStore{}
	dl := &mockDownloader{data: []byte("%PDF-raw-bytes")}
	te := &mockTextExtractor{text: "சான்று 20 எழுத்துக்கு மேல் உள்ள சொத்து ஆவண உரை இது"}
	gen := &promptGenerator{
		translation: "This deed records a sale between A Kumar and B Singh.",
		extraction:  `[{"buyer":"A Kumar","seller":"B Singh","survey_number":"S-991","date":"2021-03-15","value":"45,00,000"}]`,
	}

	result, err := newProcessor(st, dl, te, gen).Process(context.Background(), "doc-1", "u1/doc.pdf", pipeline.RecordFilter{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if result.DetectedLanguage != "ta" {
		t.Errorf("detected language = %q, want %q", result.DetectedLanguage, "ta")
	}
	if result.ChunksTranslated != 1 {
		t.Errorf("chunks translated = %d, want 1 for short text", result.ChunksTranslated)
	}
	if result.TransactionCount != 1 {
		t.Errorf("transaction count = %d, want 1", result.TransactionCount)
	}

	if dl.gotBucket != "documents" || dl.gotPath != "u1/doc.pdf" {
		t.Errorf("downloaded gs://%s/%s, want gs://documents/u1/doc.pdf", dl.gotBucket, dl.gotPath)
	}

	wantStatuses := []string{domain.StatusProcessing, domain.StatusCompleted}
	if len(st.statuses) != 2 || st.statuses[0] != wantStatuses[0] || st.statuses[1] != wantStatuses[1] {
		t.Errorf("status transitions = %v, want %v", st.statuses, wantStatuses)
	}
	if st.savedLanguage != "ta" {
		t.Errorf("saved language = %q, want ta", st.savedLanguage)
	}
	if st.savedTranslated == "" || st.savedOriginal == "" {
		t.Error("completed document must have both text fields written")
	}
	if len(st.savedRecords) != 1 || st.savedRecords[0].Buyer != "A Kumar" {
		t.Errorf("saved records = %+v, want the extracted transaction", st.savedRecords)
	}
}

func TestProcess_FilterAppliedBeforeSave(t *testing.T) {
	st := &mockStore{}
	dl := &mockDownloader{data: []byte("pdf")}
	te := &mockTextExtractor{text: "A registered sale deed between several parties, long enough to detect."}
	gen := &promptGenerator{
		translation: "Sale involving A Kumar and B Singh.",
		extraction:  `[{"buyer":"A Kumar"},{"buyer":"B Singh"}]`,
	}

	result, err := newProcessor(st, dl, te, gen).Process(
		context.Background(), "doc-2", "u1/two.pdf", pipeline.RecordFilter{Buyer: "kumar"})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.TransactionCount != 1 {
		t.Errorf("transaction count = %d, want 1 after filtering", result.TransactionCount)
	}
	if len(st.savedRecords) != 1 || st.savedRecords[0].Buyer != "A Kumar" {
		t.Errorf("saved records = %+v, want only the kumar record", st.savedRecords)
	}
}

func TestProcess_DownloadFailureMarksFailed(t *testing.T) {
	st := &mockStore{}
	dl := &mockDownloader{err: errors.New("object not found")}
	te := &mockTextExtractor{}
	gen := &promptGenerator{}

	_, err := newProcessor(st, dl, te, gen).Process(context.Background(), "doc-3", "u1/missing.pdf", pipeline.RecordFilter{})
	if err == nil {
		t.Fatal("Process() expected error on download failure")
	}
	if !strings.Contains(err.Error(), "object not found") {
		t.Errorf("error should wrap the download cause, got: %v", err)
	}

	last := st.statuses[len(st.statuses)-1]
	if last != domain.StatusFailed {
		t.Errorf("final status = %q, want failed", last)
	}
	if st.savedOriginal != "" {
		t.Error("no results may be saved on a failed run")
	}
}

func TestProcess_TextExtractionFailureMarksFailed(t *testing.T) {
	st := &mockStore{}
	dl := &mockDownloader{data: []byte("pdf")}
	te := &mockTextExtractor{err: errors.New("corrupt xref table")}
	gen := &promptGenerator{}

	_, err := newProcessor(st, dl, te, gen).Process(context.Background(), "doc-4", "u1/broken.pdf", pipeline.RecordFilter{})
	if err == nil {
		t.Fatal("Process() expected error on extraction failure")
	}
	if st.statuses[len(st.statuses)-1] != domain.StatusFailed {
		t.Errorf("final status = %v, want failed", st.statuses)
	}
}

func TestProcess_SaveFailureMarksFailed(t *testing.T) {
	st := &mockStore{saveErr: errors.New("connection reset")}
	dl := &mockDownloader{data: []byte("pdf")}
	te := &mockTextExtractor{text: "Some document text long enough for detection to run."}
	gen := &promptGenerator{translation: "translated", extraction: "[]"}

	_, err := newProcessor(st, dl, te, gen).Process(context.Background(), "doc-5", "u1/doc.pdf", pipeline.RecordFilter{})
	if err == nil {
		t.Fatal("Process() expected error on save failure")
	}
	if st.statuses[len(st.statuses)-1] != domain.StatusFailed {
		t.Errorf("final status = %v, want failed", st.statuses)
	}
}

func TestProcess_GarbageExtractionStillCompletes(t *testing.T) {
	st := &mockStore{}
	dl := &mockDownloader{data: []byte("pdf")}
	te := &mockTextExtractor{text: "A long enough stretch of recognizable English document text."}
	gen := &promptGenerator{
		translation: "translated text",
		extraction:  "Sorry, I could not find any transactions.",
	}

	result, err := newProcessor(st, dl, te, gen).Process(context.Background(), "doc-6", "u1/doc.pdf", pipeline.RecordFilter{})
	if err != nil {
		t.Fatalf("Process() error = %v, malformed model output must not fail the document", err)
	}
	if result.TransactionCount != 0 {
		t.Errorf("transaction count = %d, want 0", result.TransactionCount)
	}
	if st.statuses[len(st.statuses)-1] != domain.StatusCompleted {
		t.Errorf("final status = %v, want completed", st.statuses)
	}
	if st.savedRecords == nil {
		t.Error("completed document must have records written, even when empty")
	}
}
