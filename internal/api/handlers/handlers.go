package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nvelusamy/deed-translator/internal/api/middleware"
	"github.com/nvelusamy/deed-translator/internal/domain"
	"github.com/nvelusamy/deed-translator/internal/jobs"
	"github.com/nvelusamy/deed-translator/internal/pipeline"
	"github.com/nvelusamy/deed-translator/internal/store"
	"github.com/rs/zerolog"
)

// DocumentProcessor runs the processing pipeline for one document.
type DocumentProcessor interface {
	Process(ctx context.Context, documentID, storagePath string, filter pipeline.RecordFilter) (pipeline.Result, error)
}

// ProcessHandler handles document-processing endpoints.
type ProcessHandler struct {
	processor DocumentProcessor
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewProcessHandler creates a new process handler.
func NewProcessHandler(processor DocumentProcessor, publisher jobs.Publisher, log zerolog.Logger) *ProcessHandler {
	return &ProcessHandler{
		processor: processor,
		publisher: publisher,
		log:       log,
	}
}

type processRequest struct {
	DocumentID string `json:"documentId"`
	FilePath   string `json:"filePath"`
	pipeline.RecordFilter
}

// ProcessDocument handles POST /process-document. It runs the pipeline
// synchronously and reports the summary counts.
func (h *ProcessHandler) ProcessDocument(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DocumentID == "" || req.FilePath == "" {
		middleware.WriteError(w, http.StatusBadRequest, "documentId and filePath are required")
		return
	}

	result, err := h.processor.Process(r.Context(), req.DocumentID, req.FilePath, req.RecordFilter)
	if err != nil {
		h.log.Error().Err(err).Str("document_id", req.DocumentID).Msg("Document processing failed")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":           "Document processed successfully",
		"detected_language": result.DetectedLanguage,
		"chunks_translated": result.ChunksTranslated,
		"transaction_count": result.TransactionCount,
	})
}

// ProcessDocumentAsync handles POST /process-document/async. It enqueues a
// job and returns immediately; progress is available via the jobs
// endpoints.
func (h *ProcessHandler) ProcessDocumentAsync(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DocumentID == "" || req.FilePath == "" {
		middleware.WriteError(w, http.StatusBadRequest, "documentId and filePath are required")
		return
	}

	job := &jobs.ProcessDocumentJob{
		DocumentID:  req.DocumentID,
		StoragePath: req.FilePath,
		Filter:      req.RecordFilter,
	}
	if err := h.publisher.PublishProcessDocument(r.Context(), job); err != nil {
		h.log.Error().Err(err).Str("document_id", req.DocumentID).Msg("Failed to enqueue processing job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue processing job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("document_id", req.DocumentID).Msg("Processing job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":      job.JobID,
		"document_id": req.DocumentID,
		"status":      string(job.Status),
	})
}

// SearchHandler handles document search.
type SearchHandler struct {
	docs store.DocumentStore
	log  zerolog.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(docs store.DocumentStore, log zerolog.Logger) *SearchHandler {
	return &SearchHandler{docs: docs, log: log}
}

// SearchDocuments handles GET /search-documents. The store narrows to
// completed documents owned by the user (with an optional text match);
// record-level filters are applied here with the same substring semantics
// the pipeline uses.
func (h *SearchHandler) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("userId")
	if userID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "userId is required")
		return
	}

	filter := pipeline.RecordFilter{
		Buyer:          q.Get("buyer"),
		Seller:         q.Get("seller"),
		HouseNumber:    q.Get("houseNumber"),
		SurveyNumber:   q.Get("surveyNumber"),
		DocumentNumber: q.Get("documentNumber"),
	}

	docs, err := h.docs.SearchDocuments(r.Context(), store.SearchParams{
		UserID: userID,
		Query:  q.Get("query"),
	})
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Document search failed")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filtered := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		matching := filter.Apply(doc.Transactions)
		if !filter.IsZero() && len(matching) == 0 {
			continue
		}
		doc.Transactions = matching
		filtered = append(filtered, doc)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": filtered,
		"count":     len(filtered),
	})
}

// JobsHandler exposes async job state.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// GetJob handles GET /jobs/{id}.
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /jobs.
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := jobs.JobFilter{
		DocumentID: q.Get("document_id"),
		Status:     jobs.JobStatus(q.Get("status")),
	}

	list, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  list,
		"count": len(list),
	})
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "OK",
		"at":     time.Now().Format(time.RFC3339),
	})
}
