package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nvelusamy/deed-translator/internal/api/handlers"
	"github.com/nvelusamy/deed-translator/internal/api/middleware"
	"github.com/nvelusamy/deed-translator/internal/config"
	"github.com/nvelusamy/deed-translator/internal/extract"
	"github.com/nvelusamy/deed-translator/internal/gemini"
	"github.com/nvelusamy/deed-translator/internal/jobs"
	"github.com/nvelusamy/deed-translator/internal/jobs/inmemory"
	"github.com/nvelusamy/deed-translator/internal/logger"
	"github.com/nvelusamy/deed-translator/internal/pipeline"
	"github.com/nvelusamy/deed-translator/internal/storage"
	"github.com/nvelusamy/deed-translator/internal/store"
	"github.com/nvelusamy/deed-translator/internal/textextract"
	"github.com/nvelusamy/deed-translator/internal/translate"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Flags override the environment for local runs.
	var (
		port   = flag.String("port", cfg.Port, "HTTP server port")
		bucket = flag.String("bucket", cfg.Bucket, "object store bucket holding uploaded documents (or set GCS_BUCKET)")
	)
	flag.Parse()

	if *bucket == "" {
		log.Fatal().Msg("No bucket configured - set GCS_BUCKET or pass -bucket")
	}
	if cfg.GeminiAPIKey == "" {
		log.Fatal().Msg("GEMINI_API_KEY is required")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	ctx := context.Background()

	docStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to document store")
	}
	defer docStore.Close()

	downloader, err := storage.NewGCSDownloader(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	defer downloader.Close()

	geminiClient := gemini.NewClient(cfg.GeminiAPIURL, cfg.GeminiAPIKey, log)
	translator := translate.New(geminiClient, cfg.ChunkSize, cfg.TranslateConcurrency, log)
	extractor := extract.New(geminiClient, log)

	processor := pipeline.NewProcessor(
		docStore,
		downloader,
		textextract.NewPDFExtractor(),
		translator,
		extractor,
		*bucket,
		log,
	)

	// Job infrastructure for the async processing path.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, cfg.TranslateConcurrency, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job *jobs.ProcessDocumentJob) error {
		log.Info().
			Str("job_id", job.JobID).
			Str("document_id", job.DocumentID).
			Str("storage_path", job.StoragePath).
			Msg("Processing document job")

		result, err := processor.Process(ctx, job.DocumentID, job.StoragePath, job.Filter)
		if err != nil {
			return err
		}
		job.Result = &result
		return nil
	}

	go func() {
		log.Info().Msg("Starting job worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job worker stopped with error")
		}
	}()

	processHandler := handlers.NewProcessHandler(processor, jobQueue, log)
	searchHandler := handlers.NewSearchHandler(docStore, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/process-document", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			processHandler.ProcessDocument(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/process-document/async", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			processHandler.ProcessDocumentAsync(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/search-documents", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			searchHandler.SearchDocuments(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/health", handlers.Health)

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // synchronous processing can span many model calls
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Str("bucket", *bucket).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Let in-flight jobs finish before tearing down the worker context.
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}
	cancelWorker()

	log.Info().Msg("Server exited")
}
