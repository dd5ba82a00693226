package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the service.
// Values come from the environment; a few can be overridden by flags in main.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// Bucket is the object store bucket holding uploaded documents.
	Bucket string

	// DatabaseURL is the Postgres connection string for the document store.
	DatabaseURL string

	// GeminiAPIKey authenticates calls to the generative-language endpoint.
	GeminiAPIKey string

	// GeminiAPIURL is the generateContent endpoint. The API key is appended
	// as a query parameter on each request.
	GeminiAPIURL string

	// TranslateConcurrency caps simultaneous in-flight chunk translations.
	TranslateConcurrency int

	// ChunkSize is the maximum characters per translation chunk.
	ChunkSize int
}

const defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

// Load reads configuration from the environment and applies defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:         envOrDefault("PORT", "8080"),
		Bucket:       os.Getenv("GCS_BUCKET"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiAPIURL: envOrDefault("GEMINI_API_URL", defaultGeminiURL),
	}

	concurrency, err := parseIntEnv("TRANSLATE_CONCURRENCY", 6)
	if err != nil {
		return Config{}, fmt.Errorf("parse TRANSLATE_CONCURRENCY: %w", err)
	}
	cfg.TranslateConcurrency = concurrency

	chunkSize, err := parseIntEnv("TRANSLATE_CHUNK_SIZE", 15000)
	if err != nil {
		return Config{}, fmt.Errorf("parse TRANSLATE_CHUNK_SIZE: %w", err)
	}
	cfg.ChunkSize = chunkSize

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not an integer", key, raw)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, v)
	}
	return v, nil
}
