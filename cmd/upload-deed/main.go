package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nvelusamy/deed-translator/internal/logger"
	"github.com/nvelusamy/deed-translator/internal/storage"
)

func main() {
	log := logger.New()

	var (
		bucketName string
		objectPath string
		filePath   string
	)

	flag.StringVar(&bucketName, "bucket", os.Getenv("GCS_BUCKET"), "bucket name (or set GCS_BUCKET)")
	flag.StringVar(&objectPath, "path", "", "object path in the bucket (optional; defaults to file name)")
	flag.StringVar(&filePath, "file", "", "path to local PDF file (required)")
	flag.Parse()

	if bucketName == "" || filePath == "" {
		log.Fatal().Msg("Usage: upload-deed -bucket BUCKET -file /path/to/deed.pdf [-path OBJECT_PATH]")
	}

	if objectPath == "" {
		objectPath = filepath.Base(filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", filePath).Msg("Failed to open file")
	}
	defer f.Close()

	ctx := context.Background()

	client, err := storage.NewGCSDownloader(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	defer client.Close()

	log.Info().
		Str("bucket", bucketName).
		Str("path", objectPath).
		Str("file", filePath).
		Msg("Uploading deed")

	if err := client.Upload(ctx, bucketName, objectPath, f); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to gs://%s/%s\n", filePath, bucketName, objectPath)
}
