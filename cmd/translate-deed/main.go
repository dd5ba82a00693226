// Command translate-deed runs the translation pipeline against a local PDF
// without touching object storage or the document store. Useful for trying
// out prompts and checking extraction quality on a single deed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/nvelusamy/deed-translator/internal/config"
	"github.com/nvelusamy/deed-translator/internal/extract"
	"github.com/nvelusamy/deed-translator/internal/gemini"
	"github.com/nvelusamy/deed-translator/internal/langdetect"
	"github.com/nvelusamy/deed-translator/internal/logger"
	"github.com/nvelusamy/deed-translator/internal/textextract"
	"github.com/nvelusamy/deed-translator/internal/translate"
)

func main() {
	log := logger.New()

	var (
		filePath = flag.String("file", "", "path to local PDF file (required)")
		showText = flag.Bool("text", false, "print the full translated text instead of just the records")
	)
	flag.Parse()

	if *filePath == "" {
		log.Fatal().Msg("Usage: translate-deed -file /path/to/deed.pdf [-text]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.GeminiAPIKey == "" {
		log.Fatal().Msg("GEMINI_API_KEY is required")
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", *filePath).Msg("Failed to read file")
	}

	text, err := textextract.NewPDFExtractor().Extract(data)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to extract text from PDF")
	}

	lang := langdetect.Detect(text)
	log.Info().Str("language", lang).Int("text_chars", len(text)).Msg("Language detected")

	ctx := context.Background()
	client := gemini.NewClient(cfg.GeminiAPIURL, cfg.GeminiAPIKey, log)

	translated, chunks, err := translate.New(client, cfg.ChunkSize, cfg.TranslateConcurrency, log).Translate(ctx, text, lang)
	if err != nil {
		log.Fatal().Err(err).Msg("Translation failed")
	}
	log.Info().Int("chunks_translated", chunks).Msg("Translation complete")

	records, err := extract.New(client, log).Extract(ctx, translated)
	if err != nil {
		log.Fatal().Err(err).Msg("Field extraction failed")
	}

	if *showText {
		fmt.Println(translated)
		fmt.Println()
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode records")
	}
	fmt.Println(string(out))
}
