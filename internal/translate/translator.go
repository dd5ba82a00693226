// Package translate splits document text into bounded chunks and runs them
// through the generative model under a concurrency cap. Translation is
// best-effort: a chunk whose call fails contributes an empty string at its
// position instead of failing the whole document.
package translate

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency caps simultaneous in-flight chunk translations.
const DefaultConcurrency = 6

// Generator is the single-prompt interface the orchestrator needs from the
// Gemini client.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Translator orchestrates chunked, concurrent translation.
type Translator struct {
	client      Generator
	chunkSize   int
	concurrency int
	log         zerolog.Logger
}

// New creates a Translator. Non-positive chunkSize or concurrency fall
// back to the defaults.
func New(client Generator, chunkSize, concurrency int, log zerolog.Logger) *Translator {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Translator{
		client:      client,
		chunkSize:   chunkSize,
		concurrency: concurrency,
		log:         log,
	}
}

// Translate translates text to English, reporting the translated text and
// the number of chunks dispatched. Chunk outputs are reassembled strictly
// by original index regardless of completion order and joined with a
// newline. Empty input returns immediately without any network calls.
func (t *Translator) Translate(ctx context.Context, text, sourceLang string) (string, int, error) {
	if strings.TrimSpace(text) == "" {
		return "", 0, nil
	}

	chunks := Chunk(text, t.chunkSize)
	results := make([]string, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			out, err := t.client.Generate(gctx, buildPrompt(sourceLang, chunk))
			if err != nil {
				// Settled, not short-circuited: the failed chunk degrades
				// to empty text at its index.
				t.log.Warn().
					Err(err).
					Int("chunk", i).
					Int("chunks_total", len(chunks)).
					Msg("Chunk translation failed, substituting empty text")
				return nil
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", 0, err
	}

	return strings.TrimSpace(strings.Join(results, "\n")), len(chunks), nil
}
