package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 120 * time.Second

	// One original attempt plus two retries.
	maxAttempts    = 3
	initialBackoff = 800 * time.Millisecond
	maxBackoff     = 2000 * time.Millisecond
)

// StatusError is returned when the generative-language endpoint responds
// with a non-2xx status. The body is kept verbatim as the error detail.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini: upstream status %d: %s", e.StatusCode, e.Body)
}

// retryable reports whether the error should be retried. Client errors
// (4xx) indicate a bad request or key and retrying would only mask them;
// everything else (network failures, 5xx) is treated as transient.
func retryable(err error) bool {
	if se, ok := err.(*StatusError); ok {
		return se.StatusCode < 400 || se.StatusCode > 499
	}
	return true
}

// Client calls the hosted generative-language endpoint. It holds no state
// between calls beyond the shared HTTP client.
type Client struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger

	// Backoff bounds, overridable in tests.
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// NewClient creates a Gemini client for the given endpoint and API key.
func NewClient(apiURL, apiKey string, log zerolog.Logger) *Client {
	return &Client{
		apiURL:         apiURL,
		apiKey:         apiKey,
		httpClient:     &http.Client{Timeout: defaultTimeout},
		log:            log,
		initialBackoff: initialBackoff,
		maxBackoff:     maxBackoff,
	}
}

// Request/response shapes for the generateContent endpoint.

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends a single free-text prompt and returns the first
// candidate's text, trimmed. Transient failures are retried with
// increasing backoff; 4xx responses fail immediately.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	backoff := c.initialBackoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := c.generateOnce(ctx, prompt)
		if err == nil {
			if attempt > 1 {
				c.log.Info().Int("attempt", attempt).Msg("Gemini call succeeded after retry")
			}
			return text, nil
		}

		lastErr = err
		if !retryable(err) {
			return "", err
		}
		if attempt == maxAttempts {
			break
		}

		c.log.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("Gemini call failed, retrying")

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		backoff *= 2
		if backoff > c.maxBackoff {
			backoff = c.maxBackoff
		}
	}

	return "", fmt.Errorf("gemini: all %d attempts failed: %w", maxAttempts, lastErr)
}

func (c *Client) generateOnce(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := c.apiURL + "?key=" + c.apiKey
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini: read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var envelope generateResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}

	if len(envelope.Candidates) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, p := range envelope.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String()), nil
}
