// Package extract turns translated free text into structured transaction
// records via a single model call. Parsing is best-effort: malformed model
// output degrades to an empty record set and is never propagated as an
// error past this package.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nvelusamy/deed-translator/internal/domain"
	"github.com/rs/zerolog"
)

// Generator is the single-prompt interface the extractor needs from the
// Gemini client.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Extractor asks the model for a JSON array of transactions and parses it.
type Extractor struct {
	client Generator
	log    zerolog.Logger
}

// New creates an Extractor.
func New(client Generator, log zerolog.Logger) *Extractor {
	return &Extractor{client: client, log: log}
}

const extractionPrompt = "You are a data extraction assistant for translated property documents.\n\n" +
	"Task:\n" +
	"- Extract ALL real-estate transactions mentioned in the text below.\n" +
	"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
	"- Output a JSON array of objects, even if only one transaction is found.\n\n" +
	"Each object must have these fields:\n" +
	"- \"buyer\": string or null\n" +
	"- \"seller\": string or null\n" +
	"- \"house_number\": string or null\n" +
	"- \"survey_number\": string or null\n" +
	"- \"document_number\": string or null\n" +
	"- \"date\": string in ISO format \"YYYY-MM-DD\", or null\n" +
	"- \"value\": string (the monetary amount as written), or null\n\n" +
	"Return ONLY valid raw JSON.\n" +
	"Do NOT wrap the response in code fences.\n" +
	"Output must begin with \"[\" and end with \"]\".\n\n" +
	"Text:\n"

// Extract sends the whole translated text to the model once and parses the
// response into transactions. On any parse failure it logs the problem and
// returns an empty slice.
func (e *Extractor) Extract(ctx context.Context, translatedText string) ([]domain.Transaction, error) {
	if strings.TrimSpace(translatedText) == "" {
		return []domain.Transaction{}, nil
	}

	raw, err := e.client.Generate(ctx, extractionPrompt+translatedText)
	if err != nil {
		return nil, fmt.Errorf("extract: model call: %w", err)
	}

	records, err := parseTransactions(raw)
	if err != nil {
		e.log.Warn().
			Err(err).
			Str("raw_response", truncate(raw, 500)).
			Msg("Field extraction output unparseable, returning no records")
		return []domain.Transaction{}, nil
	}
	return records, nil
}

// parseTransactions strips code-fence artifacts and decodes the JSON
// array. Individual fields are coerced leniently; record-level types are
// trusted as-is.
func parseTransactions(raw string) ([]domain.Transaction, error) {
	clean := stripFences(raw)

	var parsed interface{}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	items, ok := parsed.([]interface{})
	if !ok {
		return nil, fmt.Errorf("model output is %T, want a JSON array", parsed)
	}

	records := make([]domain.Transaction, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		records = append(records, domain.Transaction{
			Buyer:          asString(obj["buyer"]),
			Seller:         asString(obj["seller"]),
			HouseNumber:    asString(obj["house_number"]),
			SurveyNumber:   asString(obj["survey_number"]),
			DocumentNumber: asString(obj["document_number"]),
			Date:           asString(obj["date"]),
			Value:          asString(obj["value"]),
		})
	}
	return records, nil
}

// stripFences removes Markdown code-fence wrappers (``` or ```json) the
// model sometimes adds despite instructions, then keeps only the span from
// the first '[' to the last ']' as extra salvage.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}

// asString coerces a decoded JSON value to a string without validation.
// Missing keys and nulls become empty; numbers keep their textual form.
func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
