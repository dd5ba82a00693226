// Package langdetect maps raw extracted text to a coarse language code
// used to pick the translation prompt. It never fails: anything too short
// or outside the supported set comes back as the "auto" sentinel.
package langdetect

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Auto is the sentinel meaning "could not determine a supported language".
const Auto = "auto"

// minLength is the minimum trimmed length required before the statistical
// detector is trusted at all.
const minLength = 20

// supported maps ISO 639-3 detector output to the coarse two-letter codes
// the translation prompts understand.
var supported = map[string]string{
	"tam": "ta",
	"hin": "hi",
	"eng": "en",
	"tel": "te",
	"kan": "kn",
	"mal": "ml",
}

// Detect returns the coarse language code for the given text, or Auto when
// the text is too short or the detected language is not supported.
func Detect(text string) string {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < minLength {
		return Auto
	}

	info := whatlanggo.Detect(trimmed)
	if !info.IsReliable() {
		return Auto
	}

	if code, ok := supported[info.Lang.Iso6393()]; ok {
		return code
	}
	return Auto
}
