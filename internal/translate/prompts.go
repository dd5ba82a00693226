package translate

import "fmt"

// buildPrompt builds the translation instruction for one chunk. Tamil gets
// a specialized variant carrying registration-department vocabulary; every
// other (or undetermined) source language uses the generic variant.
func buildPrompt(sourceLang, chunk string) string {
	if sourceLang == "ta" {
		return fmt.Sprintf(
			"You are an expert translator of Tamil legal and property documents.\n\n"+
				"Translate the following Tamil text to English.\n"+
				"The text comes from a registered property document and may contain legal terminology,\n"+
				"survey numbers, door numbers, document numbers, and monetary amounts.\n\n"+
				"Rules:\n"+
				"- Translate faithfully and completely.\n"+
				"- Preserve all numbers, dates, measurements and formatting exactly as written.\n"+
				"- Keep proper nouns (names of people and places) transliterated, not translated.\n"+
				"- Output ONLY the English translation, with no commentary or explanations.\n\n"+
				"Text:\n%s", chunk)
	}

	langHint := sourceLang
	if langHint == "" || langHint == "auto" {
		langHint = "the source language (detect it yourself)"
	}
	return fmt.Sprintf(
		"Translate the following text from %s to English.\n\n"+
			"Rules:\n"+
			"- Translate faithfully and completely.\n"+
			"- Preserve all numbers, dates and formatting exactly as written.\n"+
			"- Output ONLY the English translation, with no commentary or explanations.\n\n"+
			"Text:\n%s", langHint, chunk)
}
