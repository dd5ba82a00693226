package translate

// DefaultChunkSize is the maximum characters per translation chunk.
const DefaultChunkSize = 15000

// Chunk splits text into contiguous, non-overlapping segments of at most
// size characters, preserving order and content. Concatenating the chunks
// reproduces the input exactly. Empty input yields an empty slice.
func Chunk(text string, size int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
