// ABOUTME: Text preprocessing and overlapping-window chunking for embedding
// ABOUTME: Both are pure functions of their inputs with no shared state
package embedder

import (
	"strings"
	"unicode"
)

// Preprocess collapses consecutive whitespace (including newlines and tabs)
// into single spaces and strips non-printable characters. Idempotent.
func Preprocess(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case unicode.IsPrint(r):
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Chunk splits text into overlapping windows of whitespace-delimited tokens.
// Chunk i starts at token i*(size-overlap); the effective overlap is
// min(overlap, size/10). Every chunk except a possible final shorter one has
// exactly size tokens, and consecutive chunks share exactly the overlap.
// Concatenating the chunks with the overlap removed reconstructs the original
// token sequence.
func Chunk(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(words)
	}
	if max := size / 10; overlap > max {
		overlap = max
	}
	if overlap < 0 {
		overlap = 0
	}

	stride := size - overlap
	var chunks []string
	for start := 0; start < len(words); start += stride {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
