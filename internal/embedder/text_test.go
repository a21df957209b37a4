// ABOUTME: Tests for text preprocessing and chunking
// ABOUTME: Verifies idempotence and lossless chunk reconstruction
package embedder

import (
	"strings"
	"testing"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses spaces", "a  b   c", "a b c"},
		{"newlines and tabs", "a\nb\tc", "a b c"},
		{"windows line endings", "a\r\nb", "a b"},
		{"leading and trailing", "  hello world  ", "hello world"},
		{"strips non-printable", "a\x00b\x07c", "abc"},
		{"empty", "", ""},
		{"whitespace only", " \n\t ", ""},
		{"already clean", "hello world", "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preprocess(tt.in); got != tt.want {
				t.Errorf("Preprocess(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPreprocess_Idempotent(t *testing.T) {
	inputs := []string{
		"a  b\nc\td",
		"  messy \r\n text with\x00junk  ",
		"already clean text",
		"",
	}
	for _, in := range inputs {
		once := Preprocess(in)
		twice := Preprocess(once)
		if once != twice {
			t.Errorf("Preprocess not idempotent for %q: first=%q second=%q", in, once, twice)
		}
	}
}

// nWords builds a text of n distinct tokens so reconstruction is checkable.
func nWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = "w" + strings.Repeat("x", i%3) + string(rune('a'+i%26))
	}
	// Make each token unique by position
	for i := range words {
		words[i] = words[i] + "_" + strings.Repeat("i", i/26)
	}
	return strings.Join(words, " ")
}

func TestChunk_SingleChunkForShortText(t *testing.T) {
	chunks := Chunk("one two three", 10, 2)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "one two three" {
		t.Errorf("chunk = %q, want original text", chunks[0])
	}
}

func TestChunk_EmptyText(t *testing.T) {
	if chunks := Chunk("", 10, 2); chunks != nil {
		t.Errorf("expected nil chunks for empty text, got %v", chunks)
	}
	if chunks := Chunk("   ", 10, 2); chunks != nil {
		t.Errorf("expected nil chunks for whitespace text, got %v", chunks)
	}
}

func TestChunk_SizesAndOverlap(t *testing.T) {
	size, overlap := 50, 5
	text := nWords(200)
	chunks := Chunk(text, size, overlap)

	for i, c := range chunks {
		words := strings.Fields(c)
		if i < len(chunks)-1 && len(words) != size {
			t.Errorf("chunk %d has %d tokens, want exactly %d", i, len(words), size)
		}
		if i > 0 {
			prev := strings.Fields(chunks[i-1])
			shared := prev[len(prev)-overlap:]
			head := words[:overlap]
			for j := range shared {
				if shared[j] != head[j] {
					t.Fatalf("chunk %d does not share %d tokens with its predecessor", i, overlap)
				}
			}
		}
	}
}

func TestChunk_OverlapCappedAtTenPercent(t *testing.T) {
	// size 20 caps overlap at 2 regardless of the configured 10
	text := nWords(60)
	chunks := Chunk(text, 20, 10)

	first := strings.Fields(chunks[0])
	second := strings.Fields(chunks[1])
	// stride should be 20 - 2 = 18
	if first[18] != second[0] {
		t.Errorf("expected second chunk to start at token 18, got %q vs %q", first[18], second[0])
	}
}

func TestChunk_Reconstruction(t *testing.T) {
	tests := []struct {
		name    string
		nTokens int
		size    int
		overlap int
	}{
		{"exact multiple", 100, 50, 5},
		{"short final chunk", 123, 50, 5},
		{"single token", 1, 50, 5},
		{"zero overlap", 97, 10, 0},
		{"overlap capped", 80, 20, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := nWords(tt.nTokens)
			original := strings.Fields(text)
			chunks := Chunk(text, tt.size, tt.overlap)

			overlap := tt.overlap
			if max := tt.size / 10; overlap > max {
				overlap = max
			}

			var rebuilt []string
			for i, c := range chunks {
				words := strings.Fields(c)
				if i > 0 {
					words = words[overlap:]
				}
				rebuilt = append(rebuilt, words...)
			}

			if len(rebuilt) != len(original) {
				t.Fatalf("rebuilt %d tokens, want %d", len(rebuilt), len(original))
			}
			for i := range original {
				if rebuilt[i] != original[i] {
					t.Fatalf("token %d = %q, want %q", i, rebuilt[i], original[i])
				}
			}
		})
	}
}

func TestChunk_Stateless(t *testing.T) {
	text := nWords(120)
	a := Chunk(text, 50, 5)
	b := Chunk(text, 50, 5)
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between calls", i)
		}
	}
}
