// ABOUTME: Claim extraction from article text via indicator phrases
// ABOUTME: Precision-biased sentence heuristic, misses paraphrased claims
package claims

import (
	"strings"

	"github.com/google/uuid"

	"github.com/sciencedecoder/decoder/internal/models"
)

// ExtractClaims splits text into sentences and keeps the ones containing an
// indicator phrase. The heuristic trades recall for precision: a sentence
// that asserts a finding without any indicator phrase is not extracted.
func ExtractClaims(text string, indicators []string) []models.Claim {
	var claims []models.Claim
	for _, sentence := range splitSentences(text) {
		lower := strings.ToLower(sentence)
		for _, indicator := range indicators {
			if strings.Contains(lower, strings.ToLower(indicator)) {
				claims = append(claims, models.Claim{
					ID:   uuid.New().String(),
					Text: sentence,
				})
				break
			}
		}
	}
	return claims
}

// splitSentences breaks text on sentence terminators, keeping the terminator
// with its sentence. Abbreviation handling is out of scope for the indicator
// heuristic.
func splitSentences(text string) []string {
	var (
		sentences []string
		start     int
	)
	runes := []rune(text)
	for i, r := range runes {
		if r == '.' || r == '!' || r == '?' {
			// Consume runs of terminators like "..." or "?!" as one boundary.
			if i+1 < len(runes) && isTerminator(runes[i+1]) {
				continue
			}
			sentence := strings.TrimSpace(string(runes[start : i+1]))
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
