// ABOUTME: Claim model for scientific statements extracted from article text
// ABOUTME: Tracks verification state, confidence score, and supporting studies
package models

import "time"

// Claim is a sentence extracted from an article that asserts a scientific
// statement. A processed claim ends in one of two observable states:
// no evidence (confidence 0, no related studies) or scored (confidence set
// to the best entailment score found, verified when it meets the threshold).
// Unverified-with-candidates and no-evidence are distinct states.
type Claim struct {
	ID                string     `json:"id"`
	Text              string     `json:"text"`
	RelatedStudyIDs   []string   `json:"related_study_ids,omitempty"`
	ConfidenceScore   float64    `json:"confidence_score"`
	Verified          bool       `json:"verified"`
	VerificationNotes string     `json:"verification_notes,omitempty"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty"`
}
