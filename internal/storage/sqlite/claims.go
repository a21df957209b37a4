// ABOUTME: Claim persistence operations for SQLite
// ABOUTME: Saves verification results per article and lists them back
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sciencedecoder/decoder/internal/models"
)

// ClaimStore handles claim persistence
type ClaimStore struct {
	db *DB
}

// NewClaimStore creates a new ClaimStore
func NewClaimStore(db *DB) *ClaimStore {
	return &ClaimStore{db: db}
}

// SaveClaims replaces the stored claims for an article with the given set.
// Runs in a transaction so readers never observe a partial replacement.
func (s *ClaimStore) SaveClaims(ctx context.Context, articleID string, claims []models.Claim) error {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM claims WHERE article_id = ?`, articleID); err != nil {
		return fmt.Errorf("failed to clear existing claims: %w", err)
	}

	now := time.Now().UTC()
	for _, claim := range claims {
		relatedJSON, err := json.Marshal(claim.RelatedStudyIDs)
		if err != nil {
			return fmt.Errorf("failed to marshal related study IDs: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO claims (id, article_id, text, related_study_ids,
				confidence_score, verified, verification_notes, verified_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, claim.ID, articleID, claim.Text, string(relatedJSON),
			claim.ConfidenceScore, claim.Verified,
			nullString(claim.VerificationNotes), claim.VerifiedAt, now)
		if err != nil {
			return fmt.Errorf("failed to save claim %s: %w", claim.ID, err)
		}
	}

	return tx.Commit()
}

// ListClaims returns all claims stored for an article in insertion order.
func (s *ClaimStore) ListClaims(ctx context.Context, articleID string) ([]models.Claim, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, text, related_study_ids, confidence_score, verified,
			verification_notes, verified_at
		FROM claims WHERE article_id = ? ORDER BY rowid ASC
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var claims []models.Claim
	for rows.Next() {
		var (
			claim       models.Claim
			relatedJSON sql.NullString
			notes       sql.NullString
			verifiedAt  sql.NullTime
		)
		if err := rows.Scan(&claim.ID, &claim.Text, &relatedJSON,
			&claim.ConfidenceScore, &claim.Verified, &notes, &verifiedAt); err != nil {
			return nil, err
		}
		if relatedJSON.Valid && relatedJSON.String != "" {
			if err := json.Unmarshal([]byte(relatedJSON.String), &claim.RelatedStudyIDs); err != nil {
				return nil, fmt.Errorf("failed to unmarshal related study IDs: %w", err)
			}
		}
		claim.VerificationNotes = notes.String
		if verifiedAt.Valid {
			t := verifiedAt.Time
			claim.VerifiedAt = &t
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

// CountVerified returns how many stored claims for an article are verified.
func (s *ClaimStore) CountVerified(ctx context.Context, articleID string) (int, error) {
	var count int
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM claims WHERE article_id = ? AND verified = 1`,
		articleID).Scan(&count)
	return count, err
}
