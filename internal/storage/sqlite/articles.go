// ABOUTME: Article persistence operations for SQLite
// ABOUTME: Stores fetched articles and their citation references
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sciencedecoder/decoder/internal/models"
)

// ArticleStore handles article persistence
type ArticleStore struct {
	db *DB
}

// NewArticleStore creates a new ArticleStore
func NewArticleStore(db *DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// SaveArticle inserts or updates an article. Claims are stored separately
// through ClaimStore so they can be queried per claim.
func (s *ArticleStore) SaveArticle(ctx context.Context, article *models.Article) error {
	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	article.UpdatedAt = now

	citedJSON, err := json.Marshal(article.CitedStudies)
	if err != nil {
		return fmt.Errorf("failed to marshal cited studies: %w", err)
	}

	_, err = s.db.conn.ExecContext(ctx, `
		INSERT INTO articles (id, url, title, text, cited_studies, vector, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			text = excluded.text,
			cited_studies = excluded.cited_studies,
			vector = excluded.vector,
			updated_at = excluded.updated_at
	`, article.ID, article.URL, nullString(article.Title), article.Text,
		string(citedJSON), vectorToBlob(article.Vector),
		article.CreatedAt, article.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save article: %w", err)
	}
	return nil
}

// GetArticle retrieves an article by ID, including its persisted claims.
// Returns nil without error when absent.
func (s *ArticleStore) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	return s.getArticle(ctx, "id = ?", id)
}

// GetArticleByURL retrieves the most recently updated article for a URL.
// Returns nil without error when absent.
func (s *ArticleStore) GetArticleByURL(ctx context.Context, url string) (*models.Article, error) {
	return s.getArticle(ctx, "url = ?", url)
}

func (s *ArticleStore) getArticle(ctx context.Context, where string, arg interface{}) (*models.Article, error) {
	var (
		article   models.Article
		title     sql.NullString
		citedJSON sql.NullString
		blob      []byte
	)

	err := s.db.conn.QueryRowContext(ctx, `
		SELECT id, url, title, text, cited_studies, vector, created_at, updated_at
		FROM articles WHERE `+where+` ORDER BY updated_at DESC LIMIT 1
	`, arg).Scan(&article.ID, &article.URL, &title, &article.Text,
		&citedJSON, &blob, &article.CreatedAt, &article.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article: %w", err)
	}

	article.Title = title.String
	if citedJSON.Valid && citedJSON.String != "" {
		if err := json.Unmarshal([]byte(citedJSON.String), &article.CitedStudies); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cited studies: %w", err)
		}
	}
	article.Vector = blobToVector(blob)

	claims, err := NewClaimStore(s.db).ListClaims(ctx, article.ID)
	if err != nil {
		return nil, err
	}
	article.Claims = claims

	return &article, nil
}

// DeleteArticle removes an article and, via cascade, its claims.
func (s *ArticleStore) DeleteArticle(ctx context.Context, id string) error {
	_, err := s.db.conn.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	return err
}
