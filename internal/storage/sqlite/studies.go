// ABOUTME: Study persistence operations for SQLite
// ABOUTME: Implements corpus writes, lookups, and filtered candidate loading
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

// StudyStore handles study persistence
type StudyStore struct {
	db *DB
}

// NewStudyStore creates a new StudyStore
func NewStudyStore(db *DB) *StudyStore {
	return &StudyStore{db: db}
}

// CreateStudy inserts a study, assigning an ID and timestamps when missing.
func (s *StudyStore) CreateStudy(ctx context.Context, study *models.Study) error {
	if study.ID == "" {
		study.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if study.CreatedAt.IsZero() {
		study.CreatedAt = now
	}
	study.UpdatedAt = now

	authorsJSON, err := json.Marshal(study.Authors)
	if err != nil {
		return fmt.Errorf("failed to marshal authors: %w", err)
	}
	keywordsJSON, err := json.Marshal(study.Keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}

	_, err = s.db.conn.ExecContext(ctx, `
		INSERT INTO studies (id, title, text, topic, discipline, source_type,
			source_url, authors, publication_date, keywords, citation_count,
			doi, journal, vector, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			text = excluded.text,
			topic = excluded.topic,
			discipline = excluded.discipline,
			source_type = excluded.source_type,
			source_url = excluded.source_url,
			authors = excluded.authors,
			publication_date = excluded.publication_date,
			keywords = excluded.keywords,
			citation_count = excluded.citation_count,
			doi = excluded.doi,
			journal = excluded.journal,
			vector = excluded.vector,
			updated_at = excluded.updated_at
	`, study.ID, study.Title, study.Text, nullString(study.Topic),
		nullString(study.Discipline), nullString(study.SourceType),
		nullString(study.SourceURL), string(authorsJSON), study.PublicationDate,
		string(keywordsJSON), study.CitationCount, nullString(study.DOI),
		nullString(study.Journal), vectorToBlob(study.Vector),
		study.CreatedAt, study.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save study: %w", err)
	}
	return nil
}

const studyColumns = `id, title, text, topic, discipline, source_type,
	source_url, authors, publication_date, keywords, citation_count,
	doi, journal, vector, created_at, updated_at`

// FetchStudy retrieves a study by ID. Returns nil without error when absent.
func (s *StudyStore) FetchStudy(ctx context.Context, id string) (*models.Study, error) {
	row := s.db.conn.QueryRowContext(ctx,
		`SELECT `+studyColumns+` FROM studies WHERE id = ?`, id)
	study, err := scanStudy(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch study %s: %w", id, err)
	}
	return study, nil
}

// FetchStudyByDOI retrieves a study by DOI. Returns nil without error when absent.
func (s *StudyStore) FetchStudyByDOI(ctx context.Context, doi string) (*models.Study, error) {
	row := s.db.conn.QueryRowContext(ctx,
		`SELECT `+studyColumns+` FROM studies WHERE doi = ?`, doi)
	study, err := scanStudy(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch study by DOI %s: %w", doi, err)
	}
	return study, nil
}

// FindCandidates loads studies matching the filter, up to limit rows. The
// WHERE clause covers the indexed predicates; the remaining predicates are
// re-checked in Go so results match FilterCriteria semantics exactly.
func (s *StudyStore) FindCandidates(ctx context.Context, filter *models.FilterCriteria, limit int) ([]models.Study, error) {
	query := `SELECT ` + studyColumns + ` FROM studies`
	var (
		clauses []string
		args    []interface{}
	)
	if filter != nil {
		if filter.Discipline != "" {
			clauses = append(clauses, "discipline = ? COLLATE NOCASE")
			args = append(args, filter.Discipline)
		}
		if filter.Topic != "" {
			clauses = append(clauses, "topic = ? COLLATE NOCASE")
			args = append(args, filter.Topic)
		}
		if filter.MinCitations > 0 {
			clauses = append(clauses, "citation_count >= ?")
			args = append(args, filter.MinCitations)
		}
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at ASC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var studies []models.Study
	for rows.Next() {
		study, err := scanStudy(rows)
		if err != nil {
			return nil, err
		}
		if !filter.Matches(study) {
			continue
		}
		studies = append(studies, *study)
	}
	return studies, rows.Err()
}

// ListStudies returns studies ordered by creation time, newest first.
func (s *StudyStore) ListStudies(ctx context.Context, limit, offset int) ([]models.Study, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT `+studyColumns+` FROM studies ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list studies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var studies []models.Study
	for rows.Next() {
		study, err := scanStudy(rows)
		if err != nil {
			return nil, err
		}
		studies = append(studies, *study)
	}
	return studies, rows.Err()
}

// UpdateCitationCount sets a study's citation count, typically after a
// registry refresh.
func (s *StudyStore) UpdateCitationCount(ctx context.Context, id string, count int) error {
	res, err := s.db.conn.ExecContext(ctx,
		`UPDATE studies SET citation_count = ?, updated_at = ? WHERE id = ?`,
		count, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update citation count: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("study %s not found", id)
	}
	return nil
}

// DeleteStudy removes a study by ID.
func (s *StudyStore) DeleteStudy(ctx context.Context, id string) error {
	_, err := s.db.conn.ExecContext(ctx, `DELETE FROM studies WHERE id = ?`, id)
	return err
}

// CountStudies returns the number of studies in the corpus.
func (s *StudyStore) CountStudies(ctx context.Context) (int, error) {
	var count int
	err := s.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM studies`).Scan(&count)
	return count, err
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStudy(row scanner) (*models.Study, error) {
	var (
		study        models.Study
		topic        sql.NullString
		discipline   sql.NullString
		sourceType   sql.NullString
		sourceURL    sql.NullString
		authorsJSON  sql.NullString
		pubDate      sql.NullTime
		keywordsJSON sql.NullString
		doi          sql.NullString
		journal      sql.NullString
		blob         []byte
	)

	err := row.Scan(&study.ID, &study.Title, &study.Text, &topic, &discipline,
		&sourceType, &sourceURL, &authorsJSON, &pubDate, &keywordsJSON,
		&study.CitationCount, &doi, &journal, &blob,
		&study.CreatedAt, &study.UpdatedAt)
	if err != nil {
		return nil, err
	}

	study.Topic = topic.String
	study.Discipline = discipline.String
	study.SourceType = sourceType.String
	study.SourceURL = sourceURL.String
	study.DOI = doi.String
	study.Journal = journal.String
	if pubDate.Valid {
		t := pubDate.Time
		study.PublicationDate = &t
	}
	if authorsJSON.Valid && authorsJSON.String != "" {
		if err := json.Unmarshal([]byte(authorsJSON.String), &study.Authors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal authors: %w", err)
		}
	}
	if keywordsJSON.Valid && keywordsJSON.String != "" {
		if err := json.Unmarshal([]byte(keywordsJSON.String), &study.Keywords); err != nil {
			return nil, fmt.Errorf("failed to unmarshal keywords: %w", err)
		}
	}
	study.Vector = blobToVector(blob)

	return &study, nil
}

// nullString converts an empty string to sql.NullString
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
