// ABOUTME: Study model for scientific studies stored in the corpus
// ABOUTME: Carries text, embedding vector, and metadata used for filtering
package models

import "time"

// Author is a contributor to a scientific study.
type Author struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Institution string `json:"institution,omitempty"`
}

// Study represents a scientific study with its embedding and metadata.
// The Vector field is optional until an embedding has been generated;
// a study that required embedding but lacks one must not be persisted.
type Study struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Text            string     `json:"text"`
	Topic           string     `json:"topic"`
	Discipline      string     `json:"discipline"`
	Vector          []float64  `json:"vector,omitempty"`
	SourceType      string     `json:"source_type"` // pdf or web
	SourceURL       string     `json:"source_url,omitempty"`
	Authors         []Author   `json:"authors,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	Keywords        []string   `json:"keywords,omitempty"`
	CitationCount   int        `json:"citation_count"`
	DOI             string     `json:"doi,omitempty"`
	Journal         string     `json:"journal,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SimilarityMatch pairs a study with its similarity score against a query.
// Matches are ephemeral: produced by the ranker, never persisted.
type SimilarityMatch struct {
	Study Study   `json:"study"`
	Score float64 `json:"score"`
}
