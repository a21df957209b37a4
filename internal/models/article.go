// ABOUTME: Article model for web articles that discuss scientific studies
// ABOUTME: Articles carry extracted claims and references to cited studies
package models

import "time"

// Citation is a reference from an article to a scientific study.
type Citation struct {
	DOI      string `json:"doi,omitempty"`
	URL      string `json:"url,omitempty"`
	Title    string `json:"title"`
	Verified bool   `json:"verified"`
}

// Article represents a web article whose claims are verified against the corpus.
type Article struct {
	ID           string     `json:"id"`
	URL          string     `json:"url"`
	Title        string     `json:"title"`
	Text         string     `json:"text"`
	CitedStudies []Citation `json:"cited_studies,omitempty"`
	Claims       []Claim    `json:"claims,omitempty"`
	Vector       []float64  `json:"vector,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
