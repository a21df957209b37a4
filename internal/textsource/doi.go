// ABOUTME: CrossRef metadata client for DOI lookups
// ABOUTME: Enriches studies with authors, journal, and citation counts
package textsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sciencedecoder/decoder/internal/models"
)

// DefaultCrossRefBaseURL is the public CrossRef REST API.
const DefaultCrossRefBaseURL = "https://api.crossref.org"

// CrossRefClient looks up work metadata by DOI.
type CrossRefClient struct {
	client  *http.Client
	baseURL string
}

// NewCrossRefClient creates a client against the public API.
func NewCrossRefClient(timeout time.Duration) *CrossRefClient {
	return &CrossRefClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: DefaultCrossRefBaseURL,
	}
}

// NewCrossRefClientWithBaseURL creates a client against a custom endpoint
// (used in tests).
func NewCrossRefClientWithBaseURL(timeout time.Duration, baseURL string) *CrossRefClient {
	return &CrossRefClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Work is the subset of CrossRef metadata the corpus cares about.
type Work struct {
	DOI           string
	Title         string
	Journal       string
	Authors       []models.Author
	Published     *time.Time
	CitationCount int
}

type crossRefResponse struct {
	Message struct {
		DOI    string   `json:"DOI"`
		Title  []string `json:"title"`
		Author []struct {
			Given  string `json:"given"`
			Family string `json:"family"`
		} `json:"author"`
		ContainerTitle    []string `json:"container-title"`
		IsReferencedByCnt int      `json:"is-referenced-by-count"`
		Published         struct {
			DateParts [][]int `json:"date-parts"`
		} `json:"published"`
	} `json:"message"`
}

// FetchWork retrieves metadata for a DOI.
func (c *CrossRefClient) FetchWork(ctx context.Context, doi string) (*Work, error) {
	endpoint := fmt.Sprintf("%s/works/%s", c.baseURL, url.PathEscape(doi))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building CrossRef request: %w", err)
	}
	req.Header.Set("User-Agent", "decoder/1.0 (mailto:ops@sciencedecoder.dev)")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching DOI %s: %w", doi, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("DOI %s not found", doi)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching DOI %s: unexpected status %d", doi, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading CrossRef response: %w", err)
	}

	var parsed crossRefResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing CrossRef response: %w", err)
	}

	work := &Work{
		DOI:           parsed.Message.DOI,
		CitationCount: parsed.Message.IsReferencedByCnt,
	}
	if len(parsed.Message.Title) > 0 {
		work.Title = parsed.Message.Title[0]
	}
	if len(parsed.Message.ContainerTitle) > 0 {
		work.Journal = parsed.Message.ContainerTitle[0]
	}
	for _, a := range parsed.Message.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name != "" {
			work.Authors = append(work.Authors, models.Author{Name: name})
		}
	}
	if parts := parsed.Message.Published.DateParts; len(parts) > 0 && len(parts[0]) > 0 {
		y := parts[0][0]
		m, d := 1, 1
		if len(parts[0]) > 1 {
			m = parts[0][1]
		}
		if len(parts[0]) > 2 {
			d = parts[0][2]
		}
		t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
		work.Published = &t
	}
	return work, nil
}

// Apply copies the work metadata onto a study, filling only fields the
// study does not already have except the citation count, which always
// refreshes.
func (w *Work) Apply(study *models.Study) {
	if study.DOI == "" {
		study.DOI = w.DOI
	}
	if study.Title == "" {
		study.Title = w.Title
	}
	if study.Journal == "" {
		study.Journal = w.Journal
	}
	if len(study.Authors) == 0 {
		study.Authors = w.Authors
	}
	if study.PublicationDate == nil {
		study.PublicationDate = w.Published
	}
	study.CitationCount = w.CitationCount
}
