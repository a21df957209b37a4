// ABOUTME: Article text acquisition from web URLs
// ABOUTME: Fetches HTML and reduces it to plain text for claim extraction
package textsource

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 10 << 20 // 10 MiB

// Document is plain text acquired from a source, ready for embedding and
// claim extraction.
type Document struct {
	Title string
	Text  string
}

// URLFetcher fetches article pages over HTTP.
type URLFetcher struct {
	client *http.Client
}

// NewURLFetcher creates a fetcher with the given timeout.
func NewURLFetcher(timeout time.Duration) *URLFetcher {
	return &URLFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads a page and returns its text content.
func (f *URLFetcher) Fetch(ctx context.Context, url string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "decoder/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	page := string(body)
	return &Document{
		Title: extractTitle(page),
		Text:  StripHTML(page),
	}, nil
}

var (
	titleRe   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	blockRe   = regexp.MustCompile(`(?is)<(script|style|nav|header|footer|aside)[^>]*>.*?</\s*(script|style|nav|header|footer|aside)\s*>`)
	commentRe = regexp.MustCompile(`(?s)<!--.*?-->`)
	tagRe     = regexp.MustCompile(`(?s)<[^>]*>`)
)

// extractTitle pulls the page title, empty when absent.
func extractTitle(page string) string {
	m := titleRe.FindStringSubmatch(page)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(m[1]))
}

// StripHTML reduces an HTML page to its visible text. Script, style, and
// navigation blocks are removed wholesale, remaining tags become spaces, and
// whitespace is collapsed. Good enough for article bodies; not a DOM parser.
func StripHTML(page string) string {
	out := commentRe.ReplaceAllString(page, " ")
	out = blockRe.ReplaceAllString(out, " ")
	out = tagRe.ReplaceAllString(out, " ")
	out = html.UnescapeString(out)
	return strings.Join(strings.Fields(out), " ")
}
