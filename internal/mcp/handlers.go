// ABOUTME: MCP tool handler implementations for the decoder server
// ABOUTME: Wires corpus writes, semantic search, and claim verification
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sciencedecoder/decoder/internal/claims"
	"github.com/sciencedecoder/decoder/internal/embedder"
	"github.com/sciencedecoder/decoder/internal/models"
	"github.com/sciencedecoder/decoder/internal/ranker"
	"github.com/sciencedecoder/decoder/internal/storage/sqlite"
	"github.com/sciencedecoder/decoder/internal/textsource"
	"github.com/sciencedecoder/decoder/internal/vector"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	studies    *sqlite.StudyStore
	articles   *sqlite.ArticleStore
	claimStore *sqlite.ClaimStore
	embedder   *embedder.Service
	ranker     *ranker.Ranker
	pipeline   *claims.Pipeline
	index      vector.Index // nil when running in fallback mode
	fetcher    *textsource.URLFetcher
}

// SetFetcher installs the URL fetcher used by verify_claims with a url argument.
func (h *Handlers) SetFetcher(f *textsource.URLFetcher) {
	h.fetcher = f
}

// AddStudy handles the add_study tool
func (h *Handlers) AddStudy(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title argument is required and must be a string"), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	study := &models.Study{
		Title:      title,
		Text:       text,
		Topic:      request.GetString("topic", ""),
		Discipline: request.GetString("discipline", ""),
		DOI:        request.GetString("doi", ""),
		SourceURL:  request.GetString("source_url", ""),
		SourceType: "web",
	}
	if args, ok := request.Params.Arguments.(map[string]any); ok {
		if raw, exists := args["keywords"]; exists {
			if arr, ok := raw.([]interface{}); ok {
				for _, item := range arr {
					if s, ok := item.(string); ok {
						study.Keywords = append(study.Keywords, s)
					}
				}
			}
		}
	}

	// A study without an embedding must not reach the corpus.
	vec, err := h.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("embedding failed: %v", err)), nil
	}
	study.Vector = vec

	if err := h.studies.CreateStudy(ctx, study); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to store study: %v", err)), nil
	}
	if h.index != nil {
		payload := map[string]string{"title": study.Title, "discipline": study.Discipline}
		if err := h.index.Upsert(ctx, study.ID, vec, payload); err != nil {
			log.Printf("Warning: vector index upsert failed for study %s: %v", study.ID, err)
		}
	}

	response := map[string]interface{}{
		"id":        study.ID,
		"title":     study.Title,
		"dimension": len(vec),
	}
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// SearchStudies handles the search_studies tool
func (h *Handlers) SearchStudies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	limit := request.GetInt("limit", 10)
	minScore := request.GetFloat("min_score", 0.5)

	var filter *models.FilterCriteria
	discipline := request.GetString("discipline", "")
	topic := request.GetString("topic", "")
	minCitations := request.GetInt("min_citations", 0)
	if discipline != "" || topic != "" || minCitations > 0 {
		filter = &models.FilterCriteria{
			Discipline:   discipline,
			Topic:        topic,
			MinCitations: minCitations,
		}
	}

	queryVec, err := h.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("embedding query failed: %v", err)), nil
	}

	matches, stats, err := h.ranker.Rank(ctx, queryVec, ranker.Options{
		Limit:    limit,
		MinScore: minScore,
		Filters:  filter,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	results := make([]map[string]interface{}, 0, len(matches))
	for _, m := range matches {
		results = append(results, map[string]interface{}{
			"id":         m.Study.ID,
			"title":      m.Study.Title,
			"discipline": m.Study.Discipline,
			"score":      m.Score,
		})
	}
	response := map[string]interface{}{
		"mode":    stats.Mode.String(),
		"results": results,
	}
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// VerifyClaims handles the verify_claims tool
func (h *Handlers) VerifyClaims(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := request.GetString("text", "")
	url := request.GetString("url", "")
	if text == "" && url == "" {
		return mcp.NewToolResultError("either text or url must be provided"), nil
	}

	article := &models.Article{Text: text, URL: url}
	if text == "" {
		if h.fetcher == nil {
			return mcp.NewToolResultError("url verification is not available"), nil
		}
		doc, err := h.fetcher.Fetch(ctx, url)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to fetch article: %v", err)), nil
		}
		article.Title = doc.Title
		article.Text = doc.Text
	}

	if err := h.pipeline.VerifyArticle(ctx, article); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("verification failed: %v", err)), nil
	}

	// Persist fetched articles with their verification results.
	if url != "" {
		if err := h.articles.SaveArticle(ctx, article); err != nil {
			log.Printf("Warning: failed to persist article %s: %v", url, err)
		} else if err := h.claimStore.SaveClaims(ctx, article.ID, article.Claims); err != nil {
			log.Printf("Warning: failed to persist claims for article %s: %v", url, err)
		}
	}

	results := make([]map[string]interface{}, 0, len(article.Claims))
	for _, c := range article.Claims {
		entry := map[string]interface{}{
			"id":                 c.ID,
			"text":               c.Text,
			"verified":           c.Verified,
			"confidence_score":   c.ConfidenceScore,
			"verification_notes": c.VerificationNotes,
			"related_study_ids":  c.RelatedStudyIDs,
		}
		if c.VerifiedAt != nil {
			entry["verified_at"] = c.VerifiedAt.Format(time.RFC3339)
		}
		results = append(results, entry)
	}
	response := map[string]interface{}{
		"claims_extracted": len(article.Claims),
		"claims":           results,
	}
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
