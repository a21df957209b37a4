// ABOUTME: MCP tool definitions and registration for the decoder server
// ABOUTME: Defines JSON schemas for the corpus, search, and verification tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/sciencedecoder/decoder/internal/claims"
	"github.com/sciencedecoder/decoder/internal/embedder"
	"github.com/sciencedecoder/decoder/internal/ranker"
	"github.com/sciencedecoder/decoder/internal/storage/sqlite"
	"github.com/sciencedecoder/decoder/internal/vector"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, studies *sqlite.StudyStore, articles *sqlite.ArticleStore, claimStore *sqlite.ClaimStore, svc *embedder.Service, rk *ranker.Ranker, pipeline *claims.Pipeline, index vector.Index) *Handlers {
	handlers := &Handlers{
		studies:    studies,
		articles:   articles,
		claimStore: claimStore,
		embedder:   svc,
		ranker:     rk,
		pipeline:   pipeline,
		index:      index,
	}

	// 1. add_study - Add a scientific study to the evidence corpus
	server.AddTool(mcp.Tool{
		Name:        "add_study",
		Description: "Add a scientific study to the evidence corpus. The study text is embedded and becomes searchable immediately.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Study title",
				},
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Full study text or abstract",
				},
				"topic": map[string]interface{}{
					"type":        "string",
					"description": "Optional topic label",
				},
				"discipline": map[string]interface{}{
					"type":        "string",
					"description": "Optional discipline, e.g. Medicine",
				},
				"doi": map[string]interface{}{
					"type":        "string",
					"description": "Optional DOI",
				},
				"source_url": map[string]interface{}{
					"type":        "string",
					"description": "Optional source URL",
				},
				"keywords": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Optional keywords for filtered search",
				},
			},
			Required: []string{"title", "text"},
		},
	}, handlers.AddStudy)

	// 2. search_studies - Semantic search over the corpus
	server.AddTool(mcp.Tool{
		Name:        "search_studies",
		Description: "Search the study corpus by semantic similarity. Returns ranked matches with similarity scores.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural language search query",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results (default: 10)",
					"default":     10,
				},
				"min_score": map[string]interface{}{
					"type":        "number",
					"description": "Minimum similarity score in [0,1] (default: 0.5)",
					"default":     0.5,
				},
				"discipline": map[string]interface{}{
					"type":        "string",
					"description": "Restrict results to a discipline",
				},
				"topic": map[string]interface{}{
					"type":        "string",
					"description": "Restrict results to a topic",
				},
				"min_citations": map[string]interface{}{
					"type":        "number",
					"description": "Restrict results to studies with at least this many citations",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchStudies)

	// 3. verify_claims - Extract and verify claims from article text or URL
	server.AddTool(mcp.Tool{
		Name:        "verify_claims",
		Description: "Extract scientific claims from article text and verify each one against the study corpus. Provide either text or url.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Article text to verify",
				},
				"url": map[string]interface{}{
					"type":        "string",
					"description": "Article URL to fetch and verify",
				},
			},
		},
	}, handlers.VerifyClaims)

	return handlers
}
