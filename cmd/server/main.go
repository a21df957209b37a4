// ABOUTME: Main entry point for the decoder MCP server with stdio transport
// ABOUTME: Initializes storage, embedding, ranking, and the MCP tool set
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	openai "github.com/sashabaranov/go-openai"

	"github.com/sciencedecoder/decoder/internal/claims"
	"github.com/sciencedecoder/decoder/internal/config"
	"github.com/sciencedecoder/decoder/internal/embedder"
	"github.com/sciencedecoder/decoder/internal/llm"
	"github.com/sciencedecoder/decoder/internal/mcp"
	"github.com/sciencedecoder/decoder/internal/ranker"
	"github.com/sciencedecoder/decoder/internal/storage/sqlite"
	"github.com/sciencedecoder/decoder/internal/textsource"
	"github.com/sciencedecoder/decoder/internal/util"
	"github.com/sciencedecoder/decoder/internal/vector"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.OpenAIKey == "" {
		log.Fatal("OPENAI_API_KEY not set - the server cannot embed or verify")
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		log.Fatalf("Failed to initialize OpenAI client: %v", err)
	}

	pool := util.NewWorkerPool(cfg.EmbedWorkers)
	svc := embedder.NewService(client, pool, cfg)
	studies := sqlite.NewStudyStore(db)

	// Qdrant is optional: when unreachable the ranker scans SQLite instead.
	var index vector.Index
	if cfg.QdrantHost != "" {
		qdr, err := vector.NewQdrant(cfg.QdrantHost, cfg.QdrantPort, cfg.QdrantCollection)
		if err != nil {
			log.Printf("Qdrant unavailable, using fallback search: %v", err)
		} else {
			index = qdr
			defer func() { _ = qdr.Close() }()
		}
	}

	rk := ranker.New(studies, index, cfg.VectorDimension, cfg.MaxScanDocuments)
	mode := rk.DetectMode(context.Background())
	log.Printf("Similarity search mode: %s", mode)

	retriever := claims.NewCorpusRetriever(svc, rk, cfg.MinSimilarityScore)
	pipeline := claims.NewPipeline(retriever, client, pool, cfg)

	server := mcpserver.NewMCPServer(
		"Science Decoder",
		"0.1.0",
	)

	handlers := mcp.RegisterTools(server, studies, sqlite.NewArticleStore(db),
		sqlite.NewClaimStore(db), svc, rk, pipeline, index)
	handlers.SetFetcher(textsource.NewURLFetcher(cfg.Timeout))

	log.Println("Decoder MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
