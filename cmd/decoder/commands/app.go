// ABOUTME: Shared application bootstrap for CLI commands
// ABOUTME: Opens storage, the embedding client, and the ranking backends
package commands

import (
	"context"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sciencedecoder/decoder/internal/claims"
	"github.com/sciencedecoder/decoder/internal/config"
	"github.com/sciencedecoder/decoder/internal/embedder"
	"github.com/sciencedecoder/decoder/internal/llm"
	"github.com/sciencedecoder/decoder/internal/ranker"
	"github.com/sciencedecoder/decoder/internal/storage/sqlite"
	"github.com/sciencedecoder/decoder/internal/util"
	"github.com/sciencedecoder/decoder/internal/vector"
)

// app bundles the wired components a command needs.
type app struct {
	cfg        *config.Config
	db         *sqlite.DB
	studies    *sqlite.StudyStore
	articles   *sqlite.ArticleStore
	claimStore *sqlite.ClaimStore
	embedder   *embedder.Service
	ranker     *ranker.Ranker
	pipeline   *claims.Pipeline
	index      vector.Index // nil in fallback mode
}

// openApp wires the full application from environment configuration.
// The qdrant index is optional: when it cannot be reached the ranker runs
// in fallback mode against SQLite.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing OpenAI client: %w", err)
	}

	pool := util.NewWorkerPool(cfg.EmbedWorkers)
	svc := embedder.NewService(client, pool, cfg)
	studies := sqlite.NewStudyStore(db)

	var index vector.Index
	if cfg.QdrantHost != "" {
		qdr, err := vector.NewQdrant(cfg.QdrantHost, cfg.QdrantPort, cfg.QdrantCollection)
		if err != nil {
			if verbose {
				log.Printf("qdrant unavailable, using fallback search: %v", err)
			}
		} else {
			index = qdr
		}
	}

	rk := ranker.New(studies, index, cfg.VectorDimension, cfg.MaxScanDocuments)
	mode := rk.DetectMode(ctx)
	if verbose {
		log.Printf("similarity search mode: %s", mode)
	}

	retriever := claims.NewCorpusRetriever(svc, rk, cfg.MinSimilarityScore)
	pipeline := claims.NewPipeline(retriever, client, pool, cfg)

	return &app{
		cfg:        cfg,
		db:         db,
		studies:    studies,
		articles:   sqlite.NewArticleStore(db),
		claimStore: sqlite.NewClaimStore(db),
		embedder:   svc,
		ranker:     rk,
		pipeline:   pipeline,
		index:      index,
	}, nil
}

// Close releases the app's backends.
func (a *app) Close() {
	if a.index != nil {
		if err := a.index.Close(); err != nil {
			log.Printf("Warning: closing vector index: %v", err)
		}
	}
	if err := a.db.Close(); err != nil {
		log.Printf("Warning: closing database: %v", err)
	}
}
