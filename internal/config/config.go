// ABOUTME: Centralized configuration for the science decoder services
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the decoder system
type Config struct {
	// Storage settings
	DBPath string

	// Qdrant settings (native vector search backend)
	QdrantHost       string
	QdrantPort       int
	QdrantCollection string

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Embedding settings
	VectorDimension int
	ChunkSize       int
	ChunkOverlap    int
	EmbedWorkers    int

	// Search settings
	DefaultSearchLimit int
	MinSimilarityScore float64
	MaxScanDocuments   int

	// Claim verification settings
	MinClaimConfidence float64
	ClaimIndicators    []string
}

// DefaultClaimIndicators are the phrase markers used by claim extraction.
// This is a precision-biased heuristic: sentences phrased without these
// markers are missed.
var DefaultClaimIndicators = []string{
	"study shows",
	"research indicates",
	"scientists found",
	"according to research",
	"evidence suggests",
	"results demonstrate",
	"analysis reveals",
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:             getEnv("DECODER_DB_PATH", ""),
		QdrantHost:         getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:         getEnvInt("QDRANT_PORT", 6334),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "studies"),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		ChatModel:          getEnv("DECODER_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel:     getEnv("DECODER_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:            getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:         getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:         getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		VectorDimension:    getEnvInt("VECTOR_DIMENSION", 1536),
		ChunkSize:          getEnvInt("CHUNK_SIZE", 512),
		ChunkOverlap:       getEnvInt("CHUNK_OVERLAP", 50),
		EmbedWorkers:       getEnvInt("EMBED_WORKERS", 4),
		DefaultSearchLimit: getEnvInt("DEFAULT_SEARCH_LIMIT", 10),
		MinSimilarityScore: getEnvFloat("MIN_SIMILARITY_SCORE", 0.5),
		MaxScanDocuments:   getEnvInt("MAX_SCAN_DOCUMENTS", 1000),
		MinClaimConfidence: getEnvFloat("MIN_CLAIM_CONFIDENCE", 0.7),
		ClaimIndicators:    getEnvList("CLAIM_INDICATORS", DefaultClaimIndicators),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MinSimilarityScore < 0 || c.MinSimilarityScore > 1 {
		return fmt.Errorf("MIN_SIMILARITY_SCORE must be 0-1, got %f", c.MinSimilarityScore)
	}
	if c.MinClaimConfidence < 0 || c.MinClaimConfidence > 1 {
		return fmt.Errorf("MIN_CLAIM_CONFIDENCE must be 0-1, got %f", c.MinClaimConfidence)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.VectorDimension <= 0 {
		return fmt.Errorf("VECTOR_DIMENSION must be positive, got %d", c.VectorDimension)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", c.ChunkOverlap)
	}
	if c.EmbedWorkers < 1 || c.EmbedWorkers > 16 {
		return fmt.Errorf("EMBED_WORKERS must be 1-16, got %d", c.EmbedWorkers)
	}
	if c.MaxScanDocuments <= 0 {
		return fmt.Errorf("MAX_SCAN_DOCUMENTS must be positive, got %d", c.MaxScanDocuments)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
