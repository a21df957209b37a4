// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing and validation
package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify defaults
	if cfg.QdrantHost != "localhost" {
		t.Errorf("QdrantHost = %s, want localhost", cfg.QdrantHost)
	}
	if cfg.QdrantPort != 6334 {
		t.Errorf("QdrantPort = %d, want 6334", cfg.QdrantPort)
	}
	if cfg.QdrantCollection != "studies" {
		t.Errorf("QdrantCollection = %s, want studies", cfg.QdrantCollection)
	}
	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %s, want gpt-4o-mini", cfg.ChatModel)
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %s, want text-embedding-3-small", cfg.EmbeddingModel)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.VectorDimension != 1536 {
		t.Errorf("VectorDimension = %d, want 1536", cfg.VectorDimension)
	}
	if cfg.ChunkSize != 512 {
		t.Errorf("ChunkSize = %d, want 512", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 50 {
		t.Errorf("ChunkOverlap = %d, want 50", cfg.ChunkOverlap)
	}
	if cfg.EmbedWorkers != 4 {
		t.Errorf("EmbedWorkers = %d, want 4", cfg.EmbedWorkers)
	}
	if cfg.MinSimilarityScore != 0.5 {
		t.Errorf("MinSimilarityScore = %f, want 0.5", cfg.MinSimilarityScore)
	}
	if cfg.MinClaimConfidence != 0.7 {
		t.Errorf("MinClaimConfidence = %f, want 0.7", cfg.MinClaimConfidence)
	}
	if cfg.MaxScanDocuments != 1000 {
		t.Errorf("MaxScanDocuments = %d, want 1000", cfg.MaxScanDocuments)
	}
	if len(cfg.ClaimIndicators) != len(DefaultClaimIndicators) {
		t.Errorf("ClaimIndicators length = %d, want %d", len(cfg.ClaimIndicators), len(DefaultClaimIndicators))
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("QDRANT_HOST", "qdrant.internal")
	os.Setenv("QDRANT_PORT", "7001")
	os.Setenv("OPENAI_API_KEY", "test-key")
	os.Setenv("DECODER_CHAT_MODEL", "gpt-4")
	os.Setenv("DECODER_EMBEDDING_MODEL", "text-embedding-3-large")
	os.Setenv("OPENAI_TIMEOUT", "60s")
	os.Setenv("OPENAI_MAX_RETRIES", "5")
	os.Setenv("VECTOR_DIMENSION", "3072")
	os.Setenv("CHUNK_SIZE", "256")
	os.Setenv("CHUNK_OVERLAP", "20")
	os.Setenv("MIN_SIMILARITY_SCORE", "0.4")
	os.Setenv("MIN_CLAIM_CONFIDENCE", "0.8")
	os.Setenv("CLAIM_INDICATORS", "study shows, findings confirm")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.QdrantHost != "qdrant.internal" {
		t.Errorf("QdrantHost = %s, want qdrant.internal", cfg.QdrantHost)
	}
	if cfg.QdrantPort != 7001 {
		t.Errorf("QdrantPort = %d, want 7001", cfg.QdrantPort)
	}
	if cfg.OpenAIKey != "test-key" {
		t.Errorf("OpenAIKey = %s, want test-key", cfg.OpenAIKey)
	}
	if cfg.ChatModel != "gpt-4" {
		t.Errorf("ChatModel = %s, want gpt-4", cfg.ChatModel)
	}
	if cfg.EmbeddingModel != "text-embedding-3-large" {
		t.Errorf("EmbeddingModel = %s, want text-embedding-3-large", cfg.EmbeddingModel)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
	if cfg.VectorDimension != 3072 {
		t.Errorf("VectorDimension = %d, want 3072", cfg.VectorDimension)
	}
	if cfg.ChunkSize != 256 {
		t.Errorf("ChunkSize = %d, want 256", cfg.ChunkSize)
	}
	if cfg.MinSimilarityScore != 0.4 {
		t.Errorf("MinSimilarityScore = %f, want 0.4", cfg.MinSimilarityScore)
	}
	if cfg.MinClaimConfidence != 0.8 {
		t.Errorf("MinClaimConfidence = %f, want 0.8", cfg.MinClaimConfidence)
	}
	want := []string{"study shows", "findings confirm"}
	if len(cfg.ClaimIndicators) != len(want) {
		t.Fatalf("ClaimIndicators = %v, want %v", cfg.ClaimIndicators, want)
	}
	for i := range want {
		if cfg.ClaimIndicators[i] != want[i] {
			t.Errorf("ClaimIndicators[%d] = %q, want %q", i, cfg.ClaimIndicators[i], want[i])
		}
	}
}

func validConfig() *Config {
	return &Config{
		MinSimilarityScore: 0.5,
		MinClaimConfidence: 0.7,
		MaxRetries:         3,
		VectorDimension:    1536,
		ChunkSize:          512,
		ChunkOverlap:       50,
		EmbedWorkers:       4,
		MaxScanDocuments:   1000,
	}
}

func TestValidate_InvalidThresholds(t *testing.T) {
	cfg := validConfig()
	cfg.MinSimilarityScore = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for MinSimilarityScore > 1")
	}

	cfg = validConfig()
	cfg.MinClaimConfidence = -0.1
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for MinClaimConfidence < 0")
	}
}

func TestValidate_InvalidChunking(t *testing.T) {
	cfg := validConfig()
	cfg.ChunkSize = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for ChunkSize = 0")
	}

	cfg = validConfig()
	cfg.ChunkOverlap = cfg.ChunkSize
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail when overlap >= chunk size")
	}
}

func TestValidate_InvalidWorkers(t *testing.T) {
	cfg := validConfig()
	cfg.EmbedWorkers = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for EmbedWorkers = 0")
	}

	cfg = validConfig()
	cfg.EmbedWorkers = 64
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for EmbedWorkers > 16")
	}
}

func TestValidate_InvalidMaxRetries(t *testing.T) {
	cfg := validConfig()
	cfg.MaxRetries = 15
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for MaxRetries > 10")
	}
}
