// ABOUTME: Embedding service orchestrating preprocess, chunk, encode, combine, normalize
// ABOUTME: Per-chunk encoder calls run on a bounded worker pool; failures are recorded in metrics
package embedder

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sciencedecoder/decoder/internal/config"
	"github.com/sciencedecoder/decoder/internal/llm"
	"github.com/sciencedecoder/decoder/internal/models"
	"github.com/sciencedecoder/decoder/internal/util"
)

// Service converts text into unit-normalized embedding vectors of a fixed
// dimension. Each call is pure given its inputs except for the metrics log.
type Service struct {
	encoder      llm.Encoder
	pool         *util.WorkerPool
	metrics      *MetricsLog
	dimension    int
	chunkSize    int
	chunkOverlap int
}

// NewService creates an embedding service using the given encoder backend
// and worker pool. The pool is shared with entailment scoring so that the
// total number of in-flight encoder calls stays bounded.
func NewService(encoder llm.Encoder, pool *util.WorkerPool, cfg *config.Config) *Service {
	return &Service{
		encoder:      encoder,
		pool:         pool,
		metrics:      NewMetricsLog(),
		dimension:    cfg.VectorDimension,
		chunkSize:    cfg.ChunkSize,
		chunkOverlap: cfg.ChunkOverlap,
	}
}

// Metrics returns the processing metrics log.
func (s *Service) Metrics() *MetricsLog {
	return s.metrics
}

// Dimension returns the expected vector dimension D.
func (s *Service) Dimension() int {
	return s.dimension
}

// GenerateEmbedding converts text into a single unit vector of dimension D.
// Long inputs are chunked, each chunk is encoded on the worker pool, and the
// chunk vectors are mean-pooled then L2-normalized. Every attempt records a
// ProcessingMetrics entry. On any stage failure the returned error is an
// *EmbeddingError and no vector is returned; callers must treat that as
// "could not embed", never as a zero vector.
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	start := time.Now()

	// Updated as stages complete so failure records carry the same
	// post-preprocess length and chunk count as success records.
	inputLength := len(text)
	chunkCount := 0

	fail := func(stage string, err error) ([]float64, error) {
		s.metrics.Record(text, models.ProcessingMetrics{
			ChunkCount:     chunkCount,
			ProcessingTime: time.Since(start),
			InputLength:    inputLength,
			Success:        false,
			ErrorMessage:   err.Error(),
		})
		return nil, &EmbeddingError{Stage: stage, Err: err}
	}

	clean := Preprocess(text)
	inputLength = len(clean)
	if clean == "" {
		return fail("preprocess", ErrEmptyInput)
	}

	chunks := Chunk(clean, s.chunkSize, s.chunkOverlap)
	chunkCount = len(chunks)

	vectors := make([][]float64, len(chunks))
	errs := make([]error, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk string) {
			defer wg.Done()
			errs[i] = s.pool.Do(ctx, func() error {
				vec, err := s.encoder.Encode(ctx, chunk)
				if err != nil {
					return err
				}
				if len(vec) != s.dimension {
					return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, s.dimension, len(vec))
				}
				vectors[i] = vec
				return nil
			})
		}(i, chunk)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return fail("encode", err)
		}
	}

	combined := combine(vectors)

	normalized, err := Normalize(combined)
	if err != nil {
		return fail("normalize", err)
	}

	s.metrics.Record(text, models.ProcessingMetrics{
		ChunkCount:     len(chunks),
		ProcessingTime: time.Since(start),
		InputLength:    len(clean),
		Success:        true,
	})

	return normalized, nil
}

// combine mean-pools chunk vectors into a single vector of the same
// dimension, regardless of chunk count.
func combine(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}
	dim := len(vectors[0])
	out := make([]float64, dim)
	for _, vec := range vectors {
		for i, v := range vec {
			out[i] += v
		}
	}
	n := float64(len(vectors))
	for i := range out {
		out[i] /= n
	}
	return out
}

// Normalize divides the vector by its L2 norm. A zero norm is a failure
// condition, not a silent zero vector.
func Normalize(vec []float64) ([]float64, error) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return nil, ErrZeroVector
	}
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = v / norm
	}
	return out, nil
}
