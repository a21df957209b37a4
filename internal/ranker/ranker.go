// ABOUTME: Similarity ranker scoring stored studies against a query vector
// ABOUTME: Delegates to a native vector index when available, else scans candidates manually
package ranker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"sync/atomic"

	"github.com/sciencedecoder/decoder/internal/models"
	"github.com/sciencedecoder/decoder/internal/vector"
)

// Mode selects how similarity scores are produced. It is decided once at
// startup by a capability probe and read atomically by every ranking call;
// no call ever observes a mix of both modes.
type Mode int32

const (
	// ModeFallback computes cosine similarity manually over a full candidate
	// scan. O(N) in the candidate count; callers should avoid it on
	// unbounded collections (the scan is capped at MaxScan documents).
	ModeFallback Mode = iota
	// ModeNativeVectorSearch delegates scoring to the backend's k-nearest
	// neighbor search.
	ModeNativeVectorSearch
)

func (m Mode) String() string {
	if m == ModeNativeVectorSearch {
		return "native"
	}
	return "fallback"
}

var (
	// ErrInvalidMinScore is returned when min score is outside [0,1].
	ErrInvalidMinScore = errors.New("min score must be in [0,1]")
	// ErrInvalidLimit is returned when the result limit is not positive.
	ErrInvalidLimit = errors.New("limit must be positive")
	// ErrQueryDimension is returned when the query vector has the wrong length.
	ErrQueryDimension = errors.New("query vector has wrong dimension")
)

// StudyStore is the persistence collaborator the ranker reads candidates from.
type StudyStore interface {
	FindCandidates(ctx context.Context, filter *models.FilterCriteria, limit int) ([]models.Study, error)
	FetchStudy(ctx context.Context, id string) (*models.Study, error)
}

// Options bound a single ranking call.
type Options struct {
	Limit    int
	MinScore float64
	Filters  *models.FilterCriteria
}

// Stats describes what a ranking call did, including candidates skipped for
// dimension mismatches.
type Stats struct {
	Mode    Mode
	Scanned int
	Skipped int
}

// Ranker ranks stored studies by similarity to a query vector.
type Ranker struct {
	mode      atomic.Int32
	index     vector.Index
	store     StudyStore
	dimension int
	maxScan   int
}

// New creates a ranker in fallback mode. Call DetectMode to probe the native
// backend and switch modes.
func New(store StudyStore, index vector.Index, dimension, maxScan int) *Ranker {
	return &Ranker{
		index:     index,
		store:     store,
		dimension: dimension,
		maxScan:   maxScan,
	}
}

// DetectMode probes the native backend once and records the resulting mode.
// The switch is atomic with respect to concurrent ranking calls.
func (r *Ranker) DetectMode(ctx context.Context) Mode {
	mode := ModeFallback
	if r.index != nil {
		if err := r.index.Ensure(ctx, r.dimension); err != nil {
			log.Printf("Warning: native vector search unavailable, using fallback: %v", err)
		} else {
			mode = ModeNativeVectorSearch
		}
	}
	r.mode.Store(int32(mode))
	return mode
}

// Mode returns the currently active ranking mode.
func (r *Ranker) Mode() Mode {
	return Mode(r.mode.Load())
}

// Rank returns studies ordered by descending similarity to queryVec,
// filtered by opts.Filters, thresholded at opts.MinScore, and truncated to
// opts.Limit. Ties keep their insertion order; callers must not read meaning
// into tie order. An empty candidate set yields an empty result, not an error.
func (r *Ranker) Rank(ctx context.Context, queryVec []float64, opts Options) ([]models.SimilarityMatch, Stats, error) {
	if err := validate(queryVec, r.dimension, opts); err != nil {
		return nil, Stats{}, err
	}

	// Capture the mode once so a concurrent re-probe cannot split this call.
	mode := r.Mode()
	if mode == ModeNativeVectorSearch {
		return r.rankNative(ctx, queryVec, opts)
	}
	return r.rankFallback(ctx, queryVec, opts)
}

func (r *Ranker) rankNative(ctx context.Context, queryVec []float64, opts Options) ([]models.SimilarityMatch, Stats, error) {
	stats := Stats{Mode: ModeNativeVectorSearch}

	// Request extra candidates so post-hoc filtering still fills the limit.
	hits, err := r.index.Search(ctx, queryVec, opts.Limit*2)
	if err != nil {
		return nil, stats, fmt.Errorf("native vector search: %w", err)
	}

	matches := make([]models.SimilarityMatch, 0, len(hits))
	for _, hit := range hits {
		stats.Scanned++
		if hit.Score < opts.MinScore {
			continue
		}
		study, err := r.store.FetchStudy(ctx, hit.ID)
		if err != nil {
			return nil, stats, fmt.Errorf("fetching candidate %s: %w", hit.ID, err)
		}
		if study == nil {
			stats.Skipped++
			log.Printf("Warning: index hit %s has no stored study, skipping", hit.ID)
			continue
		}
		if !opts.Filters.Matches(study) {
			continue
		}
		matches = append(matches, models.SimilarityMatch{Study: *study, Score: hit.Score})
	}

	// Backend returns neighbors best-first; keep the order stable and truncate.
	if len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches, stats, nil
}

func (r *Ranker) rankFallback(ctx context.Context, queryVec []float64, opts Options) ([]models.SimilarityMatch, Stats, error) {
	candidates, err := r.store.FindCandidates(ctx, opts.Filters, r.maxScan)
	if err != nil {
		return nil, Stats{Mode: ModeFallback}, fmt.Errorf("loading candidates: %w", err)
	}
	return RankCandidates(queryVec, candidates, opts)
}

// RankCandidates scores a concrete candidate collection against queryVec by
// clamped cosine similarity. It is a pure function of its inputs and is the
// manual path used in fallback mode. Candidates whose stored vector has the
// wrong dimensionality are skipped with a warning, never scored.
func RankCandidates(queryVec []float64, candidates []models.Study, opts Options) ([]models.SimilarityMatch, Stats, error) {
	if err := validate(queryVec, len(queryVec), opts); err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Mode: ModeFallback}
	matches := make([]models.SimilarityMatch, 0, len(candidates))

	for _, study := range candidates {
		stats.Scanned++
		if len(study.Vector) != len(queryVec) {
			stats.Skipped++
			log.Printf("Warning: study %s vector has dimension %d, expected %d, skipping",
				study.ID, len(study.Vector), len(queryVec))
			continue
		}
		if !opts.Filters.Matches(&study) {
			continue
		}
		score := CosineSimilarity(queryVec, study.Vector)
		if score < opts.MinScore {
			continue
		}
		matches = append(matches, models.SimilarityMatch{Study: study, Score: score})
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches, stats, nil
}

func validate(queryVec []float64, dimension int, opts Options) error {
	if opts.MinScore < 0 || opts.MinScore > 1 {
		return fmt.Errorf("%w: got %f", ErrInvalidMinScore, opts.MinScore)
	}
	if opts.Limit <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, opts.Limit)
	}
	if len(queryVec) == 0 || len(queryVec) != dimension {
		return fmt.Errorf("%w: got %d, expected %d", ErrQueryDimension, len(queryVec), dimension)
	}
	return nil
}

// CosineSimilarity returns the cosine similarity of a and b clamped to
// [0,1]: negative similarity folds to 0, deliberately treating "opposite
// meaning" the same as "unrelated" for compatibility with stored thresholds.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	similarity := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(0.0, math.Min(1.0, similarity))
}
