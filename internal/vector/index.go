// ABOUTME: Index abstraction over a native vector-search backend
// ABOUTME: Ensure doubles as the capability probe that decides the ranking mode
package vector

import "context"

// Hit is a single nearest-neighbor result from the backend. The
// backend-reported score is used as-is; it is not guaranteed to be
// bit-identical to a manually computed cosine score, only similarly ordered.
type Hit struct {
	ID    string
	Score float64
}

// Index is a native vector-search backend. A nil Index, or one whose Ensure
// call fails, leaves the system in fallback (manual scan) mode.
type Index interface {
	// Ensure creates the collection for vectors of the given dimension if it
	// does not exist. A failure means native vector search is unavailable.
	Ensure(ctx context.Context, dimension int) error
	// Upsert stores or replaces a vector under the given document ID.
	Upsert(ctx context.Context, id string, vec []float64, payload map[string]string) error
	// Search returns up to limit nearest neighbors of vec, best first.
	Search(ctx context.Context, vec []float64, limit int) ([]Hit, error)
	Close() error
}
