// ABOUTME: End-to-end semantic search test wiring the embedder into the ranker
// ABOUTME: A deterministic word-bucket encoder stands in for the embedding API
package ranker

import (
	"context"
	"strings"
	"testing"

	"github.com/sciencedecoder/decoder/internal/config"
	"github.com/sciencedecoder/decoder/internal/embedder"
	"github.com/sciencedecoder/decoder/internal/models"
	"github.com/sciencedecoder/decoder/internal/util"
)

// bucketEncoder hashes each word into one of dim buckets so texts sharing
// vocabulary produce similar vectors without any network access.
type bucketEncoder struct {
	dim int
}

func (b *bucketEncoder) Encode(ctx context.Context, text string) ([]float64, error) {
	vec := make([]float64, b.dim)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		var h uint32
		for _, r := range w {
			h = h*31 + uint32(r)
		}
		vec[int(h)%b.dim]++
	}
	return vec, nil
}

func (b *bucketEncoder) Entail(ctx context.Context, claimText, studyText string) (float64, error) {
	return 0, nil
}

func TestSearch_EmbedThenRank(t *testing.T) {
	ctx := context.Background()
	enc := &bucketEncoder{dim: 64}
	cfg := &config.Config{
		VectorDimension: enc.dim,
		ChunkSize:       128,
		ChunkOverlap:    10,
	}
	svc := embedder.NewService(enc, util.NewWorkerPool(2), cfg)

	docs := []struct {
		id, title, text string
	}{
		{"sleep", "Exercise and Sleep",
			"Exercise improves sleep quality in adults and reduces the time needed to fall asleep"},
		{"rain", "Coastal Rainfall",
			"Rainfall patterns in coastal regions shift with ocean temperature anomalies"},
	}

	var studies []models.Study
	for _, d := range docs {
		vec, err := svc.GenerateEmbedding(ctx, d.text)
		if err != nil {
			t.Fatalf("embedding %s: %v", d.id, err)
		}
		studies = append(studies, models.Study{ID: d.id, Title: d.title, Text: d.text, Vector: vec})
	}

	query, err := svc.GenerateEmbedding(ctx, "does exercise help with sleep")
	if err != nil {
		t.Fatalf("embedding query: %v", err)
	}

	r := New(&fakeStore{studies: studies}, nil, enc.dim, 1000)
	r.DetectMode(ctx)

	matches, _, err := r.Rank(ctx, query, Options{Limit: 5, MinScore: 0.0})
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("expected at least one match")
	}
	if matches[0].Study.ID != "sleep" {
		t.Errorf("top match = %s, want the sleep study", matches[0].Study.ID)
	}

	var sleepScore, rainScore float64
	for _, m := range matches {
		switch m.Study.ID {
		case "sleep":
			sleepScore = m.Score
		case "rain":
			rainScore = m.Score
		}
	}
	if sleepScore <= rainScore {
		t.Errorf("sleep study score %f not above rainfall control %f", sleepScore, rainScore)
	}
}
