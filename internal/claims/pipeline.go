// ABOUTME: Claim verification pipeline: retrieve evidence, score entailment
// ABOUTME: Produces NoEvidence or Scored outcomes, never silently drops claims
package claims

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/sciencedecoder/decoder/internal/config"
	"github.com/sciencedecoder/decoder/internal/embedder"
	"github.com/sciencedecoder/decoder/internal/llm"
	"github.com/sciencedecoder/decoder/internal/models"
	"github.com/sciencedecoder/decoder/internal/ranker"
	"github.com/sciencedecoder/decoder/internal/util"
)

// noEvidenceNote is the explanatory note for claims with no retrieved studies.
const noEvidenceNote = "No relevant scientific studies found."

// weakEvidenceNote is the explanatory note for claims whose candidates all
// scored below the confidence threshold.
const weakEvidenceNote = "No strong supporting evidence found in provided studies."

// Retriever finds corpus studies relevant to a claim. Tests inject fakes;
// production wiring uses CorpusRetriever.
type Retriever interface {
	FindRelevantStudies(ctx context.Context, claimText string, limit int) ([]models.SimilarityMatch, error)
}

// CorpusRetriever retrieves evidence by embedding the claim text and ranking
// it against the study corpus.
type CorpusRetriever struct {
	embedder *embedder.Service
	ranker   *ranker.Ranker
	minScore float64
}

// NewCorpusRetriever creates the production retriever.
func NewCorpusRetriever(svc *embedder.Service, r *ranker.Ranker, minScore float64) *CorpusRetriever {
	return &CorpusRetriever{embedder: svc, ranker: r, minScore: minScore}
}

// FindRelevantStudies embeds the claim and returns ranked corpus matches at
// or above the configured similarity floor.
func (c *CorpusRetriever) FindRelevantStudies(ctx context.Context, claimText string, limit int) ([]models.SimilarityMatch, error) {
	vec, err := c.embedder.GenerateEmbedding(ctx, claimText)
	if err != nil {
		return nil, fmt.Errorf("embedding claim: %w", err)
	}
	matches, _, err := c.ranker.Rank(ctx, vec, ranker.Options{
		Limit:    limit,
		MinScore: c.minScore,
	})
	if err != nil {
		return nil, fmt.Errorf("ranking claim against corpus: %w", err)
	}
	return matches, nil
}

// Pipeline verifies claims extracted from article text.
type Pipeline struct {
	retriever      Retriever
	encoder        llm.Encoder
	pool           *util.WorkerPool
	indicators     []string
	candidateLimit int
	minConfidence  float64
}

// NewPipeline creates a claim verification pipeline. The worker pool is
// shared with the embedder so the total number of in-flight backend calls
// stays bounded.
func NewPipeline(retriever Retriever, encoder llm.Encoder, pool *util.WorkerPool, cfg *config.Config) *Pipeline {
	return &Pipeline{
		retriever:      retriever,
		encoder:        encoder,
		pool:           pool,
		indicators:     cfg.ClaimIndicators,
		candidateLimit: cfg.DefaultSearchLimit,
		minConfidence:  cfg.MinClaimConfidence,
	}
}

// ExtractClaims runs the indicator heuristic with the configured phrases.
func (p *Pipeline) ExtractClaims(text string) []models.Claim {
	return ExtractClaims(text, p.indicators)
}

// ScoreEntailment asks the encoder backend how strongly a study supports a
// claim, offloaded through the shared pool.
func (p *Pipeline) ScoreEntailment(ctx context.Context, claimText, studyText string) (float64, error) {
	var score float64
	err := p.pool.Do(ctx, func() error {
		var entailErr error
		score, entailErr = p.encoder.Entail(ctx, claimText, studyText)
		return entailErr
	})
	return score, err
}

// ProcessClaim verifies a single claim in place. A claim with no retrieved
// evidence ends as NoEvidence (confidence 0, explanatory note); a claim with
// candidates is always scored, so a sub-threshold best score still sets the
// confidence. Both outcomes stamp the processing time.
func (p *Pipeline) ProcessClaim(ctx context.Context, claim *models.Claim) error {
	matches, err := p.retriever.FindRelevantStudies(ctx, claim.Text, p.candidateLimit)
	if err != nil {
		return fmt.Errorf("retrieving evidence for claim %s: %w", claim.ID, err)
	}

	now := time.Now().UTC()
	if len(matches) == 0 {
		claim.RelatedStudyIDs = nil
		claim.ConfidenceScore = 0
		claim.Verified = false
		claim.VerificationNotes = noEvidenceNote
		claim.VerifiedAt = &now
		return nil
	}

	scores, err := p.scoreAll(ctx, claim.Text, matches)
	if err != nil {
		return fmt.Errorf("scoring claim %s: %w", claim.ID, err)
	}

	type scored struct {
		study models.Study
		score float64
	}
	results := make([]scored, len(matches))
	var best float64
	for i, m := range matches {
		results[i] = scored{study: m.Study, score: scores[i]}
		if scores[i] > best {
			best = scores[i]
		}
	}
	// Stable sort keeps retrieval order for candidates with equal entailment.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	claim.RelatedStudyIDs = make([]string, 0, len(results))
	var notes []string
	for _, r := range results {
		claim.RelatedStudyIDs = append(claim.RelatedStudyIDs, r.study.ID)
		if r.score >= p.minConfidence {
			notes = append(notes, fmt.Sprintf("Supported by %s (confidence: %.2f)", r.study.Title, r.score))
		}
	}

	claim.ConfidenceScore = best
	claim.Verified = best >= p.minConfidence
	if len(notes) == 0 {
		claim.VerificationNotes = weakEvidenceNote
	} else {
		claim.VerificationNotes = strings.Join(notes, "\n")
	}
	claim.VerifiedAt = &now
	return nil
}

// scoreAll scores every candidate concurrently through the shared pool.
func (p *Pipeline) scoreAll(ctx context.Context, claimText string, matches []models.SimilarityMatch) ([]float64, error) {
	scores := make([]float64, len(matches))
	errs := make([]error, len(matches))
	done := make(chan int, len(matches))

	for i := range matches {
		go func(i int) {
			defer func() { done <- i }()
			errs[i] = p.pool.Do(ctx, func() error {
				score, err := p.encoder.Entail(ctx, claimText, matches[i].Study.Text)
				if err != nil {
					return err
				}
				scores[i] = score
				return nil
			})
		}(i)
	}
	for range matches {
		<-done
	}
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("entailment for study %s: %w", matches[i].Study.ID, err)
		}
	}
	return scores, nil
}

// VerifyArticle extracts claims from the article text and verifies each one,
// storing the results on the article. Claims are processed sequentially;
// the fan-out happens per claim across its candidate studies.
func (p *Pipeline) VerifyArticle(ctx context.Context, article *models.Article) error {
	extracted := p.ExtractClaims(article.Text)
	log.Printf("Extracted %d claims from article %s", len(extracted), article.URL)

	for i := range extracted {
		if err := p.ProcessClaim(ctx, &extracted[i]); err != nil {
			return err
		}
	}
	article.Claims = extracted
	return nil
}
