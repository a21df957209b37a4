// ABOUTME: OpenAI client implementing the encoder backend for embeddings and entailment
// ABOUTME: Uses text-embedding-3-small for vectors, gpt-4o-mini for claim support scoring (configurable)
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sciencedecoder/decoder/internal/util"
)

const (
	// DefaultChatModel is the default model for entailment scoring
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = openai.SmallEmbedding3

	// maxStudyExcerpt caps the study text sent to the entailment scorer.
	maxStudyExcerpt = 6000
)

// Encoder is the black-box encoder backend consumed by the embedder and the
// claim pipeline. Changing the underlying model identifier invalidates all
// previously stored vectors; the core does not version-stamp stored vectors.
type Encoder interface {
	// Encode returns a raw embedding vector for the given text.
	Encode(ctx context.Context, text string) ([]float64, error)
	// Entail returns the probability in [0,1] that the study text supports
	// the claim text.
	Entail(ctx context.Context, claimText, studyText string) (float64, error)
}

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel openai.EmbeddingModel
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:         apiKey,
		ChatModel:      DefaultChatModel,
		EmbeddingModel: DefaultEmbeddingModel,
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		RetryDelay:     time.Second * 2,
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIClient{
		client:         openai.NewClient(config.APIKey),
		chatModel:      config.ChatModel,
		embeddingModel: config.EmbeddingModel,
		timeout:        timeout,
		maxRetries:     config.MaxRetries,
		retryDelay:     config.RetryDelay,
	}, nil
}

// Encode generates an embedding vector for the given text
func (c *OpenAIClient) Encode(ctx context.Context, text string) ([]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(util.CalculateBackoff(c.retryDelay, attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)

		resp, err := c.client.CreateEmbeddings(attemptCtx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: c.embeddingModel,
		})

		if err != nil {
			cancel()
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Data) == 0 {
			cancel()
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		// Convert []float32 to []float64
		embedding32 := resp.Data[0].Embedding
		embedding64 := make([]float64, len(embedding32))
		for i, v := range embedding32 {
			embedding64[i] = float64(v)
		}

		cancel()
		return embedding64, nil
	}

	return nil, fmt.Errorf("failed to generate embedding after %d attempts: %w", c.maxRetries+1, lastErr)
}

const entailmentSystemPrompt = `You are a scientific claim verification assistant. Given a CLAIM and a STUDY excerpt, estimate the probability that the study supports the claim.

Return ONLY a JSON object: {"support_probability": <number between 0.0 and 1.0>}
- 1.0 means the study directly and unambiguously supports the claim
- 0.5 means the study is related but neither supports nor contradicts it
- 0.0 means the study is unrelated or contradicts the claim
No additional text.`

// Entail scores how strongly the study text supports the claim text,
// returning a probability in [0,1].
func (c *OpenAIClient) Entail(ctx context.Context, claimText, studyText string) (float64, error) {
	excerpt := studyText
	if len(excerpt) > maxStudyExcerpt {
		excerpt = excerpt[:maxStudyExcerpt]
	}

	userPrompt := fmt.Sprintf("CLAIM:\n%s\n\nSTUDY:\n%s", claimText, excerpt)

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(util.CalculateBackoff(c.retryDelay, attempt)):
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)

		resp, err := c.client.CreateChatCompletion(attemptCtx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: entailmentSystemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: userPrompt,
				},
			},
			Temperature: 0,
		})

		if err != nil {
			cancel()
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Choices) == 0 {
			cancel()
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}

		score, err := parseSupportProbability(resp.Choices[0].Message.Content)
		if err != nil {
			cancel()
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		cancel()
		return score, nil
	}

	return 0, fmt.Errorf("failed to score entailment after %d attempts: %w", c.maxRetries+1, lastErr)
}

// parseSupportProbability extracts the support probability from the model
// response, tolerating markdown code fences, and clamps it to [0,1].
func parseSupportProbability(content string) (float64, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var out struct {
		SupportProbability float64 `json:"support_probability"`
	}
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return 0, fmt.Errorf("failed to parse entailment response %q: %w", content, err)
	}

	score := out.SupportProbability
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, nil
}
