package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"docdigest/internal/apperrors"
)

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	ExpectedSize   int
	MaxTokens      int
	Limiter        *rate.Limiter
}

// GeminiClient generates completions and embeddings through the Gemini API.
type GeminiClient struct {
	client         *genai.Client
	model          string
	embeddingModel string
	expectedSize   int
	maxTokens      int
	limiter        *rate.Limiter
}

// NewGeminiClient creates a Gemini client. Extra client options are passed to
// the underlying SDK after the API key.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, opts ...option.ClientOption) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", apperrors.ErrConfig)
	}
	if cfg.Model == "" || cfg.EmbeddingModel == "" {
		return nil, fmt.Errorf("%w: gemini model and embedding model are required", apperrors.ErrConfig)
	}

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &GeminiClient{
		client:         client,
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		expectedSize:   cfg.ExpectedSize,
		maxTokens:      maxTokens,
		limiter:        cfg.Limiter,
	}, nil
}

// Close releases the underlying connection.
func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// EmbedText generates the embedding of a single text.
func (g *GeminiClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := checkInput(text, g.maxTokens); err != nil {
		return nil, err
	}
	if err := wait(ctx, g.limiter); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	res, err := g.client.EmbeddingModel(g.embeddingModel).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embed content: %w", err)
	}
	if res == nil || res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini returned no embedding")
	}
	if g.expectedSize > 0 && len(res.Embedding.Values) != g.expectedSize {
		return nil, fmt.Errorf("embedding has size %d, expected %d", len(res.Embedding.Values), g.expectedSize)
	}
	return res.Embedding.Values, nil
}

// Complete generates a reply to prompt.
func (g *GeminiClient) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(opts.Temperature)
	if opts.SystemMessage != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(opts.SystemMessage)}}
	}

	if err := wait(ctx, g.limiter); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return responseText(resp)
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return "", fmt.Errorf("candidate has no content")
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}
