package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/johnquangdev/meeting-knowledge/pkg/config"
)

// LLMGenerator adapts a langchaingo model to Generator
type LLMGenerator struct {
	llm     llms.Model
	model   string
	timeout time.Duration
}

// NewLLMGenerator wraps any langchaingo model
func NewLLMGenerator(llm llms.Model, model string, timeout time.Duration) *LLMGenerator {
	return &LLMGenerator{llm: llm, model: model, timeout: timeout}
}

// Generate sends the prompt as a single human message and returns the text verbatim
func (g *LLMGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("generate with %s: %w", g.model, err)
	}
	return out, nil
}

// Model returns the model name used for generation
func (g *LLMGenerator) Model() string {
	return g.model
}

// LLMEmbedder adapts a langchaingo embedder to Embedder
type LLMEmbedder struct {
	embedder embeddings.Embedder
	timeout  time.Duration
}

// NewLLMEmbedder builds an embedder on top of any langchaingo embedding client
func NewLLMEmbedder(client embeddings.EmbedderClient, timeout time.Duration) (*LLMEmbedder, error) {
	e, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return &LLMEmbedder{embedder: e, timeout: timeout}, nil
}

// Embed returns the query embedding of text
func (e *LLMEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	v, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("embed: empty vector")
	}
	return v, nil
}

// NewGeminiGenerator creates a Gemini-backed generator for model
func NewGeminiGenerator(ctx context.Context, cfg *config.AIConfig, model string) (*LLMGenerator, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(model),
		googleai.WithDefaultEmbeddingModel(cfg.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return NewLLMGenerator(llm, model, cfg.RequestTimeout), nil
}

// NewGeminiEmbedder creates a Gemini text-embedding client
func NewGeminiEmbedder(ctx context.Context, cfg *config.AIConfig) (*LLMEmbedder, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultEmbeddingModel(cfg.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return NewLLMEmbedder(llm, cfg.RequestTimeout)
}

func openAIOptions(cfg *config.AIConfig) []openai.Option {
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithEmbeddingModel(cfg.EmbeddingModel),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	return opts
}

// NewOpenAIGenerator creates a generator for any OpenAI-compatible endpoint
func NewOpenAIGenerator(cfg *config.AIConfig, model string) (*LLMGenerator, error) {
	llm, err := openai.New(append(openAIOptions(cfg), openai.WithModel(model))...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return NewLLMGenerator(llm, model, cfg.RequestTimeout), nil
}

// NewOpenAIEmbedder creates an embedder for any OpenAI-compatible endpoint
func NewOpenAIEmbedder(cfg *config.AIConfig) (*LLMEmbedder, error) {
	llm, err := openai.New(openAIOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return NewLLMEmbedder(llm, cfg.RequestTimeout)
}
