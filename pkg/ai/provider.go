package ai

import (
	"context"
	"fmt"
	"io"

	"github.com/johnquangdev/meeting-knowledge/pkg/config"
)

// Embedder converts text into a fixed-length vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces text from a single prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Transcriber turns an audio stream into transcript lines
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader) ([]string, error)
}

// Providers bundles the model clients built once at startup
type Providers struct {
	Embedder  Embedder
	Chat      Generator // chat, action items, concept graph
	Summaries Generator // map-reduce summarization
}

// NewProviders builds embedding and generation clients for the configured provider.
// Groq has no embedding endpoint, so AI_PROVIDER=groq still embeds through Gemini.
func NewProviders(ctx context.Context, cfg *config.Config) (*Providers, error) {
	switch cfg.AI.Provider {
	case "gemini":
		embedder, err := NewGeminiEmbedder(ctx, &cfg.AI)
		if err != nil {
			return nil, err
		}
		chat, err := NewGeminiGenerator(ctx, &cfg.AI, cfg.AI.ChatModel)
		if err != nil {
			return nil, err
		}
		summaries, err := NewGeminiGenerator(ctx, &cfg.AI, cfg.AI.SummaryModel)
		if err != nil {
			return nil, err
		}
		return &Providers{Embedder: embedder, Chat: chat, Summaries: summaries}, nil

	case "openai":
		embedder, err := NewOpenAIEmbedder(&cfg.AI)
		if err != nil {
			return nil, err
		}
		chat, err := NewOpenAIGenerator(&cfg.AI, cfg.AI.ChatModel)
		if err != nil {
			return nil, err
		}
		summaries, err := NewOpenAIGenerator(&cfg.AI, cfg.AI.SummaryModel)
		if err != nil {
			return nil, err
		}
		return &Providers{Embedder: embedder, Chat: chat, Summaries: summaries}, nil

	case "groq":
		embedder, err := NewGeminiEmbedder(ctx, &cfg.AI)
		if err != nil {
			return nil, err
		}
		groq := NewGroqClient(&cfg.Groq, cfg.AI.RequestTimeout)
		return &Providers{Embedder: embedder, Chat: groq, Summaries: groq}, nil
	}
	return nil, fmt.Errorf("unsupported AI provider %q", cfg.AI.Provider)
}
