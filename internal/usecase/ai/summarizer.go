package ai

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/johnquangdev/meeting-knowledge/errors"
	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
	pkgai "github.com/johnquangdev/meeting-knowledge/pkg/ai"
	"github.com/johnquangdev/meeting-knowledge/pkg/config"
)

// NewRateLimiter builds the process-wide token bucket shared by every summarization
func NewRateLimiter(cfg config.SummarizerConfig) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst)
}

// Summarizer runs chunked map-reduce summarization under a shared rate limit
type Summarizer struct {
	generator   pkgai.Generator
	limiter     *rate.Limiter
	splitter    textsplitter.RecursiveCharacter
	concurrency int
	logger      *zap.Logger
}

// NewSummarizer creates a summarizer. limiter must be shared across callers.
func NewSummarizer(generator pkgai.Generator, limiter *rate.Limiter, cfg config.SummarizerConfig, logger *zap.Logger) *Summarizer {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Summarizer{
		generator: generator,
		limiter:   limiter,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(cfg.ChunkSize),
			textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
		),
		concurrency: concurrency,
		logger:      logger,
	}
}

// Summarize returns the reduce output as Summary and the per-chunk summaries,
// joined by newline in chunk order, as DetailedSummary.
// Empty input yields an empty result without any model call.
func (s *Summarizer) Summarize(ctx context.Context, text string) (*entities.SummaryResult, error) {
	if strings.TrimSpace(text) == "" {
		return &entities.SummaryResult{}, nil
	}

	chunks, err := s.splitter.SplitText(text)
	if err != nil {
		return nil, errors.ErrSummarizationFailed(err)
	}
	if len(chunks) == 0 {
		return &entities.SummaryResult{}, nil
	}

	if s.logger != nil {
		s.logger.Info("🧩 Summarizing transcript",
			zap.Int("chunks", len(chunks)),
			zap.Int("text_length", len(text)),
		)
	}

	partials := make([]string, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			out, err := s.generate(gctx, mapPrompt(chunk))
			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Chunk summary failed",
						zap.Int("chunk", i),
						zap.Error(err),
					)
				}
				return err
			}
			partials[i] = strings.TrimSpace(out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.ErrSummarizationFailed(err)
	}

	summary, err := s.generate(ctx, reducePrompt(strings.Join(partials, "\n\n")))
	if err != nil {
		return nil, errors.ErrSummarizationFailed(err)
	}

	return &entities.SummaryResult{
		Summary:         strings.TrimSpace(summary),
		DetailedSummary: strings.Join(partials, "\n"),
		ChunkCount:      len(chunks),
	}, nil
}

// generate waits for a token from the shared bucket before calling the model
func (s *Summarizer) generate(ctx context.Context, prompt string) (string, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	out, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", errors.ErrGenerationFailed(err)
	}
	return out, nil
}
