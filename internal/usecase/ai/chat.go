package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-knowledge/errors"
	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
	"github.com/johnquangdev/meeting-knowledge/internal/usecase/collection"
	pkgai "github.com/johnquangdev/meeting-knowledge/pkg/ai"
	"github.com/johnquangdev/meeting-knowledge/pkg/config"
)

// ChatEngine answers questions about one meeting from its retrieved segments
type ChatEngine struct {
	collections *collection.Manager
	generator   pkgai.Generator
	cfg         config.ChatConfig
	logger      *zap.Logger
}

// NewChatEngine creates a retrieval-augmented chat engine
func NewChatEngine(collections *collection.Manager, generator pkgai.Generator, cfg config.ChatConfig, logger *zap.Logger) *ChatEngine {
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = 6
	}
	return &ChatEngine{collections: collections, generator: generator, cfg: cfg, logger: logger}
}

// Chat returns the model's reply verbatim, or NoContextReply without calling
// the model when no segment passes the score threshold.
func (e *ChatEngine) Chat(ctx context.Context, meetingID, prompt string, history []string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.ErrInvalidArgument("prompt must not be empty")
	}
	if !e.collections.Exists(ctx, meetingID) {
		return "", errors.ErrCollectionNotFound(meetingID)
	}

	hits, err := e.collections.Search(ctx, meetingID, prompt, 0, e.cfg.ScoreThreshold)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		if e.logger != nil {
			e.logger.Info("🔍 No relevant context found",
				zap.String("meeting_id", meetingID),
				zap.Float32("threshold", e.cfg.ScoreThreshold),
			)
		}
		return NoContextReply, nil
	}

	if len(history) > e.cfg.HistoryTurns {
		history = history[len(history)-e.cfg.HistoryTurns:]
	}
	contextLines := make([]string, 0, len(hits))
	for _, h := range hits {
		contextLines = append(contextLines, formatSegment(h.TranscriptionRecord))
	}

	reply, err := e.generator.Generate(ctx, chatPrompt(history, contextLines, prompt))
	if err != nil {
		return "", errors.ErrGenerationFailed(err)
	}

	if e.logger != nil {
		e.logger.Info("💬 Chat answered",
			zap.String("meeting_id", meetingID),
			zap.Int("context_segments", len(hits)),
		)
	}
	return reply, nil
}

// formatSegment renders "<start> - <end>: <text>"; PDF lines have no time window
func formatSegment(r entities.TranscriptionRecord) string {
	if r.StartTime == nil || r.EndTime == nil {
		return "PDF: " + r.Text
	}
	return fmt.Sprintf("%d - %d: %s", *r.StartTime, *r.EndTime, r.Text)
}
