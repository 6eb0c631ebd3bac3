package ai

import (
	"context"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
	pkgai "github.com/johnquangdev/meeting-knowledge/pkg/ai"
)

const (
	actionItemCount    = 2
	actionItemMaxWords = 4
)

// FallbackActionItems are used whenever the model call or its output fails
var FallbackActionItems = []string{"Review meeting notes", "Schedule next steps"}

// ActionItemGenerator derives a fixed number of short action items from a summary
type ActionItemGenerator struct {
	generator pkgai.Generator
	logger    *zap.Logger
}

// NewActionItemGenerator creates an action item generator
func NewActionItemGenerator(generator pkgai.Generator, logger *zap.Logger) *ActionItemGenerator {
	return &ActionItemGenerator{generator: generator, logger: logger}
}

// Generate always returns exactly two uncompleted items; failures fall back to static items
func (g *ActionItemGenerator) Generate(ctx context.Context, meetingID, summary string) []*entities.ActionItem {
	descriptions := g.describe(ctx, summary)

	items := make([]*entities.ActionItem, 0, len(descriptions))
	for _, d := range descriptions {
		items = append(items, entities.NewActionItem(meetingID, d))
	}
	return items
}

func (g *ActionItemGenerator) describe(ctx context.Context, summary string) []string {
	out, err := g.generator.Generate(ctx, actionItemsPrompt(summary))
	if err != nil {
		g.warn("⚠️ Action item generation failed, using fallback", err)
		return FallbackActionItems
	}

	parsed, err := parseActionItems(out)
	if err != nil {
		g.warn("⚠️ Malformed action items, using fallback", err)
		return FallbackActionItems
	}
	if len(parsed) < actionItemCount {
		g.warn("⚠️ Too few action items, using fallback", nil)
		return FallbackActionItems
	}

	descriptions := make([]string, 0, actionItemCount)
	for _, d := range parsed[:actionItemCount] {
		descriptions = append(descriptions, limitWords(d, actionItemMaxWords))
	}
	return descriptions
}

func (g *ActionItemGenerator) warn(msg string, err error) {
	if g.logger == nil {
		return
	}
	if err != nil {
		g.logger.Warn(msg, zap.Error(err))
		return
	}
	g.logger.Warn(msg)
}
