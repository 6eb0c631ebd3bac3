package ai

import (
	"context"
	stdErrors "errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
	pkgai "github.com/johnquangdev/meeting-knowledge/pkg/ai"
	"github.com/johnquangdev/meeting-knowledge/pkg/config"
)

const (
	fallbackNodeTextLen = 50
	fallbackScore       = 5
)

var errNoNodes = stdErrors.New("concept graph has no nodes")

// ConceptGraphSynthesizer builds a small concept graph from transcript records
type ConceptGraphSynthesizer struct {
	generator pkgai.Generator
	cfg       config.ChatConfig
	logger    *zap.Logger
}

// NewConceptGraphSynthesizer creates a synthesizer; zero config values take defaults
func NewConceptGraphSynthesizer(generator pkgai.Generator, cfg config.ChatConfig, logger *zap.Logger) *ConceptGraphSynthesizer {
	if cfg.ConceptTextLimit <= 0 {
		cfg.ConceptTextLimit = 10000
	}
	if cfg.ConceptFallbackN <= 0 {
		cfg.ConceptFallbackN = 12
	}
	if cfg.ConceptSnippetLen <= 0 {
		cfg.ConceptSnippetLen = 100
	}
	return &ConceptGraphSynthesizer{generator: generator, cfg: cfg, logger: logger}
}

// Synthesize never fails: an empty transcript yields an empty graph and
// any generation or parse problem yields the deterministic chain graph.
func (c *ConceptGraphSynthesizer) Synthesize(ctx context.Context, records []entities.TranscriptionRecord) *entities.ConceptGraph {
	texts := make([]string, 0, len(records))
	for _, r := range records {
		texts = append(texts, r.Text)
	}
	transcript := truncateRunes(strings.Join(texts, "\n"), c.cfg.ConceptTextLimit)
	if strings.TrimSpace(transcript) == "" {
		return entities.EmptyConceptGraph()
	}

	graph, err := c.generate(ctx, transcript)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("⚠️ Concept graph generation failed, using fallback",
				zap.Int("segments", len(records)),
				zap.Error(err),
			)
		}
		return c.fallback(records)
	}

	c.enrich(graph, records)
	return graph
}

func (c *ConceptGraphSynthesizer) generate(ctx context.Context, transcript string) (*entities.ConceptGraph, error) {
	out, err := c.generator.Generate(ctx, conceptGraphPrompt(transcript))
	if err != nil {
		return nil, err
	}
	graph, err := parseConceptGraph(out)
	if err != nil {
		return nil, err
	}
	if len(graph.Nodes) == 0 {
		return nil, errNoNodes
	}
	return graph, nil
}

// enrich attaches the time window and a snippet of the first segment mentioning each node
func (c *ConceptGraphSynthesizer) enrich(graph *entities.ConceptGraph, records []entities.TranscriptionRecord) {
	lowered := make([]string, len(records))
	for i, r := range records {
		lowered[i] = strings.ToLower(r.Text)
	}

	for i := range graph.Nodes {
		node := &graph.Nodes[i]
		needle := strings.ToLower(node.Text)
		for j, text := range lowered {
			if !strings.Contains(text, needle) {
				continue
			}
			node.StartTime = records[j].StartTime
			node.EndTime = records[j].EndTime
			node.TextSnippet = truncateRunes(records[j].Text, c.cfg.ConceptSnippetLen)
			break
		}
	}
}

// fallback turns the first segments into a linear chain of concept nodes
func (c *ConceptGraphSynthesizer) fallback(records []entities.TranscriptionRecord) *entities.ConceptGraph {
	graph := entities.EmptyConceptGraph()

	n := len(records)
	if n > c.cfg.ConceptFallbackN {
		n = c.cfg.ConceptFallbackN
	}
	for i := 0; i < n; i++ {
		graph.Nodes = append(graph.Nodes, entities.ConceptNode{
			ID:         strconv.Itoa(i),
			Text:       truncateRunes(records[i].Text, fallbackNodeTextLen),
			Type:       entities.ConceptNodeConcept,
			Importance: fallbackScore,
		})
	}
	for i := 1; i < n; i++ {
		graph.Edges = append(graph.Edges, entities.ConceptEdge{
			Source:   strconv.Itoa(i - 1),
			Target:   strconv.Itoa(i),
			Type:     entities.ConceptEdgeRelated,
			Strength: fallbackScore,
		})
	}
	return graph
}
