package ai

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/johnquangdev/meeting-knowledge/errors"
	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
)

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}

// extractJSONObject returns the substring from the first '{' to the last '}',
// tolerating fences and prose around the object.
func extractJSONObject(content string) (string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return "", errors.ErrParseFailed(stdErrors.New("no JSON object in response"))
	}
	return content[start : end+1], nil
}

type actionItemJSON struct {
	Description string `json:"description"`
}

// parseActionItems decodes the model's JSON array of action item descriptions
func parseActionItems(content string) ([]string, error) {
	var raw []actionItemJSON
	if err := json.Unmarshal([]byte(extractJSON(content)), &raw); err != nil {
		return nil, errors.ErrParseFailed(fmt.Errorf("action items: %w", err))
	}

	descriptions := make([]string, 0, len(raw))
	for _, item := range raw {
		if d := strings.TrimSpace(item.Description); d != "" {
			descriptions = append(descriptions, d)
		}
	}
	return descriptions, nil
}

// flexibleID accepts node ids encoded either as JSON strings or numbers
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %s", data)
	}
	*f = flexibleID(n.String())
	return nil
}

type conceptNodeJSON struct {
	ID         flexibleID `json:"id"`
	Text       string     `json:"text"`
	Type       string     `json:"type"`
	Importance float64    `json:"importance"`
}

type conceptEdgeJSON struct {
	Source   flexibleID `json:"source"`
	Target   flexibleID `json:"target"`
	Type     string     `json:"type"`
	Strength float64    `json:"strength"`
}

// parseConceptGraph decodes and normalizes a generated concept graph.
// Both top-level keys are required.
func parseConceptGraph(content string) (*entities.ConceptGraph, error) {
	object, err := extractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(object), &top); err != nil {
		return nil, errors.ErrParseFailed(fmt.Errorf("concept graph: %w", err))
	}
	rawNodes, hasNodes := top["nodes"]
	rawEdges, hasEdges := top["edges"]
	if !hasNodes || !hasEdges {
		return nil, errors.ErrParseFailed(stdErrors.New("concept graph must contain nodes and edges"))
	}

	var nodes []conceptNodeJSON
	if err := json.Unmarshal(rawNodes, &nodes); err != nil {
		return nil, errors.ErrParseFailed(fmt.Errorf("invalid nodes: %w", err))
	}
	var edges []conceptEdgeJSON
	if err := json.Unmarshal(rawEdges, &edges); err != nil {
		return nil, errors.ErrParseFailed(fmt.Errorf("invalid edges: %w", err))
	}

	graph := entities.EmptyConceptGraph()
	known := make(map[string]bool, len(nodes))
	for i, n := range nodes {
		id := strings.TrimSpace(string(n.ID))
		if id == "" {
			id = strconv.Itoa(i)
		}
		if known[id] || strings.TrimSpace(n.Text) == "" {
			continue
		}
		known[id] = true
		graph.Nodes = append(graph.Nodes, entities.ConceptNode{
			ID:         id,
			Text:       strings.TrimSpace(n.Text),
			Type:       normalizeNodeType(n.Type),
			Importance: clampScore(n.Importance),
		})
	}
	for _, e := range edges {
		source, target := string(e.Source), string(e.Target)
		if !known[source] || !known[target] {
			continue
		}
		graph.Edges = append(graph.Edges, entities.ConceptEdge{
			Source:   source,
			Target:   target,
			Type:     normalizeEdgeType(e.Type),
			Strength: clampScore(e.Strength),
		})
	}
	return graph, nil
}

func normalizeNodeType(t string) entities.ConceptNodeType {
	switch entities.ConceptNodeType(strings.ToLower(strings.TrimSpace(t))) {
	case entities.ConceptNodeTopic:
		return entities.ConceptNodeTopic
	case entities.ConceptNodeAction:
		return entities.ConceptNodeAction
	}
	return entities.ConceptNodeConcept
}

func normalizeEdgeType(t string) entities.ConceptEdgeType {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "subtopic":
		return entities.ConceptEdgeSubTopic
	case "implies":
		return entities.ConceptEdgeImplies
	}
	return entities.ConceptEdgeRelated
}

// clampScore maps importance/strength into 1..10, defaulting to 5
func clampScore(v float64) int {
	if v == 0 {
		return 5
	}
	n := int(v + 0.5)
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

// truncateRunes cuts s to at most n characters without splitting a rune
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// limitWords keeps at most n whitespace-separated words
func limitWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
