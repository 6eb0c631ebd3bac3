package entities

// ConceptNodeType is the kind of a concept graph node
type ConceptNodeType string

const (
	ConceptNodeConcept ConceptNodeType = "concept"
	ConceptNodeTopic   ConceptNodeType = "topic"
	ConceptNodeAction  ConceptNodeType = "action"
)

// ConceptEdgeType is the kind of relation between two nodes
type ConceptEdgeType string

const (
	ConceptEdgeRelated  ConceptEdgeType = "related"
	ConceptEdgeSubTopic ConceptEdgeType = "subTopic"
	ConceptEdgeImplies  ConceptEdgeType = "implies"
)

// ConceptNode is a concept extracted from a meeting transcript
type ConceptNode struct {
	ID          string          `json:"id"`
	Text        string          `json:"text"`
	Type        ConceptNodeType `json:"type"`
	Importance  int             `json:"importance"`
	StartTime   *int64          `json:"start_time,omitempty"`
	EndTime     *int64          `json:"end_time,omitempty"`
	TextSnippet string          `json:"text_snippet,omitempty"`
}

// ConceptEdge links two nodes by id
type ConceptEdge struct {
	Source   string          `json:"source"`
	Target   string          `json:"target"`
	Type     ConceptEdgeType `json:"type"`
	Strength int             `json:"strength"`
}

// ConceptGraph is the response of the concept graph synthesizer
type ConceptGraph struct {
	Nodes []ConceptNode `json:"nodes"`
	Edges []ConceptEdge `json:"edges"`
}

// EmptyConceptGraph returns a graph with non-nil empty slices
func EmptyConceptGraph() *ConceptGraph {
	return &ConceptGraph{Nodes: []ConceptNode{}, Edges: []ConceptEdge{}}
}
