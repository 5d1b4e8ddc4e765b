package scenario

import "errors"

var (
	// ErrEmptyGraph indicates a traversal was requested on a graph with no nodes.
	ErrEmptyGraph = errors.New("scenario graph has no nodes")
	// ErrUnknownNode indicates a choice pointed at a node id absent from the graph.
	ErrUnknownNode = errors.New("choice target not present in graph")
)

// Step records one traversed choice edge.
type Step struct {
	From   string `json:"from"`
	Choice string `json:"choice"`
	To     string `json:"to"`
}

// Traversal is the navigation state over one graph. VisitedIDs is
// append-only with dedup only at the tail; its last element always
// equals CurrentNodeID once a graph is loaded.
type Traversal struct {
	CurrentNodeID string   `json:"currentNodeId"`
	VisitedIDs    []string `json:"visitedIds"`
	Path          []Step   `json:"path"`
}

// ResetTraversal initializes a traversal at the graph's first node,
// discarding any prior path and visited history.
func ResetTraversal(g *Graph) (*Traversal, error) {
	if g.IsEmpty() {
		return nil, ErrEmptyGraph
	}
	first := g.Nodes[0].ID
	return &Traversal{
		CurrentNodeID: first,
		VisitedIDs:    []string{first},
	}, nil
}

// Choose advances the traversal along a choice edge. The target must be
// a node present in the graph; dangling references are rejected.
func (t *Traversal) Choose(g *Graph, choiceLabel, targetNodeID string) error {
	if !g.Contains(targetNodeID) {
		return ErrUnknownNode
	}

	t.Path = append(t.Path, Step{From: t.CurrentNodeID, Choice: choiceLabel, To: targetNodeID})
	t.CurrentNodeID = targetNodeID

	// Idempotent re-entry guard: only the tail is deduplicated.
	if n := len(t.VisitedIDs); n == 0 || t.VisitedIDs[n-1] != targetNodeID {
		t.VisitedIDs = append(t.VisitedIDs, targetNodeID)
	}
	return nil
}

// IsTerminal reports whether the current node has no outgoing choices.
func (t *Traversal) IsTerminal(g *Graph) bool {
	node, ok := g.Node(t.CurrentNodeID)
	if !ok {
		return false
	}
	return node.IsTerminal()
}
