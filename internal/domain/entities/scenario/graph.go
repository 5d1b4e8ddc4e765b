// Package scenario provides the branching-narrative node graph and its
// traversal state. Graphs are built from raw scenario records fetched from
// the backend: either an explicit node flow, or a linear chain synthesized
// from narrative paragraphs.
package scenario

import (
	"fmt"
	"strings"
)

// Audience tiers used to filter raw scenario records.
const (
	AudienceGeneral = "general"
	AudienceExpert  = "expert"
)

// continueLabel is the synthesized choice label between narrative paragraphs.
const continueLabel = "次へ"

// Choice is a single outgoing edge from a node.
type Choice struct {
	Label string `json:"label"`
	Next  string `json:"next"`
}

// Node is one narrative step. A node with no choices is terminal.
type Node struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Choices []Choice `json:"choices"`
}

// IsTerminal reports whether the node has no outgoing choices.
func (n *Node) IsTerminal() bool {
	return len(n.Choices) == 0
}

// RawRecord is a scenario record as returned by the scenario source.
type RawRecord struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Type       string   `json:"type"`
	Audience   string   `json:"audience"`
	SourceNote string   `json:"source_note"`
	Flow       []Node   `json:"flow"`
	Narrative  []string `json:"narrative"`
}

// Graph is a navigable scenario with indexed node lookup.
type Graph struct {
	ScenarioID string
	Title      string
	Summary    string
	SourceNote string
	Nodes      []Node

	index map[string]int
}

// FilterByAudience selects the raw records matching the audience tier.
// A record matches when its type tag contains the tier marker
// ("simplified" for general, "detailed" for expert) or its audience
// field matches exactly. If nothing matches, the full unfiltered list
// is returned so a tier switch never empties the scenario selection.
func FilterByAudience(records []RawRecord, audience string) []RawRecord {
	marker := "simplified"
	if audience == AudienceExpert {
		marker = "detailed"
	}

	var filtered []RawRecord
	for _, rec := range records {
		t := strings.ToLower(rec.Type)
		if strings.Contains(t, marker) || rec.Audience == audience {
			filtered = append(filtered, rec)
		}
	}

	if len(filtered) == 0 {
		return records
	}
	return filtered
}

// BuildGraph constructs a navigable graph from one raw record. An explicit
// flow is used as-is; otherwise a linear chain is synthesized from the
// narrative paragraphs, every paragraph but the last getting a single
// continue choice pointing at the next synthesized node.
func BuildGraph(rec RawRecord) *Graph {
	g := &Graph{
		ScenarioID: rec.ID,
		Title:      rec.Title,
		Summary:    rec.Summary,
		SourceNote: rec.SourceNote,
	}

	if len(rec.Flow) > 0 {
		g.Nodes = rec.Flow
	} else {
		for i, text := range rec.Narrative {
			node := Node{
				ID:   fmt.Sprintf("s%d", i+1),
				Text: text,
			}
			if i < len(rec.Narrative)-1 {
				node.Choices = []Choice{{Label: continueLabel, Next: fmt.Sprintf("s%d", i+2)}}
			}
			g.Nodes = append(g.Nodes, node)
		}
	}

	g.index = make(map[string]int, len(g.Nodes))
	for i, node := range g.Nodes {
		g.index[node.ID] = i
	}
	return g
}

// Node returns the node with the given id, if present.
func (g *Graph) Node(id string) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.Nodes[i], true
}

// Contains reports whether a node id is present in the graph.
func (g *Graph) Contains(id string) bool {
	_, ok := g.index[id]
	return ok
}

// IsEmpty reports whether the graph has no nodes.
func (g *Graph) IsEmpty() bool {
	return g == nil || len(g.Nodes) == 0
}
