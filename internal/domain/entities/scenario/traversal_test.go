package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearRecord(paragraphs ...string) RawRecord {
	return RawRecord{ID: "sc1", Title: "洪水シナリオ", Narrative: paragraphs}
}

func TestBuildGraphSynthesizesLinearChain(t *testing.T) {
	g := BuildGraph(linearRecord("A", "B", "C"))

	require.Len(t, g.Nodes, 3)
	assert.Equal(t, "s1", g.Nodes[0].ID)
	assert.Equal(t, "s2", g.Nodes[1].ID)
	assert.Equal(t, "s3", g.Nodes[2].ID)

	require.Len(t, g.Nodes[0].Choices, 1)
	assert.Equal(t, "次へ", g.Nodes[0].Choices[0].Label)
	assert.Equal(t, "s2", g.Nodes[0].Choices[0].Next)

	assert.Empty(t, g.Nodes[2].Choices, "last paragraph must be terminal")

	terminals := 0
	for _, n := range g.Nodes {
		if n.IsTerminal() {
			terminals++
		}
	}
	assert.Equal(t, 1, terminals, "a linear chain has exactly one terminal node")
}

func TestBuildGraphUsesExplicitFlow(t *testing.T) {
	rec := RawRecord{
		ID: "sc2",
		Flow: []Node{
			{ID: "start", Text: "...", Choices: []Choice{{Label: "逃げる", Next: "end"}}},
			{ID: "end", Text: "..."},
		},
		Narrative: []string{"ignored when flow is present"},
	}

	g := BuildGraph(rec)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "start", g.Nodes[0].ID)
	assert.True(t, g.Contains("end"))
}

func TestResetTraversal(t *testing.T) {
	g := BuildGraph(linearRecord("A", "B"))

	tr, err := ResetTraversal(g)
	require.NoError(t, err)
	assert.Equal(t, "s1", tr.CurrentNodeID)
	assert.Equal(t, []string{"s1"}, tr.VisitedIDs)
	assert.Empty(t, tr.Path)
}

func TestResetTraversalEmptyGraph(t *testing.T) {
	g := BuildGraph(RawRecord{ID: "empty"})

	_, err := ResetTraversal(g)
	assert.ErrorIs(t, err, ErrEmptyGraph)
}

func TestChooseExtendsPathAndVisited(t *testing.T) {
	g := BuildGraph(linearRecord("A", "B", "C"))
	tr, err := ResetTraversal(g)
	require.NoError(t, err)

	require.NoError(t, tr.Choose(g, "次へ", "s2"))
	require.NoError(t, tr.Choose(g, "次へ", "s3"))

	assert.Equal(t, []string{"s1", "s2", "s3"}, tr.VisitedIDs)
	require.Len(t, tr.Path, 2)
	assert.Equal(t, Step{From: "s1", Choice: "次へ", To: "s2"}, tr.Path[0])
	assert.Equal(t, Step{From: "s2", Choice: "次へ", To: "s3"}, tr.Path[1])
	assert.True(t, tr.IsTerminal(g))
}

func TestChooseDeduplicatesTailOnly(t *testing.T) {
	g := BuildGraph(RawRecord{
		ID: "loop",
		Flow: []Node{
			{ID: "a", Choices: []Choice{{Label: "stay", Next: "a"}, {Label: "go", Next: "b"}}},
			{ID: "b", Choices: []Choice{{Label: "back", Next: "a"}}},
		},
	})
	tr, err := ResetTraversal(g)
	require.NoError(t, err)

	require.NoError(t, tr.Choose(g, "stay", "a"))
	assert.Equal(t, []string{"a"}, tr.VisitedIDs, "re-entering the tail node must not duplicate it")

	require.NoError(t, tr.Choose(g, "go", "b"))
	require.NoError(t, tr.Choose(g, "back", "a"))
	assert.Equal(t, []string{"a", "b", "a"}, tr.VisitedIDs, "only the tail is deduplicated")
	assert.Len(t, tr.Path, 3)
}

func TestChooseRejectsDanglingTarget(t *testing.T) {
	g := BuildGraph(linearRecord("A", "B"))
	tr, err := ResetTraversal(g)
	require.NoError(t, err)

	err = tr.Choose(g, "次へ", "nope")
	assert.ErrorIs(t, err, ErrUnknownNode)
	assert.Equal(t, "s1", tr.CurrentNodeID, "failed choice must not advance")
	assert.Empty(t, tr.Path)
}

func TestFilterByAudience(t *testing.T) {
	records := []RawRecord{
		{ID: "a", Type: "flood_simplified"},
		{ID: "b", Type: "flood_detailed"},
		{ID: "c", Audience: AudienceGeneral},
	}

	general := FilterByAudience(records, AudienceGeneral)
	require.Len(t, general, 2)
	assert.Equal(t, "a", general[0].ID)
	assert.Equal(t, "c", general[1].ID)

	expert := FilterByAudience(records, AudienceExpert)
	require.Len(t, expert, 1)
	assert.Equal(t, "b", expert[0].ID)
}

func TestFilterByAudienceFallsBackToUnfiltered(t *testing.T) {
	records := []RawRecord{
		{ID: "a", Type: "flood_simplified"},
		{ID: "b", Type: "flood_simplified"},
	}

	expert := FilterByAudience(records, AudienceExpert)
	assert.Len(t, expert, 2, "no tier match must fall back to the full list")
}
