package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNodeIdempotent(t *testing.T) {
	g := New("test")

	a := g.AddNode("accounts/alice")
	b := g.AddNode("accounts/bob")
	again := g.AddNode("accounts/alice")

	assert.Equal(t, a.ID(), again.ID())
	assert.Equal(t, "accounts/alice", again.Identity())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, g.Order())
}

func TestInsertionOrderIDs(t *testing.T) {
	g := New("test")

	identities := []string{"accounts/c", "accounts/a", "accounts/b"}
	for i, identity := range identities {
		n := g.AddNode(identity)
		assert.Equal(t, int64(i), n.ID())
	}

	nodes := g.Nodes()
	require.Len(t, nodes, 3)
	for i, n := range nodes {
		assert.Equal(t, identities[i], n.Identity())
	}
}

func TestNodeLookup(t *testing.T) {
	g := New("test")
	g.AddNode("accounts/alice")

	n, ok := g.Node("accounts/alice")
	require.True(t, ok)
	assert.Equal(t, int64(0), n.ID())
	assert.True(t, g.Has("accounts/alice"))

	_, ok = g.Node("accounts/missing")
	assert.False(t, ok)
	assert.False(t, g.Has("accounts/missing"))
}

func TestAddLineImplicitEndpoints(t *testing.T) {
	g := New("test")

	l := g.AddLine("accounts/alice", "accounts/bob", 42.5)

	assert.Equal(t, 2, g.Order())
	assert.Equal(t, 1, g.Size())
	assert.Equal(t, "accounts/alice", l.From.Identity())
	assert.Equal(t, "accounts/bob", l.To.Identity())
	assert.Equal(t, 42.5, l.Weight)
}

func TestParallelEdgesAndSelfLoops(t *testing.T) {
	g := New("test")

	g.AddLine("accounts/alice", "accounts/bob", 1)
	g.AddLine("accounts/alice", "accounts/bob", 2)
	g.AddLine("accounts/alice", "accounts/alice", 3)

	assert.Equal(t, 2, g.Order())
	assert.Equal(t, 3, g.Size())

	lines := g.Lines()
	require.Len(t, lines, 3)

	weights := make(map[float64]bool)
	for _, l := range lines {
		weights[l.Weight] = true
	}
	assert.True(t, weights[1] && weights[2] && weights[3])
}

func TestLinesDeterministic(t *testing.T) {
	build := func() *Graph {
		g := New("test")
		g.AddLine("a/1", "a/2", 1)
		g.AddLine("a/3", "a/1", 2)
		g.AddLine("a/2", "a/3", 3)
		g.AddLine("a/1", "a/2", 4)
		g.AddLine("a/2", "a/2", 5)
		return g
	}

	first := build().Lines()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, build().Lines())
	}

	// Ordered by from ID, then to ID, then line UID.
	for i := 1; i < len(first); i++ {
		a, b := first[i-1], first[i]
		less := a.From.ID() < b.From.ID() ||
			(a.From.ID() == b.From.ID() && a.To.ID() < b.To.ID()) ||
			(a.From.ID() == b.From.ID() && a.To.ID() == b.To.ID() && a.UID < b.UID)
		assert.True(t, less, "lines out of order at %d", i)
	}
}

func TestSummarize(t *testing.T) {
	g := New("fraud")
	g.AddLine("accounts/a", "accounts/b", 1)
	g.AddLine("accounts/b", "accounts/a", 1)
	g.AddLine("accounts/b", "accounts/c", 1)
	g.AddLine("accounts/c", "accounts/c", 1)

	s := Summarize(g, 2)

	assert.Equal(t, "fraud", s.Name)
	assert.Equal(t, 3, s.Order)
	assert.Equal(t, 4, s.Size)
	assert.Equal(t, 1, s.SelfLoops)
	// {a, b} are mutually reachable, c is its own component.
	assert.Equal(t, 2, s.Components)

	require.Len(t, s.TopNodes, 2)
	assert.GreaterOrEqual(t, s.TopNodes[0].Rank, s.TopNodes[1].Rank)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(New("empty"), 5)

	assert.Equal(t, 0, s.Order)
	assert.Equal(t, 0, s.Size)
	assert.Empty(t, s.TopNodes)
}

func TestSummarizeNoRanking(t *testing.T) {
	g := New("test")
	g.AddLine("a/1", "a/2", 1)

	s := Summarize(g, 0)
	assert.Empty(t, s.TopNodes)
	assert.Equal(t, 2, s.Order)
}
