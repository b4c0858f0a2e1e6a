// Package graph provides the in-memory graph handle used by the adapter:
// a weighted directed multigraph backed by gonum, with a bidirectional
// index between gonum's int64 node IDs and the database-side qualified
// identities ("collection/key").
//
// The handle owns only identity bookkeeping. Storage, traversal and
// algorithms belong to gonum; documents and attributes belong to the
// database side. Parallel edges and self-loops are permitted, matching
// the edge-list model.
package graph

import (
	"sort"

	gograph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
)

// Node is a graph node carrying its database-side identity.
// It implements gonum's graph.Node.
type Node struct {
	id       int64
	identity string
}

// ID returns the gonum node ID.
func (n Node) ID() int64 { return n.id }

// Identity returns the database-side identity, usually a qualified
// "collection/key" ID.
func (n Node) Identity() string { return n.identity }

// DOTID returns the identity for DOT encoding.
func (n Node) DOTID() string { return n.identity }

// Line is one directed weighted edge between two nodes.
type Line struct {
	From   Node
	To     Node
	Weight float64
	UID    int64
}

// Graph wraps a gonum weighted directed multigraph with an identity index.
// Node IDs are assigned in insertion order, so iteration can be made
// deterministic. The zero value is not usable; call New.
//
// Graph is not safe for concurrent use.
type Graph struct {
	name  string
	g     *multi.WeightedDirectedGraph
	index map[string]int64
	next  int64
	lines int
}

// New creates an empty named graph.
func New(name string) *Graph {
	return &Graph{
		name:  name,
		g:     multi.NewWeightedDirectedGraph(),
		index: make(map[string]int64),
	}
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// AddNode adds a node for identity, returning the existing node when the
// identity is already present.
func (g *Graph) AddNode(identity string) Node {
	if id, ok := g.index[identity]; ok {
		return Node{id: id, identity: identity}
	}
	n := Node{id: g.next, identity: identity}
	g.next++
	g.g.AddNode(n)
	g.index[identity] = n.id
	return n
}

// Node looks up a node by identity.
func (g *Graph) Node(identity string) (Node, bool) {
	id, ok := g.index[identity]
	if !ok {
		return Node{}, false
	}
	return Node{id: id, identity: identity}, true
}

// Has reports whether identity is present in the graph.
func (g *Graph) Has(identity string) bool {
	_, ok := g.index[identity]
	return ok
}

// AddLine adds a directed weighted line between two identities, adding
// missing endpoints implicitly. Parallel lines and self-loops are allowed.
func (g *Graph) AddLine(from, to string, weight float64) Line {
	f := g.AddNode(from)
	t := g.AddNode(to)
	wl := g.g.NewWeightedLine(f, t, weight)
	g.g.SetWeightedLine(wl)
	g.lines++
	return Line{From: f, To: t, Weight: weight, UID: wl.ID()}
}

// Order returns the number of nodes.
func (g *Graph) Order() int { return len(g.index) }

// Size returns the number of lines.
func (g *Graph) Size() int { return g.lines }

// Nodes returns every node in ascending internal ID order, which is the
// order identities were first added.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.index))
	for identity, id := range g.index {
		out = append(out, Node{id: id, identity: identity})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Lines returns every line ordered by (from ID, to ID, line UID).
// The ordering is deterministic for a given insertion sequence.
func (g *Graph) Lines() []Line {
	out := make([]Line, 0, g.lines)
	it := g.g.Edges()
	for it.Next() {
		e := it.Edge()
		uid, vid := e.From().ID(), e.To().ID()
		wl := g.g.WeightedLines(uid, vid)
		for wl.Next() {
			l := wl.WeightedLine()
			out = append(out, Line{
				From:   g.nodeByID(uid),
				To:     g.nodeByID(vid),
				Weight: l.Weight(),
				UID:    l.ID(),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.From.id != b.From.id {
			return a.From.id < b.From.id
		}
		if a.To.id != b.To.id {
			return a.To.id < b.To.id
		}
		return a.UID < b.UID
	})
	return out
}

// Directed exposes the underlying gonum graph for algorithm use.
func (g *Graph) Directed() gograph.Directed { return g.g }

func (g *Graph) nodeByID(id int64) Node {
	n := g.g.Node(id)
	if n == nil {
		return Node{id: id}
	}
	return n.(Node)
}
