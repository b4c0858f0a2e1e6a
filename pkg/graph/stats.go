package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/topo"
)

const (
	pageRankDamping   = 0.85
	pageRankTolerance = 1e-6
)

// RankedNode pairs an identity with its PageRank score.
type RankedNode struct {
	Identity string  `json:"identity"`
	Rank     float64 `json:"rank"`
}

// Stats summarizes a graph for reporting.
type Stats struct {
	Name       string       `json:"name"`
	Order      int          `json:"order"`
	Size       int          `json:"size"`
	SelfLoops  int          `json:"self_loops"`
	Components int          `json:"components"`
	TopNodes   []RankedNode `json:"top_nodes,omitempty"`
}

// Summarize computes basic statistics for g: node and line counts,
// self-loop count, strongly connected component count, and the topN
// nodes by PageRank. Ranking ties break on identity so the result is
// deterministic.
func Summarize(g *Graph, topN int) Stats {
	s := Stats{
		Name:  g.Name(),
		Order: g.Order(),
		Size:  g.Size(),
	}
	if g.Order() == 0 {
		return s
	}

	for _, l := range g.Lines() {
		if l.From.ID() == l.To.ID() {
			s.SelfLoops++
		}
	}

	s.Components = len(topo.TarjanSCC(g.Directed()))

	if topN > 0 {
		ranks := network.PageRank(g.Directed(), pageRankDamping, pageRankTolerance)
		ranked := make([]RankedNode, 0, len(ranks))
		for _, n := range g.Nodes() {
			ranked = append(ranked, RankedNode{Identity: n.Identity(), Rank: ranks[n.ID()]})
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].Rank != ranked[j].Rank {
				return ranked[i].Rank > ranked[j].Rank
			}
			return ranked[i].Identity < ranked[j].Identity
		})
		if topN < len(ranked) {
			ranked = ranked[:topN]
		}
		s.TopNodes = ranked
	}
	return s
}
