package cmap

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/andrew-torda/cmap/contact"
	"github.com/andrew-torda/cmap/structure"
)

// Graph returns the map as an undirected graph. Nodes are mer inds and
// edge weights are contact scores.
func (m *Map) Graph() (*simple.WeightedUndirectedGraph, error) {
	return m.graph(func(sc contact.Score) float64 { return float64(sc) })
}

// graph builds a graph of every mer in the structure with weights from
// w. If a pair is in the map both ways, the higher score is used.
func (m *Map) graph(w func(contact.Score) float64) (*simple.WeightedUndirectedGraph, error) {
	cs, err := m.snapshot()
	if err != nil {
		return nil, err
	}
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for _, mr := range m.s.Mers() {
		g.AddNode(simple.Node(mr.Ind))
	}
	type edge struct{ u, v int64 }
	best := make(map[edge]contact.Score)
	var order []edge
	for _, c := range cs {
		e := edge{int64(min(c.Ind1, c.Ind2)), int64(max(c.Ind1, c.Ind2))}
		if g.Node(e.u) == nil || g.Node(e.v) == nil {
			continue
		}
		if _, seen := best[e]; !seen {
			order = append(order, e)
		}
		best[e] = max(best[e], c.Score)
	}
	for _, e := range order {
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(e.u), simple.Node(e.v), w(best[e])))
	}
	return g, nil
}

func nodeInds(nodes []graph.Node) []int {
	ret := make([]int, len(nodes))
	for i, n := range nodes {
		ret[i] = int(n.ID())
	}
	return ret
}

// Clusters returns groups of mers connected by contacts, with at least
// minSize members. Inds in a cluster are sorted and clusters come in
// order of their first ind.
func (m *Map) Clusters(minSize int) ([][]int, error) {
	g, err := m.Graph()
	if err != nil {
		return nil, err
	}
	var ret [][]int
	for _, cc := range topo.ConnectedComponents(g) {
		if len(cc) < minSize {
			continue
		}
		inds := nodeInds(cc)
		slices.Sort(inds)
		ret = append(ret, inds)
	}
	slices.SortFunc(ret, func(a, b []int) int { return a[0] - b[0] })
	return ret, nil
}

// Path finds a chain of contacts from r1 to r2. Certain contacts cost
// one and uncertain ones two, so the cheapest path prefers certain
// contacts. The returned inds include both ends.
func (m *Map) Path(r1, r2 any) ([]int, float64, error) {
	mers, err := m.resolve(r1, r2)
	if err != nil {
		return nil, 0, err
	}
	g, err := m.graph(func(sc contact.Score) float64 { return float64(contact.Certain - sc + 1) })
	if err != nil {
		return nil, 0, err
	}
	from, to := g.Node(int64(mers[0].Ind)), int64(mers[1].Ind)
	if from == nil || g.Node(to) == nil {
		return nil, 0, fmt.Errorf("%w: mer not in contact map", structure.ErrLookupMiss)
	}
	nodes, cost := path.DijkstraFrom(from, g).To(to)
	if len(nodes) == 0 {
		return nil, math.Inf(1), nil
	}
	return nodeInds(nodes), cost, nil
}
