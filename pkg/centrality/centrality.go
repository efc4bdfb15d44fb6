// Package centrality computes node importance measures over a graph.Index.
// The heavy lifting is delegated to gonum's graph/network and mat packages;
// this package owns the mapping between string node ids and the dense int64
// ids gonum expects, and guarantees deterministic output maps.
package centrality

import (
	"math"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"

	"github.com/socialmesh/influencegraph/pkg/graph"
)

const (
	// DefaultDamping is the standard PageRank damping factor.
	DefaultDamping = 0.85

	// DefaultTolerance is the PageRank convergence tolerance.
	DefaultTolerance = 1e-6
)

// buildDirected mirrors every undirected edge in both directions, which is
// what PageRank expects for an undirected social graph.
func buildDirected(idx *graph.Index, ids *idMap) *simple.WeightedDirectedGraph {
	g := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	for _, node := range ids.ordered {
		g.AddNode(simple.Node(ids.id(node)))
	}
	idx.ForEachEdge(func(u, v string, weight float64) {
		from := simple.Node(ids.id(u))
		to := simple.Node(ids.id(v))
		g.SetWeightedEdge(simple.WeightedEdge{F: from, T: to, W: weight})
		g.SetWeightedEdge(simple.WeightedEdge{F: to, T: from, W: weight})
	})
	return g
}

// buildUndirected produces an unweighted undirected graph. Betweenness and
// closeness treat ties as unit-cost hops; edge weights here express affinity,
// not distance, so they must not be fed to shortest-path routines.
func buildUndirected(idx *graph.Index, ids *idMap) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for _, node := range ids.ordered {
		g.AddNode(simple.Node(ids.id(node)))
	}
	idx.ForEachEdge(func(u, v string, _ float64) {
		g.SetEdge(simple.Edge{F: simple.Node(ids.id(u)), T: simple.Node(ids.id(v))})
	})
	return g
}

// PageRank returns the weighted PageRank score of every node.
func PageRank(idx *graph.Index, damping, tolerance float64) map[string]float64 {
	ids := newIDMap(idx)
	if ids.len() == 0 {
		return map[string]float64{}
	}
	g := buildDirected(idx, ids)
	return ids.toNodeMap(network.PageRank(g, damping, tolerance))
}

// Betweenness returns the betweenness centrality of every node. Nodes that
// lie on no shortest path score 0.0.
func Betweenness(idx *graph.Index) map[string]float64 {
	ids := newIDMap(idx)
	if ids.len() == 0 {
		return map[string]float64{}
	}
	g := buildUndirected(idx, ids)
	return ids.toNodeMap(network.Betweenness(g))
}

// Closeness returns the closeness centrality of every node using unit-cost
// shortest paths.
func Closeness(idx *graph.Index) map[string]float64 {
	ids := newIDMap(idx)
	if ids.len() == 0 {
		return map[string]float64{}
	}
	g := buildUndirected(idx, ids)
	shortest := path.DijkstraAllPaths(g)
	return ids.toNodeMap(network.Closeness(g, shortest))
}

// Degree returns degree centrality: degree divided by n-1. Single-node
// graphs score 0.0 because no other node is reachable.
func Degree(idx *graph.Index) map[string]float64 {
	nodes := idx.Nodes()
	out := make(map[string]float64, len(nodes))
	denom := float64(len(nodes) - 1)
	for _, node := range nodes {
		if denom <= 0 {
			out[node] = 0.0
			continue
		}
		out[node] = float64(idx.Degree(node)) / denom
	}
	return out
}

// Eigenvector returns eigenvector centrality: the principal eigenvector of
// the weighted adjacency matrix, taken component-wise absolute and scaled to
// unit Euclidean norm. The adjacency matrix of an undirected graph is
// symmetric, so the spectrum is real and the decomposition exact.
func Eigenvector(idx *graph.Index) map[string]float64 {
	ids := newIDMap(idx)
	n := ids.len()
	out := make(map[string]float64, n)
	if n == 0 {
		return out
	}
	if n == 1 {
		out[ids.node(0)] = 0.0
		return out
	}

	a := mat.NewSymDense(n, nil)
	idx.ForEachEdge(func(u, v string, weight float64) {
		a.SetSym(int(ids.id(u)), int(ids.id(v)), weight)
	})

	var eig mat.EigenSym
	if ok := eig.Factorize(a, true); !ok {
		for _, node := range ids.ordered {
			out[node] = 0.0
		}
		return out
	}

	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvalues come back in ascending order; the principal eigenvector
	// is the last column. Sign is arbitrary, so take magnitudes.
	principal := make([]float64, n)
	norm := 0.0
	for i := 0; i < n; i++ {
		val := math.Abs(vecs.At(i, n-1))
		principal[i] = val
		norm += val * val
	}
	norm = math.Sqrt(norm)
	for i, node := range ids.ordered {
		if norm == 0 {
			out[node] = 0.0
			continue
		}
		out[node] = principal[i] / norm
	}
	return out
}
