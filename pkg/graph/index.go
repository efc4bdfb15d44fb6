package graph

import (
	"fmt"
	"sort"
)

// Edge is a single undirected edge as supplied by an upstream loader.
// Type carries the relationship kind (e.g. "friend"); filtering by type is
// the loader's concern, the index treats every edge it receives the same way.
type Edge struct {
	Source string
	Target string
	Weight float64
	Type   string
}

// edgeKey is the canonical undirected key for a node pair.
type edgeKey struct {
	a, b string
}

func keyFor(u, v string) edgeKey {
	if u > v {
		u, v = v, u
	}
	return edgeKey{a: u, b: v}
}

// Index is an adjacency-set representation of an undirected weighted graph.
// Parallel edges are collapsed to a single edge whose weight is the sum of
// the parallel weights. Neighbor sets are symmetric and never contain the
// node itself. The index owns its maps exclusively; callers must treat every
// returned set and slice as read-only.
type Index struct {
	adjacency map[string]map[string]bool
	weights   map[edgeKey]float64
	edgeCount int
}

// BuildIndex builds an Index from an edge list. An edge with an empty
// endpoint fails with ErrMalformedEdge. Self-loops register the node but are
// excluded from its neighbor set. Building is idempotent: the same edge
// list, in any order, produces identical adjacency sets and weights.
func BuildIndex(edges []Edge) (*Index, error) {
	idx := &Index{
		adjacency: make(map[string]map[string]bool),
		weights:   make(map[edgeKey]float64),
	}

	for i, e := range edges {
		if e.Source == "" || e.Target == "" {
			return nil, fmt.Errorf("%w: edge %d has empty endpoint (%q -> %q)",
				ErrMalformedEdge, i, e.Source, e.Target)
		}

		idx.ensureNode(e.Source)
		idx.ensureNode(e.Target)

		if e.Source == e.Target {
			// Self-loop: the node exists, but never appears in its own
			// neighbor set.
			continue
		}

		if !idx.adjacency[e.Source][e.Target] {
			idx.adjacency[e.Source][e.Target] = true
			idx.adjacency[e.Target][e.Source] = true
			idx.edgeCount++
		}
		idx.weights[keyFor(e.Source, e.Target)] += e.Weight
	}

	return idx, nil
}

func (idx *Index) ensureNode(node string) {
	if _, ok := idx.adjacency[node]; !ok {
		idx.adjacency[node] = make(map[string]bool)
	}
}

// Neighbors returns the neighbor set of node. Nodes absent from the graph
// yield an empty set, not an error: isolated and unknown nodes are valid
// inputs. The returned map must not be mutated.
func (idx *Index) Neighbors(node string) map[string]bool {
	if set, ok := idx.adjacency[node]; ok {
		return set
	}
	return map[string]bool{}
}

// Degree returns the number of distinct neighbors of node.
func (idx *Index) Degree(node string) int {
	return len(idx.adjacency[node])
}

// HasNode reports whether node appears in the graph.
func (idx *Index) HasNode(node string) bool {
	_, ok := idx.adjacency[node]
	return ok
}

// HasEdge reports whether an edge exists between u and v.
func (idx *Index) HasEdge(u, v string) bool {
	return idx.adjacency[u][v]
}

// Weight returns the collapsed weight of the undirected edge (u, v), or 0.0
// when no such edge exists. Lookup is symmetric.
func (idx *Index) Weight(u, v string) float64 {
	return idx.weights[keyFor(u, v)]
}

// Nodes returns all node identifiers in ascending order.
func (idx *Index) Nodes() []string {
	nodes := make([]string, 0, len(idx.adjacency))
	for n := range idx.adjacency {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return nodes
}

// NodeCount returns the number of nodes in the graph.
func (idx *Index) NodeCount() int {
	return len(idx.adjacency)
}

// EdgeCount returns the number of distinct undirected edges.
func (idx *Index) EdgeCount() int {
	return idx.edgeCount
}

// ForEachEdge calls fn once per distinct undirected edge, in no particular
// order. Endpoints are passed in ascending order.
func (idx *Index) ForEachEdge(fn func(u, v string, weight float64)) {
	for key, w := range idx.weights {
		fn(key.a, key.b, w)
	}
}
