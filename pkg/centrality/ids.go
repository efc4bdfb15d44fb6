package centrality

import (
	"github.com/socialmesh/influencegraph/pkg/graph"
)

// idMap assigns each node a dense integer id so the graph can be handed
// to numeric backends that address nodes by int64. Ids are assigned in
// sorted node order, which keeps every derived computation deterministic.
type idMap struct {
	ordered []string
	index   map[string]int64
}

func newIDMap(idx *graph.Index) *idMap {
	nodes := idx.Nodes()
	m := &idMap{
		ordered: nodes,
		index:   make(map[string]int64, len(nodes)),
	}
	for i, node := range nodes {
		m.index[node] = int64(i)
	}
	return m
}

func (m *idMap) id(node string) int64 {
	return m.index[node]
}

func (m *idMap) node(id int64) string {
	return m.ordered[id]
}

func (m *idMap) len() int {
	return len(m.ordered)
}

// toNodeMap converts an int64-keyed score map back to node identifiers,
// filling 0.0 for nodes the backend omitted.
func (m *idMap) toNodeMap(scores map[int64]float64) map[string]float64 {
	out := make(map[string]float64, m.len())
	for i, node := range m.ordered {
		out[node] = scores[int64(i)]
	}
	return out
}
