package algorithms

import (
	"github.com/socialmesh/influencegraph/pkg/graph"
	"github.com/socialmesh/influencegraph/pkg/parallel"
)

// StructuralHomophily returns the mean Jaccard similarity between node's
// neighbor set and each of its neighbors' neighbor sets. Always in [0,1]; a
// node with no neighbors yields exactly 0.0.
func StructuralHomophily(idx *graph.Index, node string) float64 {
	neighbors := idx.Neighbors(node)
	if len(neighbors) == 0 {
		return 0.0
	}

	sum := 0.0
	for v := range neighbors {
		sum += computeSimilarity(neighbors, idx.Neighbors(v), SimilarityJaccard)
	}
	return sum / float64(len(neighbors))
}

// StructuralHomophilyAll computes structural homophily for every node,
// fanning out over a worker pool.
func StructuralHomophilyAll(idx *graph.Index, workers int) (map[string]float64, error) {
	nodes := idx.Nodes()
	results := make([]float64, len(nodes))

	err := parallel.ForEach(nodes, workers, func(i int, node string) {
		results[i] = StructuralHomophily(idx, node)
	})
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(nodes))
	for i, node := range nodes {
		out[node] = results[i]
	}
	return out, nil
}

// LabelHomophily returns the fraction of node's neighbors sharing node's
// label. Labels may be community ids or external attributes. A node with no
// neighbors, or no label of its own, yields 0.0; neighbors without a label
// never count as matching.
func LabelHomophily[L comparable](idx *graph.Index, node string, labels map[string]L) float64 {
	neighbors := idx.Neighbors(node)
	if len(neighbors) == 0 {
		return 0.0
	}

	own, ok := labels[node]
	if !ok {
		return 0.0
	}

	same := 0
	for v := range neighbors {
		if lab, ok := labels[v]; ok && lab == own {
			same++
		}
	}
	return float64(same) / float64(len(neighbors))
}

// AdjustedHomophily computes the graph-level, degree-weighted homophily
// statistic:
//
//	h_adj = (h_edge − Σ p̄²) / (1 − Σ p̄²)
//
// where h_edge is the fraction of edges whose endpoints share a label and
// p̄_ℓ is the share of total degree held by nodes labeled ℓ. Nodes without a
// label are excluded from the same-label edge count and from the label
// degree sums. Returns 0.0 on zero edges, zero total degree, or Σ p̄² = 1.
func AdjustedHomophily[L comparable](idx *graph.Index, labels map[string]L) float64 {
	totalEdges := idx.EdgeCount()
	if totalEdges == 0 {
		return 0.0
	}

	sameLabelEdges := 0
	idx.ForEachEdge(func(u, v string, _ float64) {
		lu, okU := labels[u]
		lv, okV := labels[v]
		if okU && okV && lu == lv {
			sameLabelEdges++
		}
	})
	hEdge := float64(sameLabelEdges) / float64(totalEdges)

	totalDegree := 0
	labelDegree := make(map[L]int)
	for _, node := range idx.Nodes() {
		deg := idx.Degree(node)
		totalDegree += deg
		if lab, ok := labels[node]; ok {
			labelDegree[lab] += deg
		}
	}
	if totalDegree == 0 {
		return 0.0
	}

	sumPB2 := 0.0
	for _, deg := range labelDegree {
		p := float64(deg) / float64(totalDegree)
		sumPB2 += p * p
	}

	if 1.0-sumPB2 == 0.0 {
		return 0.0
	}
	return (hEdge - sumPB2) / (1.0 - sumPB2)
}
