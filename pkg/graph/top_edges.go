package graph

import (
	"container/heap"
	"sort"
)

// RankedEdge is one undirected edge with its collapsed weight.
type RankedEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// rankedEdgeHeap implements a min-heap for RankedEdge by weight.
type rankedEdgeHeap []RankedEdge

func (h rankedEdgeHeap) Len() int           { return len(h) }
func (h rankedEdgeHeap) Less(i, j int) bool { return h[i].Weight < h[j].Weight }
func (h rankedEdgeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *rankedEdgeHeap) Push(x any) {
	*h = append(*h, x.(RankedEdge))
}

func (h *rankedEdgeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// TopEdgesByWeight returns the n heaviest edges using a min-heap, sorted by
// weight descending with endpoint order as the deterministic tie-break.
func (idx *Index) TopEdgesByWeight(n int) []RankedEdge {
	if n <= 0 {
		return nil
	}

	h := make(rankedEdgeHeap, 0, n)
	heap.Init(&h)

	for key, weight := range idx.weights {
		re := RankedEdge{Source: key.a, Target: key.b, Weight: weight}
		if h.Len() < n {
			heap.Push(&h, re)
		} else if weight > h[0].Weight {
			heap.Pop(&h)
			heap.Push(&h, re)
		}
	}

	result := make([]RankedEdge, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(RankedEdge)
	}

	sortRankedEdges(result)
	return result
}

// EdgesAmong returns every edge whose endpoints both belong to members,
// sorted by weight descending then endpoints ascending. Used to materialize
// the induced subgraph of a sampled node set for export.
func (idx *Index) EdgesAmong(members map[string]bool) []RankedEdge {
	var result []RankedEdge
	for key, weight := range idx.weights {
		if members[key.a] && members[key.b] {
			result = append(result, RankedEdge{Source: key.a, Target: key.b, Weight: weight})
		}
	}
	sortRankedEdges(result)
	return result
}

func sortRankedEdges(edges []RankedEdge) {
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].Weight != edges[j].Weight {
			return edges[i].Weight > edges[j].Weight
		}
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
}
