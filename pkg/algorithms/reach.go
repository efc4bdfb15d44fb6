package algorithms

import (
	"fmt"

	"github.com/socialmesh/influencegraph/pkg/graph"
	"github.com/socialmesh/influencegraph/pkg/parallel"
)

// ReachResult holds the k-hop coverage of a single source node.
type ReachResult struct {
	// Count is the number of distinct nodes reachable within k hops,
	// including the source itself.
	Count int
	// Fraction is (Count-1)/(total-1) when the graph has more than one
	// node, 0.0 otherwise.
	Fraction float64
}

// Reach computes k-hop coverage for source by frontier expansion: each round
// takes the union of the frontier's neighbor sets, subtracts what has been
// seen, and stops early when a component is exhausted. A source absent from
// the graph is a valid degenerate input with Count = 1. The call is
// side-effect-free; independent calls share no mutable state.
func Reach(idx *graph.Index, source string, k int) (ReachResult, error) {
	if k < 0 {
		return ReachResult{}, fmt.Errorf("k must be >= 0, got %d", k)
	}
	count := expandFrontier(idx, source, k, nil)
	return ReachResult{Count: count, Fraction: fraction(count, idx.NodeCount())}, nil
}

// ReachWithin computes k-hop coverage on the subgraph induced by members:
// neighbors outside the member set are ignored. The fraction is relative to
// the member count. Supports leader-reach-within-community metrics.
func ReachWithin(idx *graph.Index, source string, k int, members map[string]bool) (ReachResult, error) {
	if k < 0 {
		return ReachResult{}, fmt.Errorf("k must be >= 0, got %d", k)
	}
	count := expandFrontier(idx, source, k, members)
	return ReachResult{Count: count, Fraction: fraction(count, len(members))}, nil
}

// ReachAll computes k-hop coverage for every node in the graph, fanning the
// per-node traversals out over a worker pool. The index is only read, so no
// synchronization beyond the result slots is needed.
func ReachAll(idx *graph.Index, k, workers int) (map[string]ReachResult, error) {
	if k < 0 {
		return nil, fmt.Errorf("k must be >= 0, got %d", k)
	}

	nodes := idx.Nodes()
	results := make([]ReachResult, len(nodes))
	total := idx.NodeCount()

	err := parallel.ForEach(nodes, workers, func(i int, node string) {
		count := expandFrontier(idx, node, k, nil)
		results[i] = ReachResult{Count: count, Fraction: fraction(count, total)}
	})
	if err != nil {
		return nil, err
	}

	out := make(map[string]ReachResult, len(nodes))
	for i, node := range nodes {
		out[node] = results[i]
	}
	return out, nil
}

// expandFrontier is the shared BFS core. A nil members set means the whole
// graph. Returns the size of the seen set, source included.
func expandFrontier(idx *graph.Index, source string, k int, members map[string]bool) int {
	seen := map[string]bool{source: true}
	frontier := map[string]bool{source: true}

	for hop := 0; hop < k; hop++ {
		next := make(map[string]bool)
		for u := range frontier {
			for v := range idx.Neighbors(u) {
				if members != nil && !members[v] {
					continue
				}
				if !seen[v] {
					next[v] = true
				}
			}
		}
		if len(next) == 0 {
			// Component exhausted
			break
		}
		for v := range next {
			seen[v] = true
		}
		frontier = next
	}

	return len(seen)
}

func fraction(count, total int) float64 {
	if total <= 1 {
		return 0.0
	}
	return float64(count-1) / float64(total-1)
}
