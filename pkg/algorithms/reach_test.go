package algorithms

import (
	"math"
	"testing"

	"github.com/socialmesh/influencegraph/pkg/graph"
)

func pathGraph(t *testing.T) *graph.Index {
	t.Helper()
	// A – B – C – D
	idx, err := graph.BuildIndex([]graph.Edge{
		{Source: "A", Target: "B", Weight: 1.0},
		{Source: "B", Target: "C", Weight: 1.0},
		{Source: "C", Target: "D", Weight: 1.0},
	})
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}
	return idx
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestReach_PathGraph(t *testing.T) {
	idx := pathGraph(t)

	resA, err := Reach(idx, "A", 1)
	if err != nil {
		t.Fatalf("Reach failed: %v", err)
	}
	if resA.Count != 2 || !almostEqual(resA.Fraction, 1.0/3.0) {
		t.Errorf("Reach(A,1): expected {2, 1/3}, got {%d, %v}", resA.Count, resA.Fraction)
	}

	resB, err := Reach(idx, "B", 1)
	if err != nil {
		t.Fatalf("Reach failed: %v", err)
	}
	if resB.Count != 3 || !almostEqual(resB.Fraction, 2.0/3.0) {
		t.Errorf("Reach(B,1): expected {3, 2/3}, got {%d, %v}", resB.Count, resB.Fraction)
	}
}

func TestReach_ZeroHops(t *testing.T) {
	idx := pathGraph(t)

	res, err := Reach(idx, "A", 0)
	if err != nil {
		t.Fatalf("Reach failed: %v", err)
	}
	if res.Count != 1 || res.Fraction != 0.0 {
		t.Errorf("Reach(A,0): expected {1, 0.0}, got {%d, %v}", res.Count, res.Fraction)
	}
}

func TestReach_NegativeK(t *testing.T) {
	idx := pathGraph(t)
	if _, err := Reach(idx, "A", -1); err == nil {
		t.Error("expected error for k < 0")
	}
}

func TestReach_AbsentSource(t *testing.T) {
	idx := pathGraph(t)

	res, err := Reach(idx, "ZZZ", 3)
	if err != nil {
		t.Fatalf("Reach failed: %v", err)
	}
	if res.Count != 1 {
		t.Errorf("absent source: expected count 1, got %d", res.Count)
	}
	if res.Fraction != 0.0 {
		t.Errorf("absent source: expected fraction 0.0, got %v", res.Fraction)
	}
}

func TestReach_MonotonicInK(t *testing.T) {
	idx := pathGraph(t)

	prev := 0
	for k := 0; k <= 5; k++ {
		res, err := Reach(idx, "A", k)
		if err != nil {
			t.Fatalf("Reach failed: %v", err)
		}
		if res.Count < prev {
			t.Errorf("k=%d: count %d dropped below %d", k, res.Count, prev)
		}
		prev = res.Count
	}
}

func TestReach_EarlyExitOnComponent(t *testing.T) {
	// Two disjoint pairs: A–B and C–D.
	idx, err := graph.BuildIndex([]graph.Edge{
		{Source: "A", Target: "B", Weight: 1.0},
		{Source: "C", Target: "D", Weight: 1.0},
	})
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}

	res, err := Reach(idx, "A", 100)
	if err != nil {
		t.Fatalf("Reach failed: %v", err)
	}
	if res.Count != 2 {
		t.Errorf("expected component of size 2, got %d", res.Count)
	}
}

func TestReach_OrderIndependence(t *testing.T) {
	edges := []graph.Edge{
		{Source: "A", Target: "B", Weight: 1.0},
		{Source: "B", Target: "C", Weight: 1.0},
		{Source: "C", Target: "D", Weight: 1.0},
	}
	permuted := []graph.Edge{edges[2], edges[0], edges[1]}

	idx1, _ := graph.BuildIndex(edges)
	idx2, _ := graph.BuildIndex(permuted)

	for k := 0; k <= 3; k++ {
		r1, _ := Reach(idx1, "B", k)
		r2, _ := Reach(idx2, "B", k)
		if r1 != r2 {
			t.Errorf("k=%d: results differ across edge permutations: %+v vs %+v", k, r1, r2)
		}
	}
}

func TestReachWithin(t *testing.T) {
	idx := pathGraph(t)

	// Restrict to {A, B}: C is B's neighbor but outside the member set.
	members := map[string]bool{"A": true, "B": true}
	res, err := ReachWithin(idx, "B", 2, members)
	if err != nil {
		t.Fatalf("ReachWithin failed: %v", err)
	}
	if res.Count != 2 {
		t.Errorf("expected count 2 within members, got %d", res.Count)
	}
	if !almostEqual(res.Fraction, 1.0) {
		t.Errorf("expected fraction 1.0 within members, got %v", res.Fraction)
	}
}

func TestReachAll(t *testing.T) {
	idx := pathGraph(t)

	all, err := ReachAll(idx, 1, 4)
	if err != nil {
		t.Fatalf("ReachAll failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 results, got %d", len(all))
	}

	for _, node := range idx.Nodes() {
		single, _ := Reach(idx, node, 1)
		if all[node] != single {
			t.Errorf("node %s: batch %+v differs from single %+v", node, all[node], single)
		}
	}
}
