package algorithms

import (
	"math"
	"testing"

	"github.com/socialmesh/influencegraph/pkg/graph"
)

// squareGraph builds A-B-C-D-A: each non-adjacent pair (A,C) and (B,D)
// shares exactly two common neighbors.
func squareGraph(t *testing.T) *graph.Index {
	t.Helper()
	idx, err := graph.BuildIndex([]graph.Edge{
		{Source: "A", Target: "B", Weight: 1.0},
		{Source: "B", Target: "C", Weight: 1.0},
		{Source: "C", Target: "D", Weight: 1.0},
		{Source: "D", Target: "A", Weight: 1.0},
	})
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}
	return idx
}

func TestPredictLinks_CommonNeighbours(t *testing.T) {
	idx := squareGraph(t)

	preds := PredictLinks(idx, DefaultLinkPredictionOptions())
	if len(preds) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(preds))
	}
	for _, p := range preds {
		if p.Score != 2.0 {
			t.Errorf("pair (%s,%s): expected score 2, got %v", p.NodeA, p.NodeB, p.Score)
		}
		if idx.HasEdge(p.NodeA, p.NodeB) {
			t.Errorf("pair (%s,%s) already has an edge", p.NodeA, p.NodeB)
		}
	}
	// Deterministic tie-break: (A,C) before (B,D).
	if preds[0].NodeA != "A" || preds[0].NodeB != "C" {
		t.Errorf("expected (A,C) first, got (%s,%s)", preds[0].NodeA, preds[0].NodeB)
	}
}

func TestPredictLinks_AdamicAdar(t *testing.T) {
	idx := squareGraph(t)

	opts := DefaultLinkPredictionOptions()
	opts.Method = LinkPredAdamicAdar
	preds := PredictLinks(idx, opts)

	// Both common neighbors of (A,C) have degree 2: score = 2/ln(2).
	want := 2.0 / math.Log(2.0)
	if len(preds) == 0 || !almostEqual(preds[0].Score, want) {
		t.Fatalf("expected Adamic-Adar score %v, got %+v", want, preds)
	}
}

func TestPredictLinks_PreferentialAttachment(t *testing.T) {
	idx := squareGraph(t)

	opts := DefaultLinkPredictionOptions()
	opts.Method = LinkPredPreferentialAttachment
	preds := PredictLinks(idx, opts)

	for _, p := range preds {
		if p.Score != 4.0 { // degree 2 × degree 2
			t.Errorf("pair (%s,%s): expected 4, got %v", p.NodeA, p.NodeB, p.Score)
		}
	}
}

func TestPredictLinksFor_ExcludesExistingAndSelf(t *testing.T) {
	idx := squareGraph(t)

	preds := PredictLinksFor(idx, "A", DefaultLinkPredictionOptions())
	for _, p := range preds {
		if p.NodeB == "A" {
			t.Error("self pair must be excluded")
		}
		if idx.HasEdge("A", p.NodeB) {
			t.Errorf("existing edge (A,%s) must be excluded", p.NodeB)
		}
	}
}

func TestPredictLinks_TopK(t *testing.T) {
	idx := squareGraph(t)

	opts := DefaultLinkPredictionOptions()
	opts.TopK = 1
	preds := PredictLinks(idx, opts)
	if len(preds) != 1 {
		t.Errorf("TopK=1: expected 1 prediction, got %d", len(preds))
	}
}

func TestPredictLinkScore_JaccardRange(t *testing.T) {
	idx := squareGraph(t)

	opts := DefaultLinkPredictionOptions()
	opts.Method = LinkPredJaccard
	score := PredictLinkScore(idx, "A", "C", opts)
	if score < 0.0 || score > 1.0 {
		t.Errorf("Jaccard score out of range: %v", score)
	}
	// N(A)={B,D}, N(C)={B,D}: identical sets.
	if !almostEqual(score, 1.0) {
		t.Errorf("expected Jaccard 1.0, got %v", score)
	}
}
