package algorithms

import (
	"fmt"
	"math"
	"sort"

	"github.com/socialmesh/influencegraph/pkg/graph"
)

// LinkPredictionMethod selects the scoring formula for link prediction.
type LinkPredictionMethod int

const (
	// LinkPredCommonNeighbours scores by |N(u) ∩ N(v)| — integer counts.
	LinkPredCommonNeighbours LinkPredictionMethod = iota

	// LinkPredAdamicAdar scores by Σ_{w ∈ N(u)∩N(v)} 1/log(|N(w)|) — weighted
	// sum giving higher weight to common neighbors with fewer connections.
	LinkPredAdamicAdar

	// LinkPredJaccard scores by |N(u) ∩ N(v)| / |N(u) ∪ N(v)|.
	LinkPredJaccard

	// LinkPredPreferentialAttachment scores by |N(u)| × |N(v)| — degree
	// product. Requires no intersection computation.
	LinkPredPreferentialAttachment
)

// String returns the config-file name of the method.
func (m LinkPredictionMethod) String() string {
	switch m {
	case LinkPredCommonNeighbours:
		return "common_neighbours"
	case LinkPredAdamicAdar:
		return "adamic_adar"
	case LinkPredJaccard:
		return "jaccard"
	case LinkPredPreferentialAttachment:
		return "preferential_attachment"
	default:
		return "unknown"
	}
}

// ParseLinkPredictionMethod maps a config-file name to a method.
func ParseLinkPredictionMethod(s string) (LinkPredictionMethod, error) {
	switch s {
	case "common_neighbours":
		return LinkPredCommonNeighbours, nil
	case "adamic_adar":
		return LinkPredAdamicAdar, nil
	case "jaccard":
		return LinkPredJaccard, nil
	case "preferential_attachment":
		return LinkPredPreferentialAttachment, nil
	default:
		return 0, fmt.Errorf("unknown link prediction method %q", s)
	}
}

// LinkPredictionOptions configures link prediction.
//
// Scores across different methods are not comparable: Common Neighbours
// returns integer counts, Adamic-Adar weighted sums, Jaccard ratios in
// [0,1], and Preferential Attachment degree products.
type LinkPredictionOptions struct {
	Method          LinkPredictionMethod
	ExcludeExisting bool // default true — skip pairs that already share an edge
	TopK            int  // default 10, 0 = all
}

// LinkPrediction holds a predicted link score between two nodes.
type LinkPrediction struct {
	NodeA string
	NodeB string
	Score float64
}

// DefaultLinkPredictionOptions returns sensible defaults.
func DefaultLinkPredictionOptions() LinkPredictionOptions {
	return LinkPredictionOptions{
		Method:          LinkPredCommonNeighbours,
		ExcludeExisting: true,
		TopK:            10,
	}
}

// PredictLinkScore computes the link prediction score between two specific
// nodes.
func PredictLinkScore(idx *graph.Index, nodeA, nodeB string, opts LinkPredictionOptions) float64 {
	return computeLinkScore(idx, idx.Neighbors(nodeA), idx.Neighbors(nodeB), opts)
}

// PredictLinksFor predicts links for a source node against all other nodes.
// Results are sorted descending by score with endpoint ids as the
// deterministic tie-break; zero-score pairs are excluded.
func PredictLinksFor(idx *graph.Index, source string, opts LinkPredictionOptions) []LinkPrediction {
	sourceSet := idx.Neighbors(source)

	var predictions []LinkPrediction
	for _, other := range idx.Nodes() {
		if other == source {
			continue
		}
		if opts.ExcludeExisting && sourceSet[other] {
			continue
		}

		score := computeLinkScore(idx, sourceSet, idx.Neighbors(other), opts)
		if score > 0 {
			predictions = append(predictions, LinkPrediction{
				NodeA: source,
				NodeB: other,
				Score: score,
			})
		}
	}

	return rankPredictions(predictions, opts.TopK)
}

// PredictLinks scores every candidate pair in the graph. With
// ExcludeExisting set (the default) only non-adjacent pairs are scored,
// which is the usual link-prediction setting.
func PredictLinks(idx *graph.Index, opts LinkPredictionOptions) []LinkPrediction {
	nodes := idx.Nodes()

	var predictions []LinkPrediction
	for i := 0; i < len(nodes); i++ {
		setA := idx.Neighbors(nodes[i])
		for j := i + 1; j < len(nodes); j++ {
			if opts.ExcludeExisting && setA[nodes[j]] {
				continue
			}
			score := computeLinkScore(idx, setA, idx.Neighbors(nodes[j]), opts)
			if score > 0 {
				predictions = append(predictions, LinkPrediction{
					NodeA: nodes[i],
					NodeB: nodes[j],
					Score: score,
				})
			}
		}
	}

	return rankPredictions(predictions, opts.TopK)
}

func rankPredictions(predictions []LinkPrediction, topK int) []LinkPrediction {
	sort.SliceStable(predictions, func(i, j int) bool {
		if predictions[i].Score != predictions[j].Score {
			return predictions[i].Score > predictions[j].Score
		}
		if predictions[i].NodeA != predictions[j].NodeA {
			return predictions[i].NodeA < predictions[j].NodeA
		}
		return predictions[i].NodeB < predictions[j].NodeB
	})
	if topK > 0 && len(predictions) > topK {
		predictions = predictions[:topK]
	}
	return predictions
}

// computeLinkScore calculates the prediction score for a pair of neighbor sets.
func computeLinkScore(idx *graph.Index, setA, setB map[string]bool, opts LinkPredictionOptions) float64 {
	switch opts.Method {
	case LinkPredPreferentialAttachment:
		return float64(len(setA)) * float64(len(setB))

	case LinkPredCommonNeighbours:
		return float64(intersectionSize(setA, setB))

	case LinkPredJaccard:
		return computeSimilarity(setA, setB, SimilarityJaccard)

	case LinkPredAdamicAdar:
		sum := 0.0
		small, big := setA, setB
		if len(setA) > len(setB) {
			small, big = setB, setA
		}
		for id := range small {
			if big[id] {
				degree := idx.Degree(id)
				if degree > 1 {
					sum += 1.0 / math.Log(float64(degree))
				}
				// degree <= 1: skip (log(1)=0 causes division by zero)
			}
		}
		return sum

	default:
		return 0.0
	}
}
