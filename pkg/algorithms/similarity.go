package algorithms

import "math"

// SimilarityMetric selects which similarity formula to use.
type SimilarityMetric int

const (
	SimilarityJaccard SimilarityMetric = iota // |A∩B| / |A∪B|
	SimilarityOverlap                         // |A∩B| / min(|A|,|B|)
	SimilarityCosine                          // |A∩B| / sqrt(|A|×|B|)
)

// intersectionSize counts the overlap of two neighbor sets, iterating over
// the smaller set.
func intersectionSize(setA, setB map[string]bool) int {
	small, big := setA, setB
	if len(setA) > len(setB) {
		small, big = setB, setA
	}
	count := 0
	for id := range small {
		if big[id] {
			count++
		}
	}
	return count
}

// computeSimilarity calculates the similarity between two neighbor sets.
// An empty union always yields 0.0, never NaN.
func computeSimilarity(setA, setB map[string]bool, metric SimilarityMetric) float64 {
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := intersectionSize(setA, setB)
	if intersection == 0 {
		return 0.0
	}

	switch metric {
	case SimilarityJaccard:
		union := len(setA) + len(setB) - intersection
		return float64(intersection) / float64(union)
	case SimilarityOverlap:
		minSize := len(setA)
		if len(setB) < minSize {
			minSize = len(setB)
		}
		return float64(intersection) / float64(minSize)
	case SimilarityCosine:
		return float64(intersection) / math.Sqrt(float64(len(setA))*float64(len(setB)))
	default:
		return 0.0
	}
}
