package scoring

import (
	"sort"

	"github.com/socialmesh/influencegraph/pkg/logging"
)

// Weights maps metric names to non-negative fusion weights. The keys must be
// a subset of the table's metrics at fusion time; by convention the weights
// sum to 1.0 so fused scores stay in [0,1] over normalized inputs (the sum
// is documented, not enforced).
type Weights map[string]float64

// Fuse combines normalized metrics into a single influence score per node:
// Σ weight[m] × normalized[m][node]. Weight keys without a matching metric
// are skipped with a warning rather than failing, which tolerates optional
// metrics such as an externally supplied activeness column. Deterministic:
// metrics are accumulated in sorted key order so identical inputs always
// produce bit-identical outputs.
func Fuse(normalized *MetricTable, weights Weights) map[string]float64 {
	names := make([]string, 0, len(weights))
	for name := range weights {
		if !normalized.Has(name) {
			logging.Warn("fusion weight has no matching metric, skipping",
				logging.Metric(name))
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	scores := make(map[string]float64)
	for _, node := range normalized.Nodes() {
		score := 0.0
		for _, name := range names {
			score += weights[name] * normalized.Value(name, node)
		}
		scores[node] = score
	}
	return scores
}
