package scoring

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestNormalizeProperties verifies invariants that must hold for any metric
// column, not just hand-picked examples.
func TestNormalizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("normalized values stay within [0,1]", prop.ForAll(
		func(values []float64) bool {
			table := NewMetricTable()
			col := make(map[string]float64, len(values))
			for i, v := range values {
				col[fmt.Sprintf("n%d", i)] = v
			}
			table.Add("m", col)

			norm := Normalize(table)
			for node := range col {
				v := norm.Value("m", node)
				if v != v || v < 0.0 || v > 1.0 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(-1e9, 1e9)),
	))

	properties.Property("constant columns normalize to all zeros", prop.ForAll(
		func(value float64, size int) bool {
			table := NewMetricTable()
			col := make(map[string]float64, size)
			for i := 0; i < size; i++ {
				col[fmt.Sprintf("n%d", i)] = value
			}
			table.Add("m", col)

			norm := Normalize(table)
			for node := range col {
				if norm.Value("m", node) != 0.0 {
					return false
				}
			}
			return true
		},
		gen.Float64Range(-1e9, 1e9),
		gen.IntRange(1, 50),
	))

	properties.Property("fusion of normalized metrics with weights summing to 1 stays within [0,1]", prop.ForAll(
		func(values []float64) bool {
			table := NewMetricTable()
			col := make(map[string]float64, len(values))
			for i, v := range values {
				col[fmt.Sprintf("n%d", i)] = v
			}
			table.Add("x", col)
			table.Add("y", col)

			scores := Fuse(Normalize(table), Weights{"x": 0.4, "y": 0.6})
			for _, s := range scores {
				if s != s || s < 0.0 || s > 1.0 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(-1e9, 1e9)),
	))

	properties.Property("fusion is deterministic over identical inputs", prop.ForAll(
		func(values []float64) bool {
			table := NewMetricTable()
			col := make(map[string]float64, len(values))
			for i, v := range values {
				col[fmt.Sprintf("n%d", i)] = v
			}
			table.Add("x", col)
			table.Add("y", col)

			norm := Normalize(table)
			weights := Weights{"x": 0.4, "y": 0.6}
			first := Fuse(norm, weights)
			second := Fuse(norm, weights)
			if len(first) != len(second) {
				return false
			}
			for node, s := range first {
				if second[node] != s {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(-1e9, 1e9)),
	))

	properties.TestingRun(t)
}
