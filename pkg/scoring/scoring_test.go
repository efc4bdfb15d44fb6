package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricTable_InsertionOrder(t *testing.T) {
	table := NewMetricTable()
	table.Add("pagerank", map[string]float64{"a": 1})
	table.Add("degree", map[string]float64{"a": 2})
	table.Add("homophily", map[string]float64{"a": 3})

	assert.Equal(t, []string{"pagerank", "degree", "homophily"}, table.Metrics())

	// Re-adding replaces the column but keeps the position.
	table.Add("degree", map[string]float64{"a": 9})
	assert.Equal(t, []string{"pagerank", "degree", "homophily"}, table.Metrics())
	assert.Equal(t, 9.0, table.Value("degree", "a"))
}

func TestMetricTable_MissingDefaultsToZero(t *testing.T) {
	table := NewMetricTable()
	table.Add("pagerank", map[string]float64{"a": 1})

	assert.Equal(t, 0.0, table.Value("pagerank", "missing"))
	assert.Equal(t, 0.0, table.Value("no_such_metric", "a"))
}

func TestMetricTable_AddCopies(t *testing.T) {
	col := map[string]float64{"a": 1}
	table := NewMetricTable()
	table.Add("m", col)

	col["a"] = 99
	assert.Equal(t, 1.0, table.Value("m", "a"), "table must not alias caller's map")
}

func TestNormalize_Range(t *testing.T) {
	table := NewMetricTable()
	table.Add("m", map[string]float64{"a": -5, "b": 0, "c": 10})

	norm := Normalize(table)
	assert.Equal(t, 0.0, norm.Value("m", "a"))
	assert.InDelta(t, 1.0/3.0, norm.Value("m", "b"), 1e-12)
	assert.Equal(t, 1.0, norm.Value("m", "c"))
}

func TestNormalize_ConstantColumn(t *testing.T) {
	table := NewMetricTable()
	table.Add("m", map[string]float64{"a": 7, "b": 7, "c": 7})

	norm := Normalize(table)
	for _, node := range []string{"a", "b", "c"} {
		v := norm.Value("m", node)
		require.False(t, v != v, "must never be NaN")
		assert.Equal(t, 0.0, v)
	}
}

func TestNormalize_Pure(t *testing.T) {
	table := NewMetricTable()
	table.Add("m", map[string]float64{"a": 1, "b": 2})

	first := Normalize(table)
	second := Normalize(table)
	assert.Equal(t, first.Column("m"), second.Column("m"))

	// Input untouched.
	assert.Equal(t, 1.0, table.Value("m", "a"))
	assert.Equal(t, 2.0, table.Value("m", "b"))
}

func TestNormalize_PreservesShape(t *testing.T) {
	table := NewMetricTable()
	table.Add("x", map[string]float64{"a": 1, "b": 2})
	table.Add("y", map[string]float64{"a": 3, "b": 4})

	norm := Normalize(table)
	assert.Equal(t, table.Metrics(), norm.Metrics())
	assert.Equal(t, table.Nodes(), norm.Nodes())
}

func TestFuse_WeightedSum(t *testing.T) {
	table := NewMetricTable()
	table.Add("pagerank", map[string]float64{"a": 1.0, "b": 0.0})
	table.Add("degree", map[string]float64{"a": 0.5, "b": 1.0})

	scores := Fuse(table, Weights{"pagerank": 0.6, "degree": 0.4})
	assert.InDelta(t, 0.8, scores["a"], 1e-12)
	assert.InDelta(t, 0.4, scores["b"], 1e-12)
}

func TestFuse_UnknownWeightKeyIgnored(t *testing.T) {
	table := NewMetricTable()
	table.Add("pagerank", map[string]float64{"a": 1.0})

	// "activeness" has no column; it must be skipped, not fail.
	scores := Fuse(table, Weights{"pagerank": 0.5, "activeness": 0.5})
	assert.InDelta(t, 0.5, scores["a"], 1e-12)
}

func TestFuse_Deterministic(t *testing.T) {
	table := NewMetricTable()
	table.Add("x", map[string]float64{"a": 0.31, "b": 0.77})
	table.Add("y", map[string]float64{"a": 0.13, "b": 0.99})
	table.Add("z", map[string]float64{"a": 0.55, "b": 0.01})
	w := Weights{"x": 0.2, "y": 0.3, "z": 0.5}

	first := Fuse(table, w)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Fuse(table, w))
	}
}
