package scoring

import "sort"

// MetricTable maps metric names to per-node float columns. Metric names keep
// their insertion order so exported column layouts are reproducible. Columns
// are copied on insert and never mutated in place: normalization and fusion
// produce new tables, keeping intermediate metrics inspectable.
type MetricTable struct {
	names  []string
	values map[string]map[string]float64
}

// NewMetricTable creates an empty table.
func NewMetricTable() *MetricTable {
	return &MetricTable{
		values: make(map[string]map[string]float64),
	}
}

// Add inserts a metric column, copying the provided map. Re-adding an
// existing metric replaces its column but keeps its original position.
func (t *MetricTable) Add(name string, column map[string]float64) {
	if _, exists := t.values[name]; !exists {
		t.names = append(t.names, name)
	}
	copied := make(map[string]float64, len(column))
	for node, v := range column {
		copied[node] = v
	}
	t.values[name] = copied
}

// Metrics returns the metric names in insertion order.
func (t *MetricTable) Metrics() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Has reports whether the table holds a column for the metric.
func (t *MetricTable) Has(name string) bool {
	_, ok := t.values[name]
	return ok
}

// Value returns the metric value for a node. Missing entries default to
// 0.0, never an error: absent or isolated nodes are valid inputs.
func (t *MetricTable) Value(metric, node string) float64 {
	return t.values[metric][node]
}

// Column returns a copy of the named metric column, or nil if absent.
func (t *MetricTable) Column(name string) map[string]float64 {
	col, ok := t.values[name]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(col))
	for node, v := range col {
		out[node] = v
	}
	return out
}

// Nodes returns the sorted union of node identifiers across all columns.
func (t *MetricTable) Nodes() []string {
	set := make(map[string]bool)
	for _, col := range t.values {
		for node := range col {
			set[node] = true
		}
	}
	nodes := make([]string, 0, len(set))
	for node := range set {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}
