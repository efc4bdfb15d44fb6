package scoring

// Normalize min-max-scales every metric column into [0,1] and returns a new
// table; the input is never modified. For each column,
// scaled = (x − min) / (max − min); a constant column scales to all zeros
// rather than dividing by zero. Output columns keep the input's node key
// sets and metric order exactly. Pure function: repeated calls on the same
// input produce the same output.
func Normalize(table *MetricTable) *MetricTable {
	out := NewMetricTable()

	for _, name := range table.names {
		col := table.values[name]
		scaled := make(map[string]float64, len(col))

		if len(col) > 0 {
			first := true
			var min, max float64
			for _, v := range col {
				if first {
					min, max = v, v
					first = false
					continue
				}
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
			}

			span := max - min
			for node, v := range col {
				if span == 0 {
					scaled[node] = 0.0
				} else {
					scaled[node] = (v - min) / span
				}
			}
		}

		out.Add(name, scaled)
	}

	return out
}
