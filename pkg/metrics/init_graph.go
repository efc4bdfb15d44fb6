package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "influencegraph_graph_nodes_total",
			Help: "Number of nodes in the loaded graph",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "influencegraph_graph_edges_total",
			Help: "Number of distinct edges in the loaded graph",
		},
	)

	r.GraphLoadDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "influencegraph_graph_load_duration_seconds",
			Help:    "Time spent reading and indexing the edge list",
			Buckets: []float64{0.1, 0.5, 1.0, 5.0, 10.0, 30.0, 60.0},
		},
	)

	r.GraphEdgesDiscarded = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "influencegraph_graph_edges_discarded_total",
			Help: "Edges dropped during load by the edge type filter",
		},
	)
}
