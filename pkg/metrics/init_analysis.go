package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAnalysisMetrics() {
	r.CommunitiesDetected = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "influencegraph_communities_detected",
			Help: "Number of communities found by the last partition",
		},
	)

	r.PartitionModularity = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "influencegraph_partition_modularity",
			Help: "Modularity of the last computed partition",
		},
	)

	r.SampledNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "influencegraph_sampled_nodes_total",
			Help: "Number of nodes drawn by the last proportional sample",
		},
	)

	r.LeadersSelectedTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "influencegraph_leaders_selected_total",
			Help: "Number of leader and deputy records from the last run",
		},
	)

	r.CentralityDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "influencegraph_centrality_duration_seconds",
			Help:    "Per-measure centrality computation duration in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0},
		},
		[]string{"measure"},
	)
}

func (r *Registry) initExportMetrics() {
	r.ExportsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "influencegraph_exports_total",
			Help: "Total number of artifact exports",
		},
		[]string{"artifact", "status"},
	)

	r.ExportRows = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "influencegraph_export_rows",
			Help:    "Rows written per exported artifact",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
		[]string{"artifact"},
	)
}
