package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.PipelineRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "influencegraph_pipeline_runs_total",
			Help: "Total number of pipeline runs",
		},
		[]string{"status"},
	)

	r.PipelineDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "influencegraph_pipeline_duration_seconds",
			Help:    "End-to-end pipeline run duration in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 5.0, 10.0, 30.0, 60.0, 300.0},
		},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "influencegraph_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 60.0},
		},
		[]string{"stage"},
	)

	r.PipelineRunsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "influencegraph_pipeline_runs_in_flight",
			Help: "Number of pipeline runs currently executing",
		},
	)
}
