package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Graph Metrics
	GraphNodesTotal     prometheus.Gauge
	GraphEdgesTotal     prometheus.Gauge
	GraphLoadDuration   prometheus.Histogram
	GraphEdgesDiscarded prometheus.Counter

	// Pipeline Metrics
	PipelineRunsTotal    *prometheus.CounterVec
	PipelineDuration     prometheus.Histogram
	StageDuration        *prometheus.HistogramVec
	PipelineRunsInFlight prometheus.Gauge

	// Analysis Metrics
	CommunitiesDetected  prometheus.Gauge
	PartitionModularity  prometheus.Gauge
	SampledNodesTotal    prometheus.Gauge
	LeadersSelectedTotal prometheus.Gauge
	CentralityDuration   *prometheus.HistogramVec

	// Export Metrics
	ExportsTotal *prometheus.CounterVec
	ExportRows   *prometheus.HistogramVec

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initGraphMetrics()
	r.initPipelineMetrics()
	r.initAnalysisMetrics()
	r.initExportMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
