package metrics

import (
	"time"
)

// RecordRun records a completed pipeline run with its duration
func (r *Registry) RecordRun(status string, duration time.Duration) {
	r.PipelineRunsTotal.WithLabelValues(status).Inc()
	r.PipelineDuration.Observe(duration.Seconds())
}

// RecordStage records the duration of a single pipeline stage
func (r *Registry) RecordStage(stage string, duration time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordCentrality records the duration of one centrality measure
func (r *Registry) RecordCentrality(measure string, duration time.Duration) {
	r.CentralityDuration.WithLabelValues(measure).Observe(duration.Seconds())
}

// UpdateGraphMetrics updates gauges describing the loaded graph
func (r *Registry) UpdateGraphMetrics(nodes, edges int, loadDuration time.Duration) {
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphEdgesTotal.Set(float64(edges))
	r.GraphLoadDuration.Observe(loadDuration.Seconds())
}

// UpdatePartitionMetrics updates gauges describing the community partition
func (r *Registry) UpdatePartitionMetrics(communities int, modularity float64) {
	r.CommunitiesDetected.Set(float64(communities))
	r.PartitionModularity.Set(modularity)
}

// UpdateSelectionMetrics updates gauges describing sampling and leadership
func (r *Registry) UpdateSelectionMetrics(sampled, leaders int) {
	r.SampledNodesTotal.Set(float64(sampled))
	r.LeadersSelectedTotal.Set(float64(leaders))
}

// RecordExport records one artifact export
func (r *Registry) RecordExport(artifact, status string, rows int) {
	r.ExportsTotal.WithLabelValues(artifact, status).Inc()
	if status == "success" {
		r.ExportRows.WithLabelValues(artifact).Observe(float64(rows))
	}
}
