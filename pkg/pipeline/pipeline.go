// Package pipeline runs the full influence analysis: centrality measures,
// community detection, score fusion, proportional sampling and leadership
// selection, in that order.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/socialmesh/influencegraph/pkg/algorithms"
	"github.com/socialmesh/influencegraph/pkg/centrality"
	"github.com/socialmesh/influencegraph/pkg/config"
	"github.com/socialmesh/influencegraph/pkg/graph"
	"github.com/socialmesh/influencegraph/pkg/leaders"
	"github.com/socialmesh/influencegraph/pkg/logging"
	"github.com/socialmesh/influencegraph/pkg/metrics"
	"github.com/socialmesh/influencegraph/pkg/sampling"
	"github.com/socialmesh/influencegraph/pkg/scoring"
)

// Pipeline executes analysis runs against a fixed configuration.
type Pipeline struct {
	cfg     *config.Config
	metrics *metrics.Registry
	logger  logging.Logger
}

// New returns a pipeline using the global metrics registry.
func New(cfg *config.Config) *Pipeline {
	return NewWithRegistry(cfg, metrics.DefaultRegistry())
}

// NewWithRegistry returns a pipeline recording into the given registry.
func NewWithRegistry(cfg *config.Config, registry *metrics.Registry) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		metrics: registry,
		logger:  logging.With(logging.Component("pipeline")),
	}
}

// Result carries everything a run produced.
type Result struct {
	RunID string

	// Raw holds the unscaled metric columns; Normalized the min-max
	// scaled ones the fusion actually consumed.
	Raw        *scoring.MetricTable
	Normalized *scoring.MetricTable

	// Influence is the fused score per node.
	Influence map[string]float64

	Partition *centrality.Partition

	// AdjustedHomophily is only meaningful when labels were supplied.
	AdjustedHomophily float64

	Quotas  sampling.Quota
	Sampled map[string]bool
	Leaders []leaders.Record

	// Predictions is empty unless link prediction is enabled.
	Predictions []algorithms.LinkPrediction

	Timings map[string]time.Duration
}

// Run executes the pipeline over the indexed graph. labels may be nil;
// when present a label homophily column and the adjusted homophily
// statistic are added.
func (p *Pipeline) Run(ctx context.Context, idx *graph.Index, labels map[string]string) (*Result, error) {
	runStart := time.Now()
	result := &Result{
		RunID:   uuid.New().String(),
		Timings: make(map[string]time.Duration),
	}
	logger := p.logger.With(logging.RunID(result.RunID))

	p.metrics.PipelineRunsInFlight.Inc()
	defer p.metrics.PipelineRunsInFlight.Dec()

	logger.Info("starting run",
		logging.NodeCount(idx.NodeCount()),
		logging.EdgeCount(idx.EdgeCount()),
	)

	err := p.runStages(ctx, idx, labels, result, logger)
	if err != nil {
		p.metrics.RecordRun("error", time.Since(runStart))
		logger.Error("run failed", logging.Error(err))
		return nil, err
	}

	total := time.Since(runStart)
	p.metrics.RecordRun("success", total)
	logger.Info("run complete",
		logging.Latency(total),
		logging.Int("communities", result.Partition.NumCommunities()),
		logging.Count(len(result.Leaders)),
	)
	return result, nil
}

func (p *Pipeline) runStages(ctx context.Context, idx *graph.Index, labels map[string]string, result *Result, logger logging.Logger) error {
	if err := p.stageMetrics(ctx, idx, labels, result, logger); err != nil {
		return err
	}
	if err := p.stagePartition(ctx, idx, result, logger); err != nil {
		return err
	}
	if err := p.stageScoring(ctx, result, logger); err != nil {
		return err
	}
	if err := p.stageSampling(ctx, idx, result, logger); err != nil {
		return err
	}
	if err := p.stageLeaders(ctx, idx, result, logger); err != nil {
		return err
	}
	return p.stageLinks(ctx, idx, result, logger)
}

// stageMetrics computes every per-node metric column.
func (p *Pipeline) stageMetrics(ctx context.Context, idx *graph.Index, labels map[string]string, result *Result, logger logging.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	timer := logging.StartTimer(logger, "computing node metrics", logging.Stage("metrics"))

	table := scoring.NewMetricTable()

	measure := func(name string, fn func() map[string]float64) {
		mStart := time.Now()
		table.Add(name, fn())
		p.metrics.RecordCentrality(name, time.Since(mStart))
	}

	measure("pagerank", func() map[string]float64 {
		return centrality.PageRank(idx, p.cfg.Centrality.Damping, p.cfg.Centrality.Tolerance)
	})
	measure("degree", func() map[string]float64 {
		return centrality.Degree(idx)
	})
	measure("betweenness", func() map[string]float64 {
		return centrality.Betweenness(idx)
	})
	measure("closeness", func() map[string]float64 {
		return centrality.Closeness(idx)
	})
	measure("eigenvector", func() map[string]float64 {
		return centrality.Eigenvector(idx)
	})

	homophily, err := algorithms.StructuralHomophilyAll(idx, p.cfg.Workers)
	if err != nil {
		timer.EndError(err)
		return fmt.Errorf("structural homophily: %w", err)
	}
	table.Add("homophily", homophily)

	reach, err := algorithms.ReachAll(idx, p.cfg.Reach.Radius, p.cfg.Workers)
	if err != nil {
		timer.EndError(err)
		return fmt.Errorf("reach: %w", err)
	}
	reachFractions := make(map[string]float64, len(reach))
	for node, r := range reach {
		reachFractions[node] = r.Fraction
	}
	table.Add("reach", reachFractions)

	if len(labels) > 0 {
		labelHomophily := make(map[string]float64, idx.NodeCount())
		for _, node := range idx.Nodes() {
			labelHomophily[node] = algorithms.LabelHomophily(idx, node, labels)
		}
		table.Add("label_homophily", labelHomophily)
		result.AdjustedHomophily = algorithms.AdjustedHomophily(idx, labels)
	}

	result.Raw = table
	result.Timings["metrics"] = time.Since(start)
	p.metrics.RecordStage("metrics", result.Timings["metrics"])
	timer.End()
	return nil
}

// stagePartition detects communities.
func (p *Pipeline) stagePartition(ctx context.Context, idx *graph.Index, result *Result, logger logging.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	timer := logging.StartTimer(logger, "detecting communities", logging.Stage("partition"))

	opts := centrality.DefaultLouvainOptions()
	opts.Resolution = p.cfg.Community.Resolution
	opts.MaxLevels = p.cfg.Community.MaxLevels
	opts.MaxIterations = p.cfg.Community.MaxIterations
	opts.Seed = p.cfg.Sampling.Seed

	partition, err := centrality.Louvain(idx, opts)
	if err != nil {
		timer.EndError(err)
		return fmt.Errorf("community detection: %w", err)
	}
	result.Partition = partition

	result.Timings["partition"] = time.Since(start)
	p.metrics.RecordStage("partition", result.Timings["partition"])
	p.metrics.UpdatePartitionMetrics(partition.NumCommunities(), partition.Modularity)
	timer.End()
	return nil
}

// stageScoring normalizes metric columns and fuses them into influence.
func (p *Pipeline) stageScoring(ctx context.Context, result *Result, logger logging.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	timer := logging.StartTimer(logger, "fusing influence scores", logging.Stage("scoring"))

	result.Normalized = scoring.Normalize(result.Raw)
	result.Influence = scoring.Fuse(result.Normalized, scoring.Weights(p.cfg.Weights))

	result.Timings["scoring"] = time.Since(start)
	p.metrics.RecordStage("scoring", result.Timings["scoring"])
	timer.End()
	return nil
}

// stageSampling draws the community-proportional node sample. Targets at
// or above the population short-circuit to the full node set.
func (p *Pipeline) stageSampling(ctx context.Context, idx *graph.Index, result *Result, logger logging.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	timer := logging.StartTimer(logger, "sampling nodes", logging.Stage("sampling"))

	target := p.cfg.Sampling.Target
	switch {
	case target <= 0:
		logger.Info("sampling disabled", logging.Stage("sampling"))
	case target >= idx.NodeCount():
		logger.Info("sample target covers full graph",
			logging.Int("target", target),
			logging.NodeCount(idx.NodeCount()),
		)
		result.Sampled = make(map[string]bool, idx.NodeCount())
		for _, node := range idx.Nodes() {
			result.Sampled[node] = true
		}
	default:
		quotas, err := sampling.Quotas(result.Partition.Communities, target, p.cfg.Sampling.Floor)
		if err != nil {
			timer.EndError(err)
			return fmt.Errorf("sampling quotas: %w", err)
		}
		sampled, err := sampling.Sample(result.Partition.Communities, quotas, p.cfg.Sampling.Seed)
		if err != nil {
			timer.EndError(err)
			return fmt.Errorf("sampling: %w", err)
		}
		result.Quotas = quotas
		result.Sampled = sampled
	}

	result.Timings["sampling"] = time.Since(start)
	p.metrics.RecordStage("sampling", result.Timings["sampling"])
	timer.End()
	return nil
}

// stageLeaders picks the leader and deputy of every community and
// attaches in-community reach to the leaders.
func (p *Pipeline) stageLeaders(ctx context.Context, idx *graph.Index, result *Result, logger logging.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	timer := logging.StartTimer(logger, "selecting leaders", logging.Stage("leaders"))

	records, err := leaders.SelectWithReach(idx, result.Partition.Communities, result.Influence, p.cfg.Reach.Radius)
	if err != nil {
		timer.EndError(err)
		return fmt.Errorf("leader selection: %w", err)
	}
	result.Leaders = records

	result.Timings["leaders"] = time.Since(start)
	p.metrics.RecordStage("leaders", result.Timings["leaders"])
	p.metrics.UpdateSelectionMetrics(len(result.Sampled), len(records))
	timer.End()
	return nil
}

// stageLinks runs all-pairs link prediction when enabled. It scans every
// non-adjacent pair, so it is off by default and meant for smaller graphs.
func (p *Pipeline) stageLinks(ctx context.Context, idx *graph.Index, result *Result, logger logging.Logger) error {
	if p.cfg.LinkPrediction.TopK <= 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	timer := logging.StartTimer(logger, "predicting links", logging.Stage("links"))

	method, err := algorithms.ParseLinkPredictionMethod(p.cfg.LinkPrediction.Method)
	if err != nil {
		timer.EndError(err)
		return err
	}
	opts := algorithms.DefaultLinkPredictionOptions()
	opts.Method = method
	opts.TopK = p.cfg.LinkPrediction.TopK
	result.Predictions = algorithms.PredictLinks(idx, opts)

	result.Timings["links"] = time.Since(start)
	p.metrics.RecordStage("links", result.Timings["links"])
	timer.End()
	return nil
}
