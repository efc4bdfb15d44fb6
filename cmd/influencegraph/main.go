package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/socialmesh/influencegraph/pkg/config"
	"github.com/socialmesh/influencegraph/pkg/dataset"
	"github.com/socialmesh/influencegraph/pkg/export"
	"github.com/socialmesh/influencegraph/pkg/graph"
	"github.com/socialmesh/influencegraph/pkg/leaders"
	"github.com/socialmesh/influencegraph/pkg/logging"
	"github.com/socialmesh/influencegraph/pkg/metrics"
	"github.com/socialmesh/influencegraph/pkg/pipeline"
)

func main() {
	var (
		edgesPath  = flag.String("edges", "data/edges.csv", "Edge list CSV (src,dst,type,weight)")
		usersPath  = flag.String("users", "", "Optional user attribute CSV keyed by _id")
		attribute  = flag.String("attribute", "community", "User attribute column for label homophily")
		configPath = flag.String("config", "", "YAML configuration file")
		outDir     = flag.String("out", "out", "Directory for result artifacts")
	)
	flag.Parse()

	logger := logging.With(logging.Component("main"))

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Error("invalid configuration", logging.Error(err), logging.Path(*configPath))
			os.Exit(1)
		}
		cfg = loaded
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *edgesPath, *usersPath, *attribute, *outDir, logger); err != nil {
		logger.Error("run failed", logging.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, edgesPath, usersPath, attribute, outDir string, logger logging.Logger) error {
	registry := metrics.DefaultRegistry()

	loadStart := time.Now()
	edgeList, err := dataset.ReadEdges(edgesPath, cfg.Graph.EdgeType)
	if err != nil {
		return err
	}
	idx, err := graph.BuildIndex(edgeList.Edges)
	if err != nil {
		return err
	}
	registry.UpdateGraphMetrics(idx.NodeCount(), idx.EdgeCount(), time.Since(loadStart))
	registry.GraphEdgesDiscarded.Add(float64(edgeList.Discarded))
	logger.Info("graph loaded",
		logging.Path(edgesPath),
		logging.NodeCount(idx.NodeCount()),
		logging.EdgeCount(idx.EdgeCount()),
		logging.Int("discarded", edgeList.Discarded),
	)

	var labels map[string]string
	if usersPath != "" {
		labels, err = dataset.ReadAttribute(usersPath, attribute)
		if err != nil {
			return err
		}
		logger.Info("user attributes loaded",
			logging.Path(usersPath),
			logging.String("attribute", attribute),
			logging.Count(len(labels)),
		)
	}

	result, err := pipeline.New(cfg).Run(ctx, idx, labels)
	if err != nil {
		return err
	}

	exporter := export.NewExporter(outDir)

	type artifact struct {
		name  string
		write func() (int, error)
	}
	artifacts := []artifact{
		{"node_features", func() (int, error) { return exporter.NodeFeatures(result.Raw, result.Normalized, result.Influence) }},
		{"communities", func() (int, error) { return exporter.Communities(result.Partition.Communities) }},
		{"leaders", func() (int, error) { return exporter.Leaders(result.Leaders) }},
		{"graph_json", func() (int, error) { return exporter.GraphJSON(idx, result.Partition.Communities, result.Influence) }},
	}
	if len(result.Sampled) > 0 {
		artifacts = append(artifacts, artifact{"sampled_edges", func() (int, error) {
			return exporter.SampledEdges(idx, result.Sampled)
		}})
	}
	if cfg.Export.TopEdges > 0 {
		artifacts = append(artifacts, artifact{"top_edges", func() (int, error) {
			return exporter.TopEdges(idx, cfg.Export.TopEdges)
		}})
	}
	if len(result.Predictions) > 0 {
		artifacts = append(artifacts, artifact{"link_predictions", func() (int, error) {
			return exporter.LinkPredictions(result.Predictions, cfg.LinkPrediction.Method)
		}})
	}

	for _, artifact := range artifacts {
		rows, err := artifact.write()
		if err != nil {
			registry.RecordExport(artifact.name, "error", 0)
			return fmt.Errorf("export %s: %w", artifact.name, err)
		}
		registry.RecordExport(artifact.name, "success", rows)
		logger.Info("artifact written",
			logging.String("artifact", artifact.name),
			logging.Int("rows", rows),
			logging.Path(outDir),
		)
	}

	members := result.Partition.Members()
	sizes := make([]int, 0, len(members))
	for c := 0; c < result.Partition.NumCommunities(); c++ {
		sizes = append(sizes, len(members[c]))
	}
	if err := exporter.RunSummary(export.Summary{
		RunID:             result.RunID,
		Nodes:             idx.NodeCount(),
		Edges:             idx.EdgeCount(),
		Communities:       result.Partition.NumCommunities(),
		Modularity:        result.Partition.Modularity,
		AdjustedHomophily: result.AdjustedHomophily,
		SampledNodes:      len(result.Sampled),
		CommunitySizes:    sizes,
	}); err != nil {
		return fmt.Errorf("export summary: %w", err)
	}

	printSummary(result)
	return nil
}

// printSummary gives the operator a quick look without opening the CSVs.
func printSummary(result *pipeline.Result) {
	fmt.Printf("run %s\n", result.RunID)
	fmt.Printf("communities: %d (modularity %.4f)\n",
		result.Partition.NumCommunities(), result.Partition.Modularity)
	if len(result.Sampled) > 0 {
		fmt.Printf("sampled nodes: %d\n", len(result.Sampled))
	}
	fmt.Println("leaders:")
	for _, record := range result.Leaders {
		if record.Role != leaders.RoleLeader {
			continue
		}
		fmt.Printf("  community %d: %s (influence %.4f, reach %d nodes, %.1f%%)\n",
			record.Community, record.Node, record.Influence, record.ReachCount, record.ReachPct)
	}
}
