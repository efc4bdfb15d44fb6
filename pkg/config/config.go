// Package config loads and validates pipeline configuration from YAML.
// Every field has a working default, so an empty file yields a runnable
// configuration.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// GraphConfig controls edge-list loading.
type GraphConfig struct {
	// EdgeType keeps only edges of this type; empty keeps everything.
	EdgeType string `yaml:"edge_type"`
}

// ReachConfig controls k-hop reach computation.
type ReachConfig struct {
	Radius int `yaml:"radius" validate:"min=0"`
}

// CommunityConfig controls community detection.
type CommunityConfig struct {
	Resolution    float64 `yaml:"resolution" validate:"gt=0"`
	MaxLevels     int     `yaml:"max_levels" validate:"min=1"`
	MaxIterations int     `yaml:"max_iterations" validate:"min=1"`
}

// CentralityConfig controls the PageRank parameters.
type CentralityConfig struct {
	Damping   float64 `yaml:"damping" validate:"gt=0,lt=1"`
	Tolerance float64 `yaml:"tolerance" validate:"gt=0"`
}

// LinkPredictionConfig controls the optional link prediction stage.
// TopK zero disables the stage entirely.
type LinkPredictionConfig struct {
	Method string `yaml:"method" validate:"oneof=common_neighbours adamic_adar jaccard preferential_attachment"`
	TopK   int    `yaml:"top_k" validate:"min=0"`
}

// ExportConfig controls artifact shaping.
type ExportConfig struct {
	// TopEdges bounds the strongest-edges artifact; 0 disables it.
	TopEdges int `yaml:"top_edges" validate:"min=0"`
}

// SamplingConfig controls community-proportional sampling.
type SamplingConfig struct {
	Target int   `yaml:"target" validate:"min=0"`
	Floor  int   `yaml:"floor" validate:"min=0"`
	Seed   int64 `yaml:"seed"`
}

// Config is the full pipeline configuration.
type Config struct {
	Graph          GraphConfig          `yaml:"graph"`
	Reach          ReachConfig          `yaml:"reach"`
	Community      CommunityConfig      `yaml:"community"`
	Centrality     CentralityConfig     `yaml:"centrality"`
	Sampling       SamplingConfig       `yaml:"sampling"`
	LinkPrediction LinkPredictionConfig `yaml:"link_prediction"`
	Export         ExportConfig         `yaml:"export"`

	// Weights blends normalized metric columns into the influence score.
	// Keys must name metric columns produced by the pipeline.
	Weights map[string]float64 `yaml:"weights"`

	// Workers bounds parallel fan-out; 0 means one worker per CPU.
	Workers int `yaml:"workers" validate:"min=0"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Graph: GraphConfig{EdgeType: "friend"},
		Reach: ReachConfig{Radius: 2},
		Community: CommunityConfig{
			Resolution:    1.0,
			MaxLevels:     10,
			MaxIterations: 100,
		},
		Centrality: CentralityConfig{
			Damping:   0.85,
			Tolerance: 1e-6,
		},
		Sampling: SamplingConfig{
			Target: 250,
			Floor:  2,
			Seed:   42,
		},
		LinkPrediction: LinkPredictionConfig{
			Method: "common_neighbours",
			TopK:   0,
		},
		Export: ExportConfig{
			TopEdges: 200,
		},
		Weights: map[string]float64{
			"pagerank":    0.35,
			"degree":      0.25,
			"betweenness": 0.15,
			"eigenvector": 0.10,
			"homophily":   0.15,
		},
		Workers: 0,
	}
}

// Load reads a YAML file over the defaults. Unset fields keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and the weight map.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}

	if len(c.Weights) == 0 {
		return errors.New("weights: at least one fusion weight is required")
	}
	sum := 0.0
	for name, w := range c.Weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("weights: %s must be a non-negative finite number, got %v", name, w)
		}
		sum += w
	}
	if sum == 0 {
		return errors.New("weights: weights must not all be zero")
	}

	if c.Sampling.Floor > c.Sampling.Target && c.Sampling.Target > 0 {
		return fmt.Errorf("sampling: floor %d exceeds target %d", c.Sampling.Floor, c.Sampling.Target)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			return fmt.Errorf("%s: failed %s validation (value: %v)", e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
