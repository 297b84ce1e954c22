// Package analyzer describes the analyzers run by the analyze command.
//
// An analyzer computes dataset statistics over the scenes of a command. Implementations are provided by the
// surrounding framework through Register, this package only carries their configuration.
package analyzer

import (
	"context"

	"github.com/askiada/geopipe/pkg/cfgerr"
	"github.com/askiada/geopipe/pkg/data"
	"github.com/askiada/geopipe/pkg/plugin"
	"github.com/askiada/geopipe/pkg/task"
)

const StatsAnalyzer = "STATS_ANALYZER"

// Analyzer processes the scenes of an analyze command.
type Analyzer interface {
	Process(ctx context.Context, taskCfg task.Config, scenes []data.SceneConfig, tmpDir string) error
}

// Factory creates the Analyzer described by cfg.
type Factory func(cfg Config) (Analyzer, error)

// Config is an analyzer configuration.
type Config interface {
	AnalyzerType() string
	// OutputURIs lists the files the analyzer writes.
	OutputURIs() []string
	// WithRootURI returns a copy with unset outputs placed under rootURI.
	WithRootURI(rootURI string) Config
}

var defaultRegistry = plugin.New[Factory]("analyzer")

// DefaultRegistry returns the process wide analyzer registry.
func DefaultRegistry() *plugin.Registry[Factory] {
	return defaultRegistry
}

// Register adds an analyzer implementation to the default registry.
func Register(analyzerType string, factory Factory) error {
	return defaultRegistry.Register(analyzerType, factory)
}

// Create looks up the implementation of cfg in reg.
func Create(reg *plugin.Registry[Factory], cfg Config) (Analyzer, error) {
	if cfg == nil {
		return nil, cfgerr.New("analyzer", cfgerr.Missing("analyzer"))
	}
	factory, err := reg.Get(cfg.AnalyzerType())
	if err != nil {
		return nil, err
	}

	return factory(cfg)
}

// StatsAnalyzerConfig configures the analyzer computing imagery statistics.
type StatsAnalyzerConfig struct {
	StatsURI string
}

func (StatsAnalyzerConfig) AnalyzerType() string { return StatsAnalyzer }

func (c StatsAnalyzerConfig) OutputURIs() []string {
	if c.StatsURI == "" {
		return nil
	}

	return []string{c.StatsURI}
}

func (c StatsAnalyzerConfig) WithRootURI(rootURI string) Config {
	if c.StatsURI == "" && rootURI != "" {
		c.StatsURI = data.JoinURI(rootURI, "analyze", "stats.json")
	}

	return c
}

// Spec is the serialised form of an analyzer configuration.
type Spec struct {
	Type     string `yaml:"type"`
	StatsURI string `yaml:"stats_uri,omitempty"`
}

func FromSpec(spec Spec) (Config, error) {
	switch spec.Type {
	case StatsAnalyzer:
		return StatsAnalyzerConfig{StatsURI: spec.StatsURI}, nil
	case "":
		return nil, cfgerr.New("analyzer", cfgerr.Missing("type"))
	default:
		return nil, cfgerr.New("analyzer", cfgerr.Invalid("type", "unknown analyzer type "+spec.Type))
	}
}

func ToSpec(cfg Config) (Spec, error) {
	switch c := cfg.(type) {
	case StatsAnalyzerConfig:
		return Spec{Type: c.AnalyzerType(), StatsURI: c.StatsURI}, nil
	case nil:
		return Spec{}, cfgerr.New("analyzer", cfgerr.Missing("analyzer"))
	default:
		return Spec{}, cfgerr.Newf("analyzer", "analyzer type %s cannot be serialised", cfg.AnalyzerType())
	}
}
