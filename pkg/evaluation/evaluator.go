// Package evaluation describes the evaluators run by the eval command.
package evaluation

import (
	"context"

	"github.com/askiada/geopipe/pkg/cfgerr"
	"github.com/askiada/geopipe/pkg/data"
	"github.com/askiada/geopipe/pkg/plugin"
	"github.com/askiada/geopipe/pkg/task"
)

const (
	ChipClassificationEvaluator = "CHIP_CLASSIFICATION_EVALUATOR"
	ObjectDetectionEvaluator    = "OBJECT_DETECTION_EVALUATOR"
)

// Evaluator compares the predictions of the scenes with their ground truth labels.
type Evaluator interface {
	Process(ctx context.Context, taskCfg task.Config, scenes []data.SceneConfig, tmpDir string) error
}

type Factory func(cfg Config) (Evaluator, error)

// Config is an evaluator configuration.
type Config interface {
	EvaluatorType() string
	OutputURIs() []string
	WithRootURI(rootURI string) Config
}

var defaultRegistry = plugin.New[Factory]("evaluator")

func DefaultRegistry() *plugin.Registry[Factory] {
	return defaultRegistry
}

// Register adds an evaluator implementation to the default registry.
func Register(evaluatorType string, factory Factory) error {
	return defaultRegistry.Register(evaluatorType, factory)
}

func Create(reg *plugin.Registry[Factory], cfg Config) (Evaluator, error) {
	if cfg == nil {
		return nil, cfgerr.New("evaluator", cfgerr.Missing("evaluator"))
	}
	factory, err := reg.Get(cfg.EvaluatorType())
	if err != nil {
		return nil, err
	}

	return factory(cfg)
}

func defaultOutputURI(outputURI, rootURI string) string {
	if outputURI == "" && rootURI != "" {
		return data.JoinURI(rootURI, "eval", "eval.json")
	}

	return outputURI
}

func outputURIs(outputURI string) []string {
	if outputURI == "" {
		return nil
	}

	return []string{outputURI}
}

type ChipClassificationEvaluatorConfig struct {
	OutputURI string
}

func (ChipClassificationEvaluatorConfig) EvaluatorType() string { return ChipClassificationEvaluator }

func (c ChipClassificationEvaluatorConfig) OutputURIs() []string { return outputURIs(c.OutputURI) }

func (c ChipClassificationEvaluatorConfig) WithRootURI(rootURI string) Config {
	c.OutputURI = defaultOutputURI(c.OutputURI, rootURI)
	return c
}

type ObjectDetectionEvaluatorConfig struct {
	OutputURI string
}

func (ObjectDetectionEvaluatorConfig) EvaluatorType() string { return ObjectDetectionEvaluator }

func (c ObjectDetectionEvaluatorConfig) OutputURIs() []string { return outputURIs(c.OutputURI) }

func (c ObjectDetectionEvaluatorConfig) WithRootURI(rootURI string) Config {
	c.OutputURI = defaultOutputURI(c.OutputURI, rootURI)
	return c
}

// Spec is the serialised form of an evaluator configuration.
type Spec struct {
	Type      string `yaml:"type"`
	OutputURI string `yaml:"output_uri,omitempty"`
}

func FromSpec(spec Spec) (Config, error) {
	switch spec.Type {
	case ChipClassificationEvaluator:
		return ChipClassificationEvaluatorConfig{OutputURI: spec.OutputURI}, nil
	case ObjectDetectionEvaluator:
		return ObjectDetectionEvaluatorConfig{OutputURI: spec.OutputURI}, nil
	case "":
		return nil, cfgerr.New("evaluator", cfgerr.Missing("type"))
	default:
		return nil, cfgerr.New("evaluator", cfgerr.Invalid("type", "unknown evaluator type "+spec.Type))
	}
}

func ToSpec(cfg Config) (Spec, error) {
	switch c := cfg.(type) {
	case ChipClassificationEvaluatorConfig:
		return Spec{Type: c.EvaluatorType(), OutputURI: c.OutputURI}, nil
	case ObjectDetectionEvaluatorConfig:
		return Spec{Type: c.EvaluatorType(), OutputURI: c.OutputURI}, nil
	case nil:
		return Spec{}, cfgerr.New("evaluator", cfgerr.Missing("evaluator"))
	default:
		return Spec{}, cfgerr.Newf("evaluator", "evaluator type %s cannot be serialised", cfg.EvaluatorType())
	}
}
