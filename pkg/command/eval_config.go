package command

import (
	"github.com/askiada/geopipe/pkg/cfgerr"
	"github.com/askiada/geopipe/pkg/data"
	"github.com/askiada/geopipe/pkg/evaluation"
	"github.com/askiada/geopipe/pkg/task"
)

// EvalCommandConfig configures the command evaluating predictions against ground truth.
type EvalCommandConfig struct {
	baseConfig
	evaluators []evaluation.Config
}

// EvalCommandConfigBuilder collects the fields of an EvalCommandConfig.
type EvalCommandConfigBuilder struct {
	baseBuilder
	evaluators []evaluation.Config
}

func NewEvalCommandConfigBuilder() *EvalCommandConfigBuilder {
	return &EvalCommandConfigBuilder{}
}

func (b *EvalCommandConfigBuilder) WithTask(taskCfg task.Config) *EvalCommandConfigBuilder {
	b.task = taskCfg
	return b
}

func (b *EvalCommandConfigBuilder) WithRootURI(rootURI string) *EvalCommandConfigBuilder {
	b.rootURI = rootURI
	return b
}

func (b *EvalCommandConfigBuilder) WithScenes(scenes []data.SceneConfig) *EvalCommandConfigBuilder {
	b.scenes = scenes
	return b
}

func (b *EvalCommandConfigBuilder) WithEvaluators(evaluators []evaluation.Config) *EvalCommandConfigBuilder {
	b.evaluators = evaluators
	return b
}

// Build validates the builder and returns an immutable configuration.
func (b *EvalCommandConfigBuilder) Build() (*EvalCommandConfig, error) {
	errs := b.validate()
	errs = append(errs, requireList("evaluators", b.evaluators)...)
	if err := cfgerr.New("eval command", errs...); err != nil {
		return nil, err
	}

	evaluators := make([]evaluation.Config, len(b.evaluators))
	for idx, cfg := range b.evaluators {
		evaluators[idx] = cfg.WithRootURI(b.rootURI)
	}

	return &EvalCommandConfig{
		baseConfig: b.build(),
		evaluators: evaluators,
	}, nil
}

func (c *EvalCommandConfig) CommandType() Type {
	return Eval
}

func (c *EvalCommandConfig) Evaluators() []evaluation.Config {
	return append([]evaluation.Config(nil), c.evaluators...)
}

func (c *EvalCommandConfig) ToBuilder() *EvalCommandConfigBuilder {
	return &EvalCommandConfigBuilder{
		baseBuilder: c.toBuilder(),
		evaluators:  c.Evaluators(),
	}
}

// ReportIO reads the labels and predictions of the scenes and writes the evaluator outputs.
func (c *EvalCommandConfig) ReportIO() IODefinition {
	var inputs, outputs []string
	for _, scene := range c.scenes {
		inputs = append(inputs, scene.LabelURI, scene.PredictionURI)
	}
	for _, cfg := range c.evaluators {
		outputs = append(outputs, cfg.OutputURIs()...)
	}

	return newIODefinition(inputs, outputs)
}

func (c *EvalCommandConfig) CreateCommand(opts ...Option) Command {
	return &EvalCommand{
		config: c,
		opts:   newOptions(opts...),
	}
}

var _ Config = (*EvalCommandConfig)(nil)
