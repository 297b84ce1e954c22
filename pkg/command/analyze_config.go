package command

import (
	"github.com/askiada/geopipe/pkg/analyzer"
	"github.com/askiada/geopipe/pkg/cfgerr"
	"github.com/askiada/geopipe/pkg/data"
	"github.com/askiada/geopipe/pkg/task"
)

// AnalyzeCommandConfig configures the command computing dataset statistics over scenes.
type AnalyzeCommandConfig struct {
	baseConfig
	analyzers []analyzer.Config
}

// AnalyzeCommandConfigBuilder collects the fields of an AnalyzeCommandConfig.
// Missing fields are reported when Build executes.
type AnalyzeCommandConfigBuilder struct {
	baseBuilder
	analyzers []analyzer.Config
}

func NewAnalyzeCommandConfigBuilder() *AnalyzeCommandConfigBuilder {
	return &AnalyzeCommandConfigBuilder{}
}

func (b *AnalyzeCommandConfigBuilder) WithTask(taskCfg task.Config) *AnalyzeCommandConfigBuilder {
	b.task = taskCfg
	return b
}

// WithRootURI sets the directory under which default outputs are written.
func (b *AnalyzeCommandConfigBuilder) WithRootURI(rootURI string) *AnalyzeCommandConfigBuilder {
	b.rootURI = rootURI
	return b
}

func (b *AnalyzeCommandConfigBuilder) WithScenes(scenes []data.SceneConfig) *AnalyzeCommandConfigBuilder {
	b.scenes = scenes
	return b
}

func (b *AnalyzeCommandConfigBuilder) WithAnalyzers(analyzers []analyzer.Config) *AnalyzeCommandConfigBuilder {
	b.analyzers = analyzers
	return b
}

// Build validates the builder and returns an immutable configuration.
// Analyzer outputs left unset are placed under the root URI.
func (b *AnalyzeCommandConfigBuilder) Build() (*AnalyzeCommandConfig, error) {
	errs := b.validate()
	errs = append(errs, requireList("analyzers", b.analyzers)...)
	if err := cfgerr.New("analyze command", errs...); err != nil {
		return nil, err
	}

	analyzers := make([]analyzer.Config, len(b.analyzers))
	for idx, cfg := range b.analyzers {
		analyzers[idx] = cfg.WithRootURI(b.rootURI)
	}

	return &AnalyzeCommandConfig{
		baseConfig: b.build(),
		analyzers:  analyzers,
	}, nil
}

func (c *AnalyzeCommandConfig) CommandType() Type {
	return Analyze
}

// Analyzers returns a copy of the analyzer configurations.
func (c *AnalyzeCommandConfig) Analyzers() []analyzer.Config {
	return append([]analyzer.Config(nil), c.analyzers...)
}

// ToBuilder returns a builder holding a copy of the configuration.
func (c *AnalyzeCommandConfig) ToBuilder() *AnalyzeCommandConfigBuilder {
	return &AnalyzeCommandConfigBuilder{
		baseBuilder: c.toBuilder(),
		analyzers:   c.Analyzers(),
	}
}

// ReportIO reads the imagery and labels of the scenes and writes the analyzer outputs.
func (c *AnalyzeCommandConfig) ReportIO() IODefinition {
	var inputs, outputs []string
	for _, scene := range c.scenes {
		inputs = append(inputs, scene.InputURIs()...)
	}
	for _, cfg := range c.analyzers {
		outputs = append(outputs, cfg.OutputURIs()...)
	}

	return newIODefinition(inputs, outputs)
}

func (c *AnalyzeCommandConfig) CreateCommand(opts ...Option) Command {
	return &AnalyzeCommand{
		config: c,
		opts:   newOptions(opts...),
	}
}

var _ Config = (*AnalyzeCommandConfig)(nil)
