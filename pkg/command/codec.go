package command

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/geopipe/pkg/analyzer"
	"github.com/askiada/geopipe/pkg/cfgerr"
	"github.com/askiada/geopipe/pkg/data"
	"github.com/askiada/geopipe/pkg/evaluation"
	"github.com/askiada/geopipe/pkg/task"
)

// Document is the YAML layout of a command file.
type Document struct {
	Commands []Spec `yaml:"commands"`
}

// Spec is the serialised form of a command configuration.
type Spec struct {
	Type       Type               `yaml:"type"`
	RootURI    string             `yaml:"root_uri,omitempty"`
	Task       *task.Spec         `yaml:"task,omitempty"`
	Scenes     []data.SceneConfig `yaml:"scenes,omitempty"`
	Analyzers  []analyzer.Spec    `yaml:"analyzers,omitempty"`
	Evaluators []evaluation.Spec  `yaml:"evaluators,omitempty"`
}

// LoadFile reads and builds the commands of a YAML file.
func LoadFile(path string) ([]Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}
	defer file.Close()

	configs, err := Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load %s", path)
	}

	return configs, nil
}

// Decode builds the commands of a YAML document. Every command goes through its builder,
// so decoded configurations satisfy the same rules as programmatic ones. A stream holding more
// than one document is rejected.
func Decode(reader io.Reader) ([]Config, error) {
	dec := yaml.NewDecoder(reader)
	dec.KnownFields(true)

	var doc Document
	err := dec.Decode(&doc)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, cfgerr.New("command file", err)
	}
	if err == nil {
		var extra yaml.Node
		err = dec.Decode(&extra)
		switch {
		case err == nil:
			return nil, cfgerr.New("command file", cfgerr.Invalid("documents", "must hold a single document"))
		case !errors.Is(err, io.EOF):
			return nil, cfgerr.New("command file", err)
		}
	}
	if len(doc.Commands) == 0 {
		return nil, cfgerr.New("command file", cfgerr.Missing("commands"))
	}

	configs := make([]Config, 0, len(doc.Commands))
	for idx, spec := range doc.Commands {
		cfg, err := FromSpec(spec)
		if err != nil {
			return nil, errors.Wrapf(err, "command %d", idx)
		}
		configs = append(configs, cfg)
	}

	return configs, nil
}

// FromSpec builds the command described by spec.
func FromSpec(spec Spec) (Config, error) {
	var taskCfg task.Config
	if spec.Task != nil {
		cfg, err := task.FromSpec(*spec.Task)
		if err != nil {
			return nil, err
		}
		taskCfg = cfg
	}

	switch spec.Type {
	case Analyze:
		if len(spec.Evaluators) > 0 {
			return nil, cfgerr.New("analyze command", cfgerr.Invalid("evaluators", "are not allowed"))
		}
		analyzers := make([]analyzer.Config, 0, len(spec.Analyzers))
		for idx, aSpec := range spec.Analyzers {
			cfg, err := analyzer.FromSpec(aSpec)
			if err != nil {
				return nil, errors.Wrapf(err, "analyzer %d", idx)
			}
			analyzers = append(analyzers, cfg)
		}

		cfg, err := NewAnalyzeCommandConfigBuilder().
			WithTask(taskCfg).
			WithRootURI(spec.RootURI).
			WithScenes(spec.Scenes).
			WithAnalyzers(analyzers).
			Build()
		if err != nil {
			return nil, err
		}

		return cfg, nil
	case Eval:
		if len(spec.Analyzers) > 0 {
			return nil, cfgerr.New("eval command", cfgerr.Invalid("analyzers", "are not allowed"))
		}
		evaluators := make([]evaluation.Config, 0, len(spec.Evaluators))
		for idx, eSpec := range spec.Evaluators {
			cfg, err := evaluation.FromSpec(eSpec)
			if err != nil {
				return nil, errors.Wrapf(err, "evaluator %d", idx)
			}
			evaluators = append(evaluators, cfg)
		}

		cfg, err := NewEvalCommandConfigBuilder().
			WithTask(taskCfg).
			WithRootURI(spec.RootURI).
			WithScenes(spec.Scenes).
			WithEvaluators(evaluators).
			Build()
		if err != nil {
			return nil, err
		}

		return cfg, nil
	case "":
		return nil, cfgerr.New("command", cfgerr.Missing("type"))
	default:
		return nil, cfgerr.New("command", cfgerr.Invalid("type", fmt.Sprintf("unknown command type %s", spec.Type)))
	}
}

// ToSpec serialises a built command configuration.
func ToSpec(cfg Config) (Spec, error) {
	switch c := cfg.(type) {
	case *AnalyzeCommandConfig:
		spec, err := baseSpec(Analyze, &c.baseConfig)
		if err != nil {
			return Spec{}, err
		}
		for _, aCfg := range c.analyzers {
			aSpec, err := analyzer.ToSpec(aCfg)
			if err != nil {
				return Spec{}, err
			}
			spec.Analyzers = append(spec.Analyzers, aSpec)
		}

		return spec, nil
	case *EvalCommandConfig:
		spec, err := baseSpec(Eval, &c.baseConfig)
		if err != nil {
			return Spec{}, err
		}
		for _, eCfg := range c.evaluators {
			eSpec, err := evaluation.ToSpec(eCfg)
			if err != nil {
				return Spec{}, err
			}
			spec.Evaluators = append(spec.Evaluators, eSpec)
		}

		return spec, nil
	default:
		return Spec{}, cfgerr.Newf("command", "command configuration %T cannot be serialised", cfg)
	}
}

func baseSpec(commandType Type, c *baseConfig) (Spec, error) {
	taskSpec, err := task.ToSpec(c.task)
	if err != nil {
		return Spec{}, err
	}

	return Spec{
		Type:    commandType,
		RootURI: c.rootURI,
		Task:    &taskSpec,
		Scenes:  c.Scenes(),
	}, nil
}

// Encode writes configs as a YAML command file.
func Encode(writer io.Writer, configs ...Config) error {
	doc := Document{Commands: make([]Spec, 0, len(configs))}
	for idx, cfg := range configs {
		spec, err := ToSpec(cfg)
		if err != nil {
			return errors.Wrapf(err, "command %d", idx)
		}
		doc.Commands = append(doc.Commands, spec)
	}

	enc := yaml.NewEncoder(writer)
	enc.SetIndent(2)
	err := enc.Encode(doc)
	if err != nil {
		return errors.Wrap(err, "unable to encode commands")
	}

	return errors.Wrap(enc.Close(), "unable to flush commands")
}
