// Package task describes the machine learning task a command works for.
package task

import (
	"github.com/askiada/geopipe/pkg/cfgerr"
)

const (
	ChipClassification = "CHIP_CLASSIFICATION"
	ObjectDetection    = "OBJECT_DETECTION"
)

// Config is a task configuration. Commands treat it as opaque and hand it to analyzers and evaluators.
type Config interface {
	TaskType() string
	// Clone returns a copy sharing no memory with the receiver.
	Clone() Config
}

type ChipClassificationConfig struct {
	Classes []string
}

func (ChipClassificationConfig) TaskType() string { return ChipClassification }

func (c ChipClassificationConfig) Clone() Config {
	return ChipClassificationConfig{Classes: cloneClasses(c.Classes)}
}

type ObjectDetectionConfig struct {
	Classes []string
}

func (ObjectDetectionConfig) TaskType() string { return ObjectDetection }

func (c ObjectDetectionConfig) Clone() Config {
	return ObjectDetectionConfig{Classes: cloneClasses(c.Classes)}
}

func cloneClasses(classes []string) []string {
	return append([]string(nil), classes...)
}

// Spec is the serialised form of a task configuration.
type Spec struct {
	Type    string   `yaml:"type"`
	Classes []string `yaml:"classes,omitempty"`
}

func FromSpec(spec Spec) (Config, error) {
	switch spec.Type {
	case ChipClassification:
		return ChipClassificationConfig{Classes: spec.Classes}, nil
	case ObjectDetection:
		return ObjectDetectionConfig{Classes: spec.Classes}, nil
	case "":
		return nil, cfgerr.New("task", cfgerr.Missing("type"))
	default:
		return nil, cfgerr.New("task", cfgerr.Invalid("type", "unknown task type "+spec.Type))
	}
}

func ToSpec(cfg Config) (Spec, error) {
	switch c := cfg.(type) {
	case ChipClassificationConfig:
		return Spec{Type: c.TaskType(), Classes: c.Classes}, nil
	case ObjectDetectionConfig:
		return Spec{Type: c.TaskType(), Classes: c.Classes}, nil
	case nil:
		return Spec{}, cfgerr.New("task", cfgerr.Missing("task"))
	default:
		return Spec{}, cfgerr.Newf("task", "task type %s cannot be serialised", cfg.TaskType())
	}
}
