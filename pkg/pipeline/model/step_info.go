package model

// StepType identifies the role of a step in a pipeline.
type StepType string

const (
	RootStepType   StepType = "root"
	NormalStepType StepType = "step"
	SinkStepType   StepType = "sink"
)

// StepInfo describes a step to the pipeline options.
type StepInfo struct {
	Type       StepType
	Name       string
	Concurrent int
}

// StartStep is the virtual parent of every root step.
var StartStep = &StepInfo{Type: RootStepType, Name: "start", Concurrent: 1}
