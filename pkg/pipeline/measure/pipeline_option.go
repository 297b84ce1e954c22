package measure

import (
	"time"

	"github.com/askiada/geopipe/internal/logger"
	"github.com/askiada/geopipe/pkg/pipeline/model"
)

type pipelineMeasure struct {
	*DefaultMeasure
	log logger.Logger
}

func (pm *pipelineMeasure) New() error {
	pm.AddMetric(model.StartStep.Name, 1)
	return nil
}

func (pm *pipelineMeasure) PrepareStep(_, step *model.StepInfo) error {
	pm.AddMetric(step.Name, step.Concurrent)
	return nil
}

func (pm *pipelineMeasure) PrepareSink(_, step *model.StepInfo) error {
	pm.AddMetric(step.Name, step.Concurrent)
	return nil
}

func (pm *pipelineMeasure) OnStepOutput(parentStep, step *model.StepInfo, iterationDuration, computationDuration time.Duration) error {
	return pm.record(parentStep, step, iterationDuration, computationDuration)
}

func (pm *pipelineMeasure) OnSinkOutput(parentStep, step *model.StepInfo, iterationDuration, computationDuration time.Duration) error {
	return pm.record(parentStep, step, iterationDuration, computationDuration)
}

func (pm *pipelineMeasure) record(parentStep, step *model.StepInfo, iterationDuration, computationDuration time.Duration) error {
	mt := pm.GetMetric(step.Name)
	if mt == nil {
		return nil
	}
	mt.AddDuration(computationDuration)
	if parentStep != nil {
		mt.AddTransportDuration(parentStep.Name, iterationDuration)
	}

	return nil
}

func (pm *pipelineMeasure) AfterSink(step *model.StepInfo, totalDuration time.Duration) error {
	if mt := pm.GetMetric(step.Name); mt != nil {
		mt.SetTotalDuration(totalDuration)
	}

	return nil
}

// Finish reports every step that produced at least one output.
func (pm *pipelineMeasure) Finish() error {
	if pm.log == nil {
		return nil
	}
	for _, name := range pm.StepNames() {
		mt := pm.GetMetric(name)
		if mt.Count() == 0 {
			continue
		}
		keyvals := []any{"step", name, "count", mt.Count(), "avg", mt.AVGDuration()}
		if total := mt.GetTotalDuration(); total > 0 {
			keyvals = append(keyvals, "total", total)
		}
		pm.log.Debug("pipeline step measured", keyvals...)
	}

	return nil
}

// PipelineMeasure returns a pipeline option recording step durations into msr.
// The durations are logged with log when the pipeline finishes, log may be nil.
func PipelineMeasure(msr *DefaultMeasure, log logger.Logger) model.PipelineOption {
	return &pipelineMeasure{DefaultMeasure: msr, log: log}
}
