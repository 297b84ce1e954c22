package command

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/geopipe/internal/logger"
	"github.com/askiada/geopipe/pkg/pipeline"
	"github.com/askiada/geopipe/pkg/pipeline/measure"
)

// workItem is one analyzer or evaluator bound to the scenes of a command.
type workItem struct {
	name    string
	process func(ctx context.Context) error
}

type workResult struct {
	name    string
	elapsed time.Duration
}

// runWorkItems runs items through a pipeline: a root step emits them, a processing step runs up to
// concurrency of them at once and a sink reports completions. The first failure stops the run.
func runWorkItems(ctx context.Context, log logger.Logger, rootName string, items []workItem, concurrency int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pipe, err := pipeline.New(ctx, measure.PipelineMeasure(measure.NewDefaultMeasure(), log))
	if err != nil {
		return errors.Wrap(err, "unable to create pipeline")
	}

	root, err := pipeline.AddRootStep(pipe, rootName, func(ctx context.Context, rootChan chan<- workItem) error {
		for _, item := range items {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case rootChan <- item:
			}
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "unable to add root step")
	}

	processed, err := pipeline.AddStepOneToOne(pipe, "process", root, func(ctx context.Context, item workItem) (workResult, error) {
		log.Debug("processing started", "step", item.name)
		start := time.Now()
		err := item.process(ctx)
		if err != nil {
			return workResult{}, errors.Wrap(err, item.name)
		}

		return workResult{name: item.name, elapsed: time.Since(start)}, nil
	}, pipeline.StepConcurrency[workResult](concurrency))
	if err != nil {
		return errors.Wrap(err, "unable to add process step")
	}

	err = pipeline.AddSink(pipe, "report", processed, func(_ context.Context, res workResult) error {
		log.Info("processing finished", "step", res.name, "elapsed", res.elapsed)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "unable to add report sink")
	}

	return pipe.Run()
}
