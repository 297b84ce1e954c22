package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/geopipe/pkg/pipeline/model"
)

// Step is a node of the pipeline. Output is closed once the step is done.
type Step[O any] struct {
	Details *model.StepInfo
	Output  chan O
}

type outputHook func(iterationDuration, computationDuration time.Duration) error

func sequentialOneToOneFn[I any, O any](ctx context.Context, goIdx int, input *Step[I], output *Step[O], oneToOneFn func(context.Context, I) (O, error), onOutput outputHook) error {
outer:
	for {
		start := time.Now()
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "go routine %d", goIdx)
		case in, ok := <-input.Output:
			if !ok {
				break outer
			}
			startFn := time.Now()
			out, err := oneToOneFn(ctx, in)
			if err != nil {
				return errors.Wrapf(err, "go routine %d", goIdx)
			}
			endFn := time.Since(startFn)

			// we check the context again to make sure all go routines currently running
			// stop to add new elements to the pipeline
			select {
			case <-ctx.Done():
				return errors.Wrapf(ctx.Err(), "go routine %d", goIdx)
			case output.Output <- out:
				err = onOutput(time.Since(start), endFn)
				if err != nil {
					return errors.Wrapf(err, "go routine %d", goIdx)
				}
			}
		}
	}

	return nil
}

func concurrentOneToOneFn[I any, O any](ctx context.Context, input *Step[I], output *Step[O], oneToOneFn func(context.Context, I) (O, error), onOutput outputHook) error {
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(output.Details.Concurrent)
	// each consumer stops as soon as an error happens
	for goIdx := 0; goIdx < output.Details.Concurrent; goIdx++ {
		localGoIdx := goIdx
		errGrp.Go(func() error {
			return sequentialOneToOneFn(dCtx, localGoIdx, input, output, oneToOneFn, onOutput)
		})
	}

	return errGrp.Wait()
}

func oneToOne[I any, O any](ctx context.Context, input *Step[I], output *Step[O], oneToOneFn func(context.Context, I) (O, error), onOutput outputHook) error {
	if output.Details.Concurrent <= 0 {
		output.Details.Concurrent = 1
	}
	if onOutput == nil {
		onOutput = func(time.Duration, time.Duration) error { return nil }
	}
	if output.Details.Concurrent == 1 {
		return sequentialOneToOneFn(ctx, 0, input, output, oneToOneFn, onOutput)
	}

	return concurrentOneToOneFn(ctx, input, output, oneToOneFn, onOutput)
}

func (p *Pipeline) stepOutputHook(parent, step *model.StepInfo) outputHook {
	return func(iterationDuration, computationDuration time.Duration) error {
		for _, opt := range p.opts {
			err := opt.OnStepOutput(parent, step, iterationDuration, computationDuration)
			if err != nil {
				return errors.Wrap(err, "unable to run on step output function")
			}
		}

		return nil
	}
}

// AddStepOneToOne adds a step transforming every element of input into exactly one element.
func AddStepOneToOne[I any, O any](p *Pipeline, name string, input *Step[I], oneToOneFn func(context.Context, I) (O, error), opts ...StepOption[O]) (*Step[O], error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	if input == nil {
		return nil, ErrInputMustBeSet
	}
	if name == "" {
		return nil, ErrNameMustBeSet
	}

	step := &Step[O]{
		Details: &model.StepInfo{
			Type:       model.NormalStepType,
			Name:       name,
			Concurrent: 1,
		},
		Output: make(chan O),
	}
	for _, opt := range opts {
		opt(step)
	}
	if step.Details.Concurrent <= 0 {
		step.Details.Concurrent = 1
	}
	for _, opt := range p.opts {
		err := opt.PrepareStep(input.Details, step.Details)
		if err != nil {
			return nil, errors.Wrap(err, "unable to run prepare step function")
		}
	}

	errC := make(chan error, 1)
	p.errcList.add(newErrorChan(name, errC))

	onOutput := p.stepOutputHook(input.Details, step.Details)
	go func() {
		defer func() {
			close(step.Output)
			close(errC)
		}()
		err := oneToOne(p.ctx, input, step, oneToOneFn, onOutput)
		if err != nil {
			errC <- err
		}
	}()

	return step, nil
}
