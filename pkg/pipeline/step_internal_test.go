package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/askiada/geopipe/pkg/pipeline/model"
)

func TestOneToOne(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		concurrent int
	}{
		"sequential":     {concurrent: 1},
		"sequential v2":  {concurrent: 0},
		"concurrent 2":   {concurrent: 2},
		"concurrent 100": {concurrent: 100},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithCancel(t.Context())
			defer cancel()

			input := &Step[int]{Output: createInputChan(t, 10), Details: &model.StepInfo{Name: "input"}}
			output := newTestStep(tc.concurrent)
			got := make(chan []int, 1)

			go func() {
				got <- processOutputChan(t, output.Output)
			}()

			go func() {
				defer close(output.Output)
				err := oneToOne(ctx, input, output, func(ctx context.Context, i int) (int, error) {
					return i, nil
				}, nil)
				assert.NoError(t, err)
			}()

			assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, <-got)
		})
	}
}

func TestOneToOneCancelInput(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		concurrent int
	}{
		"sequential":     {concurrent: 1},
		"concurrent 2":   {concurrent: 2},
		"concurrent 100": {concurrent: 100},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithCancel(t.Context())
			defer cancel()

			input := &Step[int]{Output: createInputChanWithCancel(t, 10, 5, cancel), Details: &model.StepInfo{Name: "input"}}
			output := newTestStep(tc.concurrent)
			got := make(chan []int, 1)

			go func() {
				got <- processOutputChan(t, output.Output)
			}()

			errc := make(chan error, 1)
			go func() {
				defer close(output.Output)
				errc <- oneToOne(ctx, input, output, func(ctx context.Context, i int) (int, error) {
					return i, nil
				}, nil)
			}()

			assert.LessOrEqual(t, len(<-got), 10)
			assert.ErrorIs(t, <-errc, context.Canceled)
		})
	}
}

func TestOneToOneError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	input := &Step[int]{Output: createInputChanWithCancel(t, 10, -1, cancel), Details: &model.StepInfo{Name: "input"}}
	output := newTestStep(4)

	go processOutputChan(t, output.Output)

	err := oneToOne(ctx, input, output, func(ctx context.Context, i int) (int, error) {
		if i == 3 {
			return 0, assert.AnError
		}

		return i, nil
	}, nil)
	close(output.Output)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestOneToOneOutputHook(t *testing.T) {
	t.Parallel()

	input := &Step[int]{Output: createInputChan(t, 3), Details: &model.StepInfo{Name: "input"}}
	output := newTestStep(1)
	calls := 0
	got := make(chan []int, 1)

	go func() {
		got <- processOutputChan(t, output.Output)
	}()

	err := oneToOne(t.Context(), input, output, func(ctx context.Context, i int) (int, error) {
		return i * 2, nil
	}, func(iterationDuration, computationDuration time.Duration) error {
		calls++
		assert.GreaterOrEqual(t, iterationDuration, computationDuration)

		return nil
	})
	close(output.Output)

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.ElementsMatch(t, []int{0, 2, 4}, <-got)
}
