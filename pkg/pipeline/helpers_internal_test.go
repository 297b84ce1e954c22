package pipeline

import (
	"context"
	"testing"

	"github.com/askiada/geopipe/pkg/pipeline/model"
)

func createInputChan(t *testing.T, total int) chan int {
	t.Helper()

	inputChan := make(chan int)

	go func() {
		defer close(inputChan)

		for i := range total {
			inputChan <- i
		}
	}()

	return inputChan
}

func createInputChanWithCancel(t *testing.T, total int, offset int, cancel context.CancelFunc) chan int {
	t.Helper()

	inputChan := make(chan int)

	go func() {
		defer close(inputChan)

		for i := range total {
			if i == offset {
				cancel()
				<-t.Context().Done()

				return
			}

			select {
			case inputChan <- i:
			case <-t.Context().Done():
				return
			}
		}
	}()

	return inputChan
}

func processOutputChan(t *testing.T, output <-chan int) []int {
	t.Helper()

	res := []int{}

	for out := range output {
		res = append(res, out)
	}

	return res
}

func newTestStep(concurrent int) *Step[int] {
	return &Step[int]{
		Output:  make(chan int),
		Details: &model.StepInfo{Name: "output", Concurrent: concurrent},
	}
}
