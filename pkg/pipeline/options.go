package pipeline

// StepOption configures a step when it is added to the pipeline.
type StepOption[O any] func(s *Step[O])

// StepConcurrency sets the number of goroutines consuming the input of the step.
func StepConcurrency[O any](concurrent int) StepOption[O] {
	return func(s *Step[O]) {
		s.Details.Concurrent = concurrent
	}
}
