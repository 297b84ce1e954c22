// Package pipeline provides a channel based pipeline used to run command work items.
//
// A pipeline starts with a root step producing elements, continues with steps transforming them, possibly with
// several goroutines per step, and ends with a sink consuming them. Every step runs in its own goroutine as soon as
// it is added, and the elements flow through unbuffered channels.
//
// The pipeline stops on the first encountered error: the shared context is cancelled so that every other step
// returns, and Run reports the error decorated with the name of the step that produced it.
//
// Pipeline options (see the model package) are notified when steps are prepared and each time a step produces an
// output. The measure package uses these hooks to report step durations.
package pipeline
