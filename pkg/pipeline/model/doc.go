// Package model provides the data structures shared by the pipeline package and its options.
// It defines the step details handed to pipeline options and the option contract itself.
package model
