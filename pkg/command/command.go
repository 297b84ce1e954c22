package command

import (
	"context"
	"sort"

	"github.com/askiada/geopipe/pkg/analyzer"
	"github.com/askiada/geopipe/pkg/evaluation"
	"github.com/askiada/geopipe/pkg/plugin"
)

// Type identifies a command.
type Type string

const (
	Analyze Type = "ANALYZE"
	Eval    Type = "EVAL"
)

// Command is an executable command bound to its configuration.
type Command interface {
	// Run executes the command. tmpDir is a scratch directory owned by the caller.
	Run(ctx context.Context, tmpDir string) error
}

// Config is a built command configuration.
type Config interface {
	CommandType() Type
	RootURI() string
	// ReportIO lists the files the command reads and writes.
	ReportIO() IODefinition
	CreateCommand(opts ...Option) Command
}

// IODefinition holds the deduplicated, sorted inputs and outputs of a command.
type IODefinition struct {
	Inputs  []string
	Outputs []string
}

func newIODefinition(inputs, outputs []string) IODefinition {
	return IODefinition{
		Inputs:  uniqueSorted(inputs),
		Outputs: uniqueSorted(outputs),
	}
}

func uniqueSorted(uris []string) []string {
	seen := make(map[string]struct{}, len(uris))
	res := make([]string, 0, len(uris))
	for _, uri := range uris {
		if uri == "" {
			continue
		}
		if _, ok := seen[uri]; ok {
			continue
		}
		seen[uri] = struct{}{}
		res = append(res, uri)
	}
	sort.Strings(res)

	return res
}

type options struct {
	analyzers   *plugin.Registry[analyzer.Factory]
	evaluators  *plugin.Registry[evaluation.Factory]
	concurrency int
}

func newOptions(opts ...Option) options {
	o := options{
		analyzers:   analyzer.DefaultRegistry(),
		evaluators:  evaluation.DefaultRegistry(),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.concurrency <= 0 {
		o.concurrency = 1
	}

	return o
}

// Option configures a command created by CreateCommand.
type Option func(o *options)

// WithAnalyzerRegistry resolves analyzers in reg instead of the default registry.
func WithAnalyzerRegistry(reg *plugin.Registry[analyzer.Factory]) Option {
	return func(o *options) {
		if reg != nil {
			o.analyzers = reg
		}
	}
}

// WithEvaluatorRegistry resolves evaluators in reg instead of the default registry.
func WithEvaluatorRegistry(reg *plugin.Registry[evaluation.Factory]) Option {
	return func(o *options) {
		if reg != nil {
			o.evaluators = reg
		}
	}
}

// WithConcurrency sets how many analyzers or evaluators run at the same time.
func WithConcurrency(concurrency int) Option {
	return func(o *options) {
		o.concurrency = concurrency
	}
}
