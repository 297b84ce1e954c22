package experiment

import (
	"os"

	"github.com/spf13/afero"

	"github.com/askiada/geopipe/pkg/command"
)

type options struct {
	fs          afero.Fs
	tmpDir      string
	rerun       bool
	dryRun      bool
	commandOpts []command.Option
}

// Option configures a Runner.
type Option func(o *options)

// WithFs checks inputs and outputs and creates temporary directories on fs.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithTmpDir sets the directory holding the per command temporary directories.
func WithTmpDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.tmpDir = dir
		}
	}
}

// WithRerun runs commands even when all their outputs exist.
func WithRerun(rerun bool) Option {
	return func(o *options) {
		o.rerun = rerun
	}
}

// WithDryRun logs the plan without running any command.
func WithDryRun(dryRun bool) Option {
	return func(o *options) {
		o.dryRun = dryRun
	}
}

// WithCommandOptions forwards opts to every command created by the runner.
func WithCommandOptions(opts ...command.Option) Option {
	return func(o *options) {
		o.commandOpts = append(o.commandOpts, opts...)
	}
}

func newOptions(opts ...Option) options {
	o := options{
		fs:     afero.NewOsFs(),
		tmpDir: os.TempDir(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
