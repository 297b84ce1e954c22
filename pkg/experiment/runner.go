package experiment

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/askiada/geopipe/internal/logger"
	"github.com/askiada/geopipe/pkg/cfgerr"
	"github.com/askiada/geopipe/pkg/command"
)

const fileScheme = "file://"

// Step is a command of the experiment as it will be run.
type Step struct {
	Name   string
	Config command.Config
	IO     command.IODefinition

	// Skip is set when every output exists and no upstream command runs.
	Skip bool
}

// Report summarises a run.
type Report struct {
	RunID    string
	Executed []string
	Skipped  []string

	// Planned lists the commands a dry run would have executed.
	Planned []string
}

// Runner executes commands in dependency order.
type Runner struct {
	opts options
	dag  *dag
}

// NewRunner links configs into a graph. It fails with a configuration error when two commands
// write the same output or when commands depend on each other.
func NewRunner(configs []command.Config, opts ...Option) (*Runner, error) {
	d, err := newDAG(configs)
	if err != nil {
		return nil, err
	}

	return &Runner{
		opts: newOptions(opts...),
		dag:  d,
	}, nil
}

// Commands returns the command names in run order.
func (r *Runner) Commands() []string {
	names := make([]string, 0, len(r.dag.order))
	for _, n := range r.dag.order {
		names = append(names, n.name)
	}

	return names
}

// Plan checks that every input is available and decides which commands run.
func (r *Runner) Plan() ([]Step, error) {
	var errs []error
	for _, n := range r.dag.order {
		for _, uri := range n.io.Inputs {
			if _, ok := r.dag.producers[uri]; ok {
				continue
			}
			exists, err := r.exists(uri, true)
			if err != nil {
				return nil, err
			}
			if !exists {
				errs = append(errs, cfgerr.Invalid(n.name, fmt.Sprintf("input %s does not exist", uri)))
			}
		}
	}
	err := cfgerr.New("experiment", errs...)
	if err != nil {
		return nil, err
	}

	predecessors, err := r.dag.graph.PredecessorMap()
	if err != nil {
		return nil, errors.Wrap(err, "unable to get predecessors")
	}

	running := make(map[string]bool, len(r.dag.order))
	steps := make([]Step, 0, len(r.dag.order))
	for _, n := range r.dag.order {
		skip, err := r.upToDate(n)
		if err != nil {
			return nil, err
		}
		for parent := range predecessors[n.name] {
			if running[parent] {
				skip = false
			}
		}
		running[n.name] = !skip
		steps = append(steps, Step{
			Name:   n.name,
			Config: n.cfg,
			IO:     n.io,
			Skip:   skip,
		})
	}

	return steps, nil
}

func (r *Runner) upToDate(n *node) (bool, error) {
	if r.opts.rerun || len(n.io.Outputs) == 0 {
		return false, nil
	}
	for _, uri := range n.io.Outputs {
		exists, err := r.exists(uri, false)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, nil
		}
	}

	return true, nil
}

// exists reports whether uri is present on the runner filesystem. file:// URIs are local paths.
// Other remote URIs cannot be checked, assumeRemote is returned for them.
func (r *Runner) exists(uri string, assumeRemote bool) (bool, error) {
	uri = strings.TrimPrefix(uri, fileScheme)
	if strings.Contains(uri, "://") {
		return assumeRemote, nil
	}
	exists, err := afero.Exists(r.opts.fs, uri)
	if err != nil {
		return false, errors.Wrapf(err, "unable to check %s", uri)
	}

	return exists, nil
}

// Run executes the plan. Every log line carries the run id of the returned report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}
	log := logger.FromContext(ctx).With("run_id", report.RunID)
	ctx = logger.ContextWithLogger(ctx, log)

	steps, err := r.Plan()
	if err != nil {
		return report, err
	}

	for _, step := range steps {
		if ctx.Err() != nil {
			return report, errors.Wrap(ctx.Err(), "experiment interrupted")
		}

		stepLog := log.With("command", step.Name)
		switch {
		case step.Skip:
			stepLog.Info("outputs exist, skipping command")
			report.Skipped = append(report.Skipped, step.Name)
		case r.opts.dryRun:
			stepLog.Info("dry run, command not executed", "inputs", step.IO.Inputs, "outputs", step.IO.Outputs)
			report.Planned = append(report.Planned, step.Name)
		default:
			stepLog.Info("running command")
			err := r.runStep(logger.ContextWithLogger(ctx, stepLog), step)
			if err != nil {
				return report, errors.Wrapf(err, "command %s", step.Name)
			}
			report.Executed = append(report.Executed, step.Name)
		}
	}

	log.Info("experiment finished",
		"executed", len(report.Executed),
		"skipped", len(report.Skipped),
		"planned", len(report.Planned))

	return report, nil
}

func (r *Runner) runStep(ctx context.Context, step Step) (err error) {
	fs := r.opts.fs
	err = fs.MkdirAll(r.opts.tmpDir, 0o755)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", r.opts.tmpDir)
	}
	tmpDir, err := afero.TempDir(fs, r.opts.tmpDir, step.Name+"-")
	if err != nil {
		return errors.Wrap(err, "unable to create temporary directory")
	}
	defer func() {
		rmErr := fs.RemoveAll(tmpDir)
		if rmErr != nil && err == nil {
			err = errors.Wrapf(rmErr, "unable to remove %s", tmpDir)
		}
	}()

	return step.Config.CreateCommand(r.opts.commandOpts...).Run(ctx, tmpDir)
}

// WriteDOT renders the command graph in Graphviz DOT.
func (r *Runner) WriteDOT(w io.Writer, opts ...DOTOption) error {
	desc, err := r.dag.description(opts...)
	if err != nil {
		return err
	}

	return renderDOT(w, desc)
}
