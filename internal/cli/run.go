package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askiada/geopipe/pkg/command"
	"github.com/askiada/geopipe/pkg/experiment"
)

func runCmd(a *app) *cobra.Command {
	var dryRun bool

	c := &cobra.Command{
		Use:   "run <commands.yaml>",
		Short: "Run the commands of a file in dependency order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := a.runner(args[0], experiment.WithDryRun(dryRun))
			if err != nil {
				return err
			}

			report, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d executed, %d skipped, %d planned\n",
				report.RunID, len(report.Executed), len(report.Skipped), len(report.Planned))

			return err
		},
	}

	c.Flags().Bool("rerun", false, "run commands even when their outputs exist")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without running any command")

	return c
}

func (a *app) runner(path string, opts ...experiment.Option) (*experiment.Runner, error) {
	configs, err := command.LoadFile(path)
	if err != nil {
		return nil, err
	}

	opts = append([]experiment.Option{
		experiment.WithFs(a.fs),
		experiment.WithTmpDir(a.settings.TmpDir),
		experiment.WithRerun(a.settings.Rerun),
		experiment.WithCommandOptions(command.WithConcurrency(a.settings.Concurrency)),
	}, opts...)

	return experiment.NewRunner(configs, opts...)
}
