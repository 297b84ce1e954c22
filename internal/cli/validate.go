package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <commands.yaml>",
		Short: "Check a command file and the inputs it reads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := a.runner(args[0])
			if err != nil {
				return err
			}

			steps, err := runner.Plan()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, step := range steps {
				state := "run"
				if step.Skip {
					state = "up to date"
				}
				_, err = fmt.Fprintf(out, "%s\t%s\t%s\n", step.Name, state, strings.Join(step.IO.Outputs, ","))
				if err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(out, "OK")

			return err
		},
	}
}
