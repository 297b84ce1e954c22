package cli

import (
	"github.com/spf13/cobra"

	"github.com/askiada/geopipe/pkg/experiment"
)

func graphCmd(a *app) *cobra.Command {
	var direction string

	c := &cobra.Command{
		Use:   "graph <commands.yaml>",
		Short: "Print the command graph in Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := a.runner(args[0])
			if err != nil {
				return err
			}

			return runner.WriteDOT(cmd.OutOrStdout(), experiment.GraphAttribute("rankdir", direction))
		},
	}

	c.Flags().StringVar(&direction, "rankdir", "LR", "graph direction: LR, TB, RL or BT")

	return c
}
