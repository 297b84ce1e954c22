// Package cli implements the geopipe command line.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/askiada/geopipe/internal/logger"
	"github.com/askiada/geopipe/internal/settings"
)

// flagPaths maps command line flags to settings paths.
var flagPaths = map[string]string{
	"log-level":   "log.level",
	"log-json":    "log.json",
	"tmp-dir":     "tmp_dir",
	"concurrency": "concurrency",
	"rerun":       "rerun",
}

type app struct {
	fs       afero.Fs
	settings *settings.Settings
}

// Execute runs the geopipe command line and exits on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd(&app{fs: afero.NewOsFs()}).ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "geopipe",
		Short:        "Run analyze and eval commands of a geospatial experiment",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error or disabled")
	cmd.PersistentFlags().Bool("log-json", false, "log in JSON")
	cmd.PersistentFlags().String("tmp-dir", "", "directory holding the temporary directories of commands")
	cmd.PersistentFlags().Int("concurrency", 0, "number of analyzers or evaluators running at the same time")

	cmd.AddCommand(runCmd(a), graphCmd(a), validateCmd(a))

	return cmd
}

// setup loads the settings, flags win over the environment.
func (a *app) setup(cmd *cobra.Command) error {
	overrides := make(map[string]any)
	for flagName, path := range flagPaths {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil || !flag.Changed {
			continue
		}
		overrides[path] = flag.Value.String()
	}

	s, err := settings.Load(overrides)
	if err != nil {
		return err
	}
	a.settings = s

	logCfg := s.LoggerConfig()
	logCfg.Output = cmd.ErrOrStderr()
	log := logger.NewLogger(logCfg)
	cmd.SetContext(logger.ContextWithLogger(cmd.Context(), log))

	return nil
}
