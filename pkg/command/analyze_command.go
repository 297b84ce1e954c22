package command

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/askiada/geopipe/internal/logger"
	"github.com/askiada/geopipe/pkg/analyzer"
)

// AnalyzeCommand runs every analyzer of its configuration over the scenes.
type AnalyzeCommand struct {
	config *AnalyzeCommandConfig
	opts   options
}

func (c *AnalyzeCommand) Config() *AnalyzeCommandConfig {
	return c.config
}

// Run resolves the analyzers before processing anything, so an unknown analyzer type fails the
// command without side effects.
func (c *AnalyzeCommand) Run(ctx context.Context, tmpDir string) error {
	log := logger.FromContext(ctx).With("type", Analyze)

	items := make([]workItem, 0, len(c.config.analyzers))
	for idx, cfg := range c.config.analyzers {
		impl, err := analyzer.Create(c.opts.analyzers, cfg)
		if err != nil {
			return errors.Wrapf(err, "unable to create analyzer %d", idx)
		}
		items = append(items, workItem{
			name: fmt.Sprintf("%s[%d]", cfg.AnalyzerType(), idx),
			process: func(ctx context.Context) error {
				return impl.Process(ctx, c.config.Task(), c.config.Scenes(), tmpDir)
			},
		})
	}

	log.Info("running analyzers", "analyzers", len(items), "scenes", len(c.config.scenes))

	return runWorkItems(ctx, log, "analyzers", items, c.opts.concurrency)
}
