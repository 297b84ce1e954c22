package command

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/askiada/geopipe/internal/logger"
	"github.com/askiada/geopipe/pkg/evaluation"
)

// EvalCommand runs every evaluator of its configuration over the scenes.
type EvalCommand struct {
	config *EvalCommandConfig
	opts   options
}

func (c *EvalCommand) Config() *EvalCommandConfig {
	return c.config
}

func (c *EvalCommand) Run(ctx context.Context, tmpDir string) error {
	log := logger.FromContext(ctx).With("type", Eval)

	items := make([]workItem, 0, len(c.config.evaluators))
	for idx, cfg := range c.config.evaluators {
		impl, err := evaluation.Create(c.opts.evaluators, cfg)
		if err != nil {
			return errors.Wrapf(err, "unable to create evaluator %d", idx)
		}
		items = append(items, workItem{
			name: fmt.Sprintf("%s[%d]", cfg.EvaluatorType(), idx),
			process: func(ctx context.Context) error {
				return impl.Process(ctx, c.config.Task(), c.config.Scenes(), tmpDir)
			},
		})
	}

	log.Info("running evaluators", "evaluators", len(items), "scenes", len(c.config.scenes))

	return runWorkItems(ctx, log, "evaluators", items, c.opts.concurrency)
}
