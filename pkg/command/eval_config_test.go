package command_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/geopipe/pkg/cfgerr"
	"github.com/askiada/geopipe/pkg/command"
	"github.com/askiada/geopipe/pkg/data"
	"github.com/askiada/geopipe/pkg/evaluation"
	"github.com/askiada/geopipe/pkg/task"
)

func TestEvalCommandCreate(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	source := data.NewImageSourceConfig(writeImage(t, tmpDir))
	scenes := []data.SceneConfig{data.NewSceneConfig("", source)}
	evaluators := []evaluation.Config{evaluation.ObjectDetectionEvaluatorConfig{}}

	cfg, err := command.NewEvalCommandConfigBuilder().
		WithTask(task.ChipClassificationConfig{}).
		WithRootURI(tmpDir).
		WithScenes(scenes).
		WithEvaluators(evaluators).
		Build()
	require.NoError(t, err)

	cmd := cfg.CreateCommand()
	require.NotNil(t, cmd)
	assert.IsType(t, &command.EvalCommand{}, cmd)
	assert.Same(t, cfg, cmd.(*command.EvalCommand).Config())
}

func TestEvalCommandNoConfigError(t *testing.T) {
	t.Parallel()

	_, err := command.NewEvalCommandConfigBuilder().
		WithTask(task.ChipClassificationConfig{}).
		WithRootURI(t.TempDir()).
		WithScenes([]data.SceneConfig{{}}).
		WithEvaluators([]evaluation.Config{evaluation.ChipClassificationEvaluatorConfig{}}).
		Build()
	assert.NoError(t, err)
}

func TestEvalCommandMissingConfig(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		builder        *command.EvalCommandConfigBuilder
		expectedFields []string
	}{
		"missing task": {
			builder: command.NewEvalCommandConfigBuilder().
				WithScenes([]data.SceneConfig{{}}).
				WithEvaluators([]evaluation.Config{evaluation.ObjectDetectionEvaluatorConfig{}}),
			expectedFields: []string{"task"},
		},
		"missing scenes": {
			builder: command.NewEvalCommandConfigBuilder().
				WithTask(task.ObjectDetectionConfig{}).
				WithEvaluators([]evaluation.Config{evaluation.ObjectDetectionEvaluatorConfig{}}),
			expectedFields: []string{"scenes"},
		},
		"missing evaluators": {
			builder: command.NewEvalCommandConfigBuilder().
				WithTask(task.ObjectDetectionConfig{}).
				WithScenes([]data.SceneConfig{{}}),
			expectedFields: []string{"evaluators"},
		},
		"nil evaluator": {
			builder: command.NewEvalCommandConfigBuilder().
				WithTask(task.ObjectDetectionConfig{}).
				WithScenes([]data.SceneConfig{{}}).
				WithEvaluators([]evaluation.Config{nil}),
			expectedFields: []string{"evaluators[0]"},
		},
		"typed nil evaluator": {
			builder: command.NewEvalCommandConfigBuilder().
				WithTask(task.ObjectDetectionConfig{}).
				WithScenes([]data.SceneConfig{{}}).
				WithEvaluators([]evaluation.Config{
					evaluation.ObjectDetectionEvaluatorConfig{},
					(*evaluation.ChipClassificationEvaluatorConfig)(nil),
				}),
			expectedFields: []string{"evaluators[1]"},
		},
		"missing everything": {
			builder:        command.NewEvalCommandConfigBuilder(),
			expectedFields: []string{"task", "scenes", "evaluators"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg, err := tc.builder.Build()
			require.ErrorIs(t, err, cfgerr.ErrConfig)
			assert.Nil(t, cfg)

			var ce *cfgerr.Error
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.expectedFields, ce.Fields())
		})
	}
}

func TestEvalCommandConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := command.NewEvalCommandConfigBuilder().
		WithTask(task.ObjectDetectionConfig{}).
		WithRootURI("s3://bucket/exp").
		WithScenes([]data.SceneConfig{{}}).
		WithEvaluators([]evaluation.Config{evaluation.ObjectDetectionEvaluatorConfig{}}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, []evaluation.Config{
		evaluation.ObjectDetectionEvaluatorConfig{OutputURI: "s3://bucket/exp/eval/eval.json"},
	}, cfg.Evaluators())
	assert.Equal(t, command.Eval, cfg.CommandType())

	rebuilt, err := cfg.ToBuilder().WithRootURI("/other").Build()
	require.NoError(t, err)
	assert.Equal(t, cfg.Evaluators(), rebuilt.Evaluators())
}

func TestEvalCommandConfigReportIO(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := command.NewEvalCommandConfigBuilder().
		WithTask(task.ObjectDetectionConfig{}).
		WithRootURI(dir).
		WithScenes(testScenes(t, dir)).
		WithEvaluators([]evaluation.Config{evaluation.ObjectDetectionEvaluatorConfig{}}).
		Build()
	require.NoError(t, err)

	io := cfg.ReportIO()
	assert.Equal(t, []string{filepath.Join(dir, "labels.json"), filepath.Join(dir, "predictions.json")}, io.Inputs)
	assert.Equal(t, []string{filepath.Join(dir, "eval", "eval.json")}, io.Outputs)
}
