package command_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/geopipe/pkg/analyzer"
	"github.com/askiada/geopipe/pkg/data"
	"github.com/askiada/geopipe/pkg/evaluation"
	"github.com/askiada/geopipe/pkg/plugin"
	"github.com/askiada/geopipe/pkg/task"
)

type processFunc func(ctx context.Context, taskCfg task.Config, scenes []data.SceneConfig, tmpDir string) error

func (f processFunc) Process(ctx context.Context, taskCfg task.Config, scenes []data.SceneConfig, tmpDir string) error {
	return f(ctx, taskCfg, scenes, tmpDir)
}

type call struct {
	key    string
	task   task.Config
	scenes []data.SceneConfig
	tmpDir string
}

// recorder registers fake implementations and records their calls.
type recorder struct {
	mu    sync.Mutex
	calls []call
	fail  map[string]error
}

func (r *recorder) process(key string) processFunc {
	return func(_ context.Context, taskCfg task.Config, scenes []data.SceneConfig, tmpDir string) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, call{key: key, task: taskCfg, scenes: scenes, tmpDir: tmpDir})

		return r.fail[key]
	}
}

func (r *recorder) keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		keys = append(keys, c.key)
	}

	return keys
}

func (r *recorder) analyzerRegistry(t *testing.T) *plugin.Registry[analyzer.Factory] {
	t.Helper()

	reg := plugin.New[analyzer.Factory]("analyzer")
	require.NoError(t, reg.Register(analyzer.StatsAnalyzer, func(cfg analyzer.Config) (analyzer.Analyzer, error) {
		return r.process(cfg.OutputURIs()[0]), nil
	}))

	return reg
}

func (r *recorder) evaluatorRegistry(t *testing.T) *plugin.Registry[evaluation.Factory] {
	t.Helper()

	reg := plugin.New[evaluation.Factory]("evaluator")
	factory := func(cfg evaluation.Config) (evaluation.Evaluator, error) {
		return r.process(cfg.OutputURIs()[0]), nil
	}
	require.NoError(t, reg.Register(evaluation.ObjectDetectionEvaluator, factory))
	require.NoError(t, reg.Register(evaluation.ChipClassificationEvaluator, factory))

	return reg
}

// writeImage writes a small placeholder image and returns its path.
func writeImage(t *testing.T, dir string) string {
	t.Helper()

	imgPath := filepath.Join(dir, "img.tif")
	require.NoError(t, os.WriteFile(imgPath, []byte{0, 1, 2, 3, 0, 1, 2, 3}, 0o600))

	return imgPath
}

func testScenes(t *testing.T, dir string) []data.SceneConfig {
	t.Helper()

	source := data.ImageSourceConfig{URIs: []string{writeImage(t, dir)}, ChannelOrder: []int{0, 1, 2}}

	return []data.SceneConfig{
		data.NewSceneConfig("", source).
			WithLabelURI(filepath.Join(dir, "labels.json")).
			WithPredictionURI(filepath.Join(dir, "predictions.json")),
	}
}
