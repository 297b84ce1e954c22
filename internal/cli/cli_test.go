package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/geopipe/pkg/cfgerr"
)

// writeExperiment creates the imagery of a scene and a command file analysing it.
func writeExperiment(t *testing.T, withLabels bool) (string, string) {
	t.Helper()

	dir := t.TempDir()
	image := filepath.Join(dir, "image.tif")
	labels := filepath.Join(dir, "labels.json")
	require.NoError(t, os.WriteFile(image, []byte("tif"), 0o600))
	if withLabels {
		require.NoError(t, os.WriteFile(labels, []byte("{}"), 0o600))
	}

	root := filepath.Join(dir, "exp")
	doc := fmt.Sprintf(`commands:
  - type: ANALYZE
    root_uri: %s
    task:
      type: OBJECT_DETECTION
    scenes:
      - id: scene
        raster_source:
          uris: [%s]
        label_uri: %s
    analyzers:
      - type: STATS_ANALYZER
`, root, image, labels)

	path := filepath.Join(dir, "commands.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	return path, root
}

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetArgs(append(args, "--log-level", "disabled"))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(t.Context())

	return stdout.String(), err
}

func TestValidate(t *testing.T) {
	path, root := writeExperiment(t, true)

	out, err := execute(t, &app{fs: afero.NewOsFs()}, "validate", path)
	require.NoError(t, err)
	assert.Equal(t, "analyze-0\trun\t"+root+"/analyze/stats.json\nOK\n", out)
}

func TestValidateMissingInput(t *testing.T) {
	path, _ := writeExperiment(t, false)

	_, err := execute(t, &app{fs: afero.NewOsFs()}, "validate", path)
	require.ErrorIs(t, err, cfgerr.ErrConfig)
	assert.Contains(t, err.Error(), "labels.json does not exist")
}

func TestRunDryRun(t *testing.T) {
	path, _ := writeExperiment(t, true)

	out, err := execute(t, &app{fs: afero.NewOsFs()}, "run", path, "--dry-run")
	require.NoError(t, err)
	assert.Regexp(t, `^run [0-9a-f-]{36}: 0 executed, 0 skipped, 1 planned\n$`, out)
}

func TestRunUnknownAnalyzer(t *testing.T) {
	path, _ := writeExperiment(t, true)

	_, err := execute(t, &app{fs: afero.NewOsFs()}, "run", path)
	require.ErrorIs(t, err, cfgerr.ErrConfig)
	assert.Contains(t, err.Error(), "command analyze-0")
	assert.Contains(t, err.Error(), `no analyzer registered for type "STATS_ANALYZER"`)
}

func TestRunRerun(t *testing.T) {
	path, root := writeExperiment(t, true)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "analyze"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "analyze", "stats.json"), []byte("{}"), 0o600))

	out, err := execute(t, &app{fs: afero.NewOsFs()}, "run", path)
	require.NoError(t, err)
	assert.Regexp(t, `: 0 executed, 1 skipped, 0 planned\n$`, out)

	_, err = execute(t, &app{fs: afero.NewOsFs()}, "run", path, "--rerun")
	require.ErrorIs(t, err, cfgerr.ErrConfig)
	assert.Contains(t, err.Error(), `no analyzer registered for type "STATS_ANALYZER"`)
}

func TestGraph(t *testing.T) {
	path, _ := writeExperiment(t, true)

	out, err := execute(t, &app{fs: afero.NewOsFs()}, "graph", path, "--rankdir", "TB")
	require.NoError(t, err)
	assert.Contains(t, out, "strict digraph {")
	assert.Contains(t, out, `rankdir="TB";`)
	assert.Contains(t, out, `"analyze-0" [`)
}

func TestSettingsFlags(t *testing.T) {
	path, _ := writeExperiment(t, true)
	tmpDir := t.TempDir()

	a := &app{fs: afero.NewOsFs()}
	_, err := execute(t, a, "validate", path, "--concurrency", "3", "--tmp-dir", tmpDir, "--log-json")
	require.NoError(t, err)
	require.NotNil(t, a.settings)
	assert.Equal(t, 3, a.settings.Concurrency)
	assert.Equal(t, tmpDir, a.settings.TmpDir)
	assert.True(t, a.settings.Log.JSON)
	assert.Equal(t, "disabled", a.settings.Log.Level)
}

func TestInvalidSettings(t *testing.T) {
	path, _ := writeExperiment(t, true)

	_, err := execute(t, &app{fs: afero.NewOsFs()}, "validate", path, "--concurrency=-1")
	require.ErrorIs(t, err, cfgerr.ErrConfig)
	assert.Contains(t, err.Error(), "concurrency")
}

func TestMissingFile(t *testing.T) {
	_, err := execute(t, &app{fs: afero.NewOsFs()}, "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
