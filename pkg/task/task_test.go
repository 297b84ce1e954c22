package task_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/geopipe/pkg/cfgerr"
	"github.com/askiada/geopipe/pkg/task"
)

type customTask struct{}

func (customTask) TaskType() string { return "CUSTOM" }

func (c customTask) Clone() task.Config { return c }

func TestFromSpec(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		spec     task.Spec
		expected task.Config
		wantErr  bool
	}{
		"chip classification": {
			spec:     task.Spec{Type: task.ChipClassification, Classes: []string{"car"}},
			expected: task.ChipClassificationConfig{Classes: []string{"car"}},
		},
		"object detection": {
			spec:     task.Spec{Type: task.ObjectDetection},
			expected: task.ObjectDetectionConfig{},
		},
		"missing type": {spec: task.Spec{}, wantErr: true},
		"unknown type": {spec: task.Spec{Type: "SEGMENTATION"}, wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := task.FromSpec(tc.spec)
			if tc.wantErr {
				assert.ErrorIs(t, err, cfgerr.ErrConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestToSpec(t *testing.T) {
	t.Parallel()

	spec, err := task.ToSpec(task.ObjectDetectionConfig{Classes: []string{"building"}})
	require.NoError(t, err)
	assert.Equal(t, task.Spec{Type: task.ObjectDetection, Classes: []string{"building"}}, spec)

	_, err = task.ToSpec(customTask{})
	assert.ErrorIs(t, err, cfgerr.ErrConfig)

	_, err = task.ToSpec(nil)
	assert.ErrorIs(t, err, cfgerr.ErrConfig)
}

func TestClone(t *testing.T) {
	t.Parallel()

	classes := []string{"car", "building"}
	for _, cfg := range []task.Config{
		task.ChipClassificationConfig{Classes: classes},
		task.ObjectDetectionConfig{Classes: classes},
	} {
		clone := cfg.Clone()
		assert.Equal(t, cfg, clone)

		classes[0] = "tree"
		assert.NotEqual(t, cfg, clone, cfg.TaskType())
		classes[0] = "car"
	}

	assert.Equal(t, task.ObjectDetectionConfig{}, task.ObjectDetectionConfig{}.Clone())
}
