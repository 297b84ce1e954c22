package command

import (
	"fmt"
	"reflect"

	"github.com/askiada/geopipe/pkg/cfgerr"
	"github.com/askiada/geopipe/pkg/data"
	"github.com/askiada/geopipe/pkg/task"
)

// baseBuilder holds the fields shared by every command builder.
type baseBuilder struct {
	task    task.Config
	rootURI string
	scenes  []data.SceneConfig
}

func (b *baseBuilder) validate() []error {
	var errs []error
	if isNil(b.task) {
		errs = append(errs, cfgerr.Missing("task"))
	}
	if len(b.scenes) == 0 {
		errs = append(errs, cfgerr.Missing("scenes"))
	}

	return errs
}

func (b *baseBuilder) build() baseConfig {
	scenes := make([]data.SceneConfig, len(b.scenes))
	for idx, scene := range b.scenes {
		scenes[idx] = scene.Clone()
	}

	return baseConfig{
		task:    b.task.Clone(),
		rootURI: b.rootURI,
		scenes:  scenes,
	}
}

// baseConfig holds the fields shared by every command configuration.
type baseConfig struct {
	task    task.Config
	rootURI string
	scenes  []data.SceneConfig
}

// Task returns a copy of the task.
func (c *baseConfig) Task() task.Config {
	return c.task.Clone()
}

func (c *baseConfig) RootURI() string {
	return c.rootURI
}

// Scenes returns a copy of the scenes.
func (c *baseConfig) Scenes() []data.SceneConfig {
	scenes := make([]data.SceneConfig, len(c.scenes))
	for idx, scene := range c.scenes {
		scenes[idx] = scene.Clone()
	}

	return scenes
}

func (c *baseConfig) toBuilder() baseBuilder {
	return baseBuilder{
		task:    c.Task(),
		rootURI: c.rootURI,
		scenes:  c.Scenes(),
	}
}

// requireList reports an empty list and every nil entry of a non-empty one.
func requireList[T any](field string, list []T) []error {
	if len(list) == 0 {
		return []error{cfgerr.Missing(field)}
	}
	var errs []error
	for idx, item := range list {
		if isNil(item) {
			errs = append(errs, cfgerr.Invalid(fmt.Sprintf("%s[%d]", field, idx), "cannot be nil"))
		}
	}

	return errs
}

// isNil also catches nil pointers, maps and slices stored in an interface.
func isNil(item any) bool {
	if item == nil {
		return true
	}
	value := reflect.ValueOf(item)
	switch value.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return value.IsNil()
	default:
		return false
	}
}
