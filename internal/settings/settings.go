// Package settings loads the runtime settings of the geopipe CLI.
//
// Settings are read from defaults, then GEOPIPE_* environment variables, then explicit overrides
// such as command line flags. The result is validated before use.
package settings

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"github.com/askiada/geopipe/internal/logger"
	"github.com/askiada/geopipe/pkg/cfgerr"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "GEOPIPE_"

type Settings struct {
	// TmpDir holds the temporary directories of running commands.
	TmpDir      string `koanf:"tmp_dir" env:"GEOPIPE_TMP_DIR" validate:"required"`
	Concurrency int    `koanf:"concurrency" env:"GEOPIPE_CONCURRENCY" validate:"min=1,max=256"`
	Rerun       bool   `koanf:"rerun" env:"GEOPIPE_RERUN"`
	Log         Log    `koanf:"log"`
}

type Log struct {
	Level string `koanf:"level" env:"GEOPIPE_LOG_LEVEL" validate:"oneof=debug info warn error disabled"`
	JSON  bool   `koanf:"json" env:"GEOPIPE_LOG_JSON"`
}

// LoggerConfig returns the logger configuration matching the settings.
func (s *Settings) LoggerConfig() *logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = logger.LogLevel(s.Log.Level)
	cfg.JSON = s.Log.JSON

	return cfg
}

func Default() *Settings {
	return &Settings{
		TmpDir:      os.TempDir(),
		Concurrency: 1,
		Log: Log{
			Level: logger.InfoLevel.String(),
		},
	}
}

// Load builds the settings. overrides maps koanf paths such as "log.level" to values and wins
// over the environment.
func Load(overrides map[string]any) (*Settings, error) {
	k := koanf.New(".")

	err := k.Load(structs.Provider(Default(), "koanf"), nil)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load default settings")
	}

	envPaths := envMappings(reflect.TypeOf(Settings{}), "")
	err = k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return envPaths[key], value
		},
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load settings from environment")
	}

	for path, value := range overrides {
		err = k.Set(path, value)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to set %s", path)
		}
	}

	var s Settings
	err = k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &s,
			TagName:          "koanf",
		},
	})
	if err != nil {
		return nil, cfgerr.New("settings", err)
	}

	err = Validate(&s)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// Validate reports every invalid field as a configuration error.
func Validate(s *Settings) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("koanf")
	})

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return errors.Wrap(err, "unable to validate settings")
	}

	errs := make([]error, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		field := fieldErr.Namespace()
		if idx := strings.Index(field, "."); idx >= 0 {
			field = field[idx+1:]
		}
		reason := "must satisfy " + fieldErr.Tag()
		if fieldErr.Param() != "" {
			reason += "=" + fieldErr.Param()
		}
		errs = append(errs, cfgerr.Invalid(field, fmt.Sprintf("%s, got %v", reason, fieldErr.Value())))
	}

	return cfgerr.New("settings", errs...)
}

// envMappings maps the env tags of t to koanf paths.
func envMappings(t reflect.Type, prefix string) map[string]string {
	mappings := make(map[string]string)
	for i := range t.NumField() {
		field := t.Field(i)
		path := field.Tag.Get("koanf")
		if path == "" {
			continue
		}
		if prefix != "" {
			path = prefix + "." + path
		}
		if envVar := field.Tag.Get("env"); envVar != "" {
			mappings[envVar] = path
		}
		if field.Type.Kind() == reflect.Struct {
			for envVar, subPath := range envMappings(field.Type, path) {
				mappings[envVar] = subPath
			}
		}
	}

	return mappings
}
