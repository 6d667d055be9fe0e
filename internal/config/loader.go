package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	terrors "github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/errors"
)

// Environment variable prefix for tsgen configuration.
const envPrefix = "TSGEN"

// Loader reads tsgen.yaml, applying defaults and TSGEN_* environment
// overrides.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())

	return &Loader{v: v}
}

// setDefaults registers every leaf key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("root", d.Root)
	v.SetDefault("ts.files", d.TS.Files)
	v.SetDefault("ts.out", d.TS.Out)
	v.SetDefault("ts.project", d.TS.Project)
	v.SetDefault("js.root", d.JS.Root)
	v.SetDefault("js.src", d.JS.Src)
	v.SetDefault("js.specs", d.JS.Specs)
	v.SetDefault("js.order", d.JS.Order)
	v.SetDefault("js.srcSpecs", d.JS.SrcSpecs)
	v.SetDefault("specRunner", d.SpecRunner)
	v.SetDefault("specRunnerFile", d.SpecRunnerFile)
	v.SetDefault("karma.exclude", d.Karma.Exclude)
	v.SetDefault("karma.configFile", d.Karma.ConfigFile)
	v.SetDefault("browserSync.port", d.BrowserSync.Port)
	v.SetDefault("browserSync.logLevel", d.BrowserSync.LogLevel)
	v.SetDefault("browserSync.logPrefix", d.BrowserSync.LogPrefix)
	v.SetDefault("browserSync.reloadDelay", d.BrowserSync.ReloadDelay)
	v.SetDefault("imports.template", d.Imports.Template)
	v.SetDefault("imports.script", d.Imports.Script)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("lint.failOnTypeScriptErrors", d.Lint.FailOnTypeScriptErrors)
	v.SetDefault("lint.failOnES5Errors", d.Lint.FailOnES5Errors)
	for name, tool := range map[string]ToolConfig{
		"tsc":    d.Tools.TSC,
		"tslint": d.Tools.TSLint,
		"jshint": d.Tools.JSHint,
		"karma":  d.Tools.Karma,
	} {
		v.SetDefault("tools."+name+".command", tool.Command)
		v.SetDefault("tools."+name+".args", tool.Args)
		v.SetDefault("tools."+name+".constraint", tool.Constraint)
	}
	v.SetDefault("stampDir", d.StampDir)
}

// Load reads the configuration file at path. A missing file yields the
// defaults unless required is set, in which case it is a not-found error.
// A relative root is resolved against the configuration file's directory,
// or the working directory when no file was read.
func (l *Loader) Load(path string, required bool) (*Config, error) {
	var file string
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return nil, fmt.Errorf("expanding config path: %w", err)
		}

		switch _, err := os.Stat(expanded); {
		case err == nil:
			file = expanded
		case os.IsNotExist(err):
			if required {
				return nil, terrors.NewNotFoundError(
					"configuration file does not exist",
					expanded,
					"Run 'tsgen config init' to create one",
				)
			}
		case os.IsPermission(err):
			return nil, fmt.Errorf("reading config file: %w", terrors.ErrPermission)
		default:
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if file != "" {
		l.v.SetConfigFile(file)
		l.v.SetConfigType("yaml")
		if err := l.v.ReadInConfig(); err != nil {
			return nil, terrors.NewValidationError(err.Error(), file, "", "Check the YAML syntax")
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.File = file

	base := "."
	if file != "" {
		base = filepath.Dir(file)
	}
	root := filepath.FromSlash(cfg.Root)
	if !filepath.IsAbs(root) {
		root = filepath.Join(base, root)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	cfg.Root = abs

	return &cfg, nil
}

// LoadAndValidate loads the file at path and validates it against the
// embedded schema.
func LoadAndValidate(path string, required bool) (*Config, error) {
	cfg, err := NewLoader().Load(path, required)
	if err != nil {
		return nil, err
	}

	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
