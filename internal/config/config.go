// Package config provides loading, defaults and validation of tsgen.yaml.
package config

import (
	"path/filepath"
	"time"
)

// DefaultFileName is the project configuration file written by `tsgen new`.
const DefaultFileName = "tsgen.yaml"

// TSConfig holds TypeScript source settings.
type TSConfig struct {
	// Files are the TypeScript sources, relative to Root.
	Files []string `mapstructure:"files" json:"files" yaml:"files"`

	// Out is the generated output directory removed by clean:generated.
	Out string `mapstructure:"out" json:"out" yaml:"out"`

	// Project is the directory holding tsconfig.json, passed to tsc -p.
	Project string `mapstructure:"project" json:"project" yaml:"project"`
}

// JSConfig holds the JavaScript globs used by vetting and injection.
type JSConfig struct {
	Root     []string `mapstructure:"root" json:"root" yaml:"root"`
	Src      []string `mapstructure:"src" json:"src" yaml:"src"`
	Specs    []string `mapstructure:"specs" json:"specs" yaml:"specs"`
	Order    []string `mapstructure:"order" json:"order" yaml:"order"`
	SrcSpecs []string `mapstructure:"srcSpecs" json:"srcSpecs" yaml:"srcSpecs"`
}

// KarmaConfig holds test runner settings.
type KarmaConfig struct {
	// Exclude is handed to karma.conf.js through TSGEN_KARMA_EXCLUDE_JSON.
	Exclude    []string `mapstructure:"exclude" json:"exclude" yaml:"exclude"`
	ConfigFile string   `mapstructure:"configFile" json:"configFile" yaml:"configFile"`
}

// BrowserSyncConfig holds live reload server settings.
type BrowserSyncConfig struct {
	Port      int    `mapstructure:"port" json:"port" yaml:"port"`
	LogLevel  string `mapstructure:"logLevel" json:"logLevel" yaml:"logLevel"`
	LogPrefix string `mapstructure:"logPrefix" json:"logPrefix" yaml:"logPrefix"`

	// ReloadDelay is in milliseconds.
	ReloadDelay int `mapstructure:"reloadDelay" json:"reloadDelay" yaml:"reloadDelay"`
}

// ImportsConfig names the module loader template and its rendered output.
type ImportsConfig struct {
	Template string `mapstructure:"template" json:"template" yaml:"template"`
	Script   string `mapstructure:"script" json:"script" yaml:"script"`
}

// WatchConfig holds file watcher settings.
type WatchConfig struct {
	// Debounce is in milliseconds.
	Debounce int `mapstructure:"debounce" json:"debounce" yaml:"debounce"`
}

// LintConfig controls whether lint findings fail their task.
type LintConfig struct {
	FailOnTypeScriptErrors bool `mapstructure:"failOnTypeScriptErrors" json:"failOnTypeScriptErrors" yaml:"failOnTypeScriptErrors"`
	FailOnES5Errors        bool `mapstructure:"failOnES5Errors" json:"failOnES5Errors" yaml:"failOnES5Errors"`
}

// ToolConfig describes how to invoke one external tool.
type ToolConfig struct {
	Command string   `mapstructure:"command" json:"command" yaml:"command"`
	Args    []string `mapstructure:"args" json:"args" yaml:"args"`

	// Constraint is a semver range checked by `tsgen doctor`.
	Constraint string `mapstructure:"constraint" json:"constraint,omitempty" yaml:"constraint,omitempty"`
}

// ToolsConfig holds the external tools the build tasks run.
type ToolsConfig struct {
	TSC    ToolConfig `mapstructure:"tsc" json:"tsc" yaml:"tsc"`
	TSLint ToolConfig `mapstructure:"tslint" json:"tslint" yaml:"tslint"`
	JSHint ToolConfig `mapstructure:"jshint" json:"jshint" yaml:"jshint"`
	Karma  ToolConfig `mapstructure:"karma" json:"karma" yaml:"karma"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" json:"timestamps,omitempty" yaml:"timestamps,omitempty"`
}

// Config is the project build configuration.
type Config struct {
	// Root is the project root. All other paths are relative to it.
	Root string `mapstructure:"root" json:"root" yaml:"root"`

	TS             TSConfig          `mapstructure:"ts" json:"ts" yaml:"ts"`
	JS             JSConfig          `mapstructure:"js" json:"js" yaml:"js"`
	SpecRunner     string            `mapstructure:"specRunner" json:"specRunner" yaml:"specRunner"`
	SpecRunnerFile string            `mapstructure:"specRunnerFile" json:"specRunnerFile" yaml:"specRunnerFile"`
	Karma          KarmaConfig       `mapstructure:"karma" json:"karma" yaml:"karma"`
	BrowserSync    BrowserSyncConfig `mapstructure:"browserSync" json:"browserSync" yaml:"browserSync"`
	Imports        ImportsConfig     `mapstructure:"imports" json:"imports" yaml:"imports"`
	Watch          WatchConfig       `mapstructure:"watch" json:"watch" yaml:"watch"`
	Lint           LintConfig        `mapstructure:"lint" json:"lint" yaml:"lint"`
	Tools          ToolsConfig       `mapstructure:"tools" json:"tools" yaml:"tools"`

	// StampDir holds staleness stamps, relative to Root.
	StampDir string `mapstructure:"stampDir" json:"stampDir" yaml:"stampDir"`

	Log LogConfig `mapstructure:"log" json:"log,omitempty" yaml:"log,omitempty"`

	// File is the configuration file the values were read from, empty when
	// only defaults and environment were used.
	File string `mapstructure:"-" json:"-" yaml:"-"`
}

func defaultTool(name, constraint string) ToolConfig {
	return ToolConfig{
		Command:    filepath.ToSlash(filepath.Join("node_modules", ".bin", name)),
		Args:       []string{},
		Constraint: constraint,
	}
}

// DefaultConfig returns a Config with all default values populated.
// The defaults describe the layout of a project scaffolded by `tsgen new`.
func DefaultConfig() *Config {
	return &Config{
		Root: ".",
		TS: TSConfig{
			Files:   []string{"src/**/*.ts"},
			Out:     "dist",
			Project: "src",
		},
		JS: JSConfig{
			Root:     []string{"*.js", "util/*.js"},
			Src:      []string{"dist/**/*.js", "!dist/**/*.spec.js"},
			Specs:    []string{"dist/**/*.spec.js"},
			Order:    []string{"**/*.js"},
			SrcSpecs: []string{"dist/**/*.js"},
		},
		SpecRunner:     "SpecRunner.html",
		SpecRunnerFile: "/SpecRunner.html",
		Karma: KarmaConfig{
			Exclude:    []string{},
			ConfigFile: "karma.conf.js",
		},
		BrowserSync: BrowserSyncConfig{
			Port:        3000,
			LogLevel:    "info",
			LogPrefix:   "spec-runner",
			ReloadDelay: 1000,
		},
		Imports: ImportsConfig{
			Template: "util/system.template.js",
			Script:   "util/system.imports.js",
		},
		Watch: WatchConfig{Debounce: 200},
		Lint: LintConfig{
			FailOnTypeScriptErrors: false,
			FailOnES5Errors:        true,
		},
		Tools: ToolsConfig{
			TSC:    defaultTool("tsc", ">=1.8.0"),
			TSLint: defaultTool("tslint", ">=3.0.0"),
			JSHint: defaultTool("jshint", ">=2.8.0"),
			Karma:  defaultTool("karma", ">=0.13.0"),
		},
		StampDir: ".tsgen",
	}
}

// Path resolves a Root-relative, slash-separated path to a filesystem path.
// Absolute paths are returned cleaned.
func (c *Config) Path(rel string) string {
	p := filepath.FromSlash(rel)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Root, p)
}

// ReloadDelay returns browserSync.reloadDelay as a duration.
func (c *Config) ReloadDelay() time.Duration {
	return time.Duration(c.BrowserSync.ReloadDelay) * time.Millisecond
}

// Debounce returns watch.debounce as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.Debounce) * time.Millisecond
}
