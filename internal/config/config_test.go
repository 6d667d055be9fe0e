package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, []string{"src/**/*.ts"}, cfg.TS.Files)
	assert.Equal(t, "dist", cfg.TS.Out)
	assert.Equal(t, []string{"dist/**/*.js", "!dist/**/*.spec.js"}, cfg.JS.Src)
	assert.Equal(t, "SpecRunner.html", cfg.SpecRunner)
	assert.Equal(t, 3000, cfg.BrowserSync.Port)
	assert.Equal(t, "spec-runner", cfg.BrowserSync.LogPrefix)
	assert.Equal(t, "util/system.imports.js", cfg.Imports.Script)
	assert.False(t, cfg.Lint.FailOnTypeScriptErrors)
	assert.True(t, cfg.Lint.FailOnES5Errors)
	assert.Equal(t, "node_modules/.bin/tsc", cfg.Tools.TSC.Command)
	assert.Equal(t, ".tsgen", cfg.StampDir)
}

func TestConfigPath(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{Root: root}

	assert.Equal(t, filepath.Join(root, "dist", "app.js"), cfg.Path("dist/app.js"))

	abs := filepath.Join(root, "elsewhere")
	assert.Equal(t, abs, cfg.Path(abs))
}

func TestConfigDurations(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, time.Second, cfg.ReloadDelay())
	assert.Equal(t, 200*time.Millisecond, cfg.Debounce())
}
