package cmd

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/config"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/testutil"
)

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tsgen.yaml")

	out, err := execute(t, "", "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration written to")

	var written config.Config
	require.NoError(t, yaml.Unmarshal([]byte(testutil.ReadFile(t, path)), &written))
	defaults := config.DefaultConfig()
	assert.Equal(t, defaults.TS, written.TS)
	assert.Equal(t, defaults.BrowserSync, written.BrowserSync)
	assert.Equal(t, defaults.Tools.Karma.Command, written.Tools.Karma.Command)
	assert.Equal(t, defaults.StampDir, written.StampDir)

	_, err = execute(t, "", "config", "init", "--config", path)
	require.Error(t, err)
	assert.Equal(t, ExitValidationError, exitCode(t, err))

	_, err = execute(t, "", "config", "init", "--config", path, "--force")
	require.NoError(t, err)
}

func TestConfigVet(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode int
	}{
		{"valid", "browserSync:\n  port: 4000\n", ExitSuccess},
		{"port out of range", "browserSync:\n  port: 70000\n", ExitValidationError},
		{"spec runner not html", "specRunner: runner.txt\n", ExitValidationError},
		{"bad yaml", "ts: [unclosed\n", ExitValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, t.TempDir(), "tsgen.yaml", tt.content)

			out, err := execute(t, "", "config", "vet", "--config", path)
			if tt.wantCode == ExitSuccess {
				require.NoError(t, err)
				assert.Contains(t, out, "Configuration is valid")
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, exitCode(t, err))
		})
	}
}

func TestConfigVetMissingFile(t *testing.T) {
	_, err := execute(t, "", "config", "vet", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitNotFound, exitCode(t, err))
}

func TestConfigShow(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "tsgen.yaml", "ts:\n  out: build\n")
	t.Setenv("TSGEN_BROWSERSYNC_PORT", "4000")

	out, err := execute(t, "", "config", "show", "--config", path, "-o", "json")
	require.NoError(t, err)

	var shown config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "build", shown.TS.Out)
	assert.Equal(t, 4000, shown.BrowserSync.Port)
	assert.Equal(t, []string{"src/**/*.ts"}, shown.TS.Files)

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	shownRoot, err := filepath.EvalSymlinks(shown.Root)
	require.NoError(t, err)
	assert.Equal(t, resolved, shownRoot)

	out, err = execute(t, "", "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "out: build")

	_, err = execute(t, "", "config", "show", "--config", path, "-o", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitValidationError, exitCode(t, err))
}
