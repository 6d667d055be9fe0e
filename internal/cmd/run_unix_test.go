//go:build unix

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/testutil"
)

func TestRunCmdCustomTasks(t *testing.T) {
	path := runProject(t, `
task "greet" {
  command = "sh"
  args    = ["-c", "echo hello >> greet.log"]
}

task "fail" {
  command = "sh"
  args    = ["-c", "echo broken; exit 3"]
  deps    = ["greet"]
}
`)
	dir := filepath.Dir(path)

	_, err := execute(t, "", "run", "greet", "greet", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", testutil.ReadFile(t, filepath.Join(dir, "greet.log")))

	out, err := execute(t, "", "run", "fail", "--config", path)
	require.Error(t, err)
	assert.Equal(t, ExitGeneralError, exitCode(t, err))
	assert.Contains(t, out, "broken")
	assert.Equal(t, "hello\nhello\n", testutil.ReadFile(t, filepath.Join(dir, "greet.log")))
}

func TestDoctorCmd(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteScript(t, dir, "bin/tsc", `echo "Version 1.8.10"`)
	testutil.WriteScript(t, dir, "bin/tslint", `echo "3.15.1"`)
	testutil.WriteScript(t, dir, "bin/jshint", `echo "jshint v2.9.4" >&2`)
	testutil.WriteScript(t, dir, "bin/karma", `echo "Karma version: 0.13.22"`)

	tools := `tools:
  tsc:
    command: bin/tsc
  tslint:
    command: bin/tslint
  jshint:
    command: bin/jshint
  karma:
    command: bin/karma
`
	path := testutil.WriteFile(t, dir, "tsgen.yaml", tools)

	out, err := execute(t, "", "doctor", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1.8.10")
	assert.Contains(t, out, "0.13.22")
	assert.Contains(t, out, "All tools found")

	testutil.WriteScript(t, dir, "bin/karma", `echo "Karma version: 0.12.0"`)
	require.NoError(t, os.Remove(filepath.Join(dir, "bin", "tslint")))

	out, err = execute(t, "", "doctor", "--config", path)
	require.Error(t, err)
	assert.Equal(t, ExitGeneralError, exitCode(t, err))
	assert.Contains(t, out, "outdated")
	assert.Contains(t, out, "missing")
}
