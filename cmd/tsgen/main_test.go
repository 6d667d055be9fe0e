package main

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tsgenBinary string

func TestMain(m *testing.M) {
	// Build the binary once for all tests
	tmpDir, err := os.MkdirTemp("", "tsgen-e2e-*")
	if err != nil {
		panic("failed to create temp dir: " + err.Error())
	}

	tsgenBinary = filepath.Join(tmpDir, "tsgen")
	if runtime.GOOS == "windows" {
		tsgenBinary += ".exe"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	cmd := exec.CommandContext(ctx, "go", "build", "-o", tsgenBinary, ".")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		cancel()
		os.RemoveAll(tmpDir)
		panic("failed to build tsgen binary: " + err.Error())
	}
	cancel()

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// runTSGen runs the binary in workDir and returns its exit code and output.
func runTSGen(t *testing.T, workDir string, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, tsgenBinary, args...)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), "TSGEN_CONFIG=")

	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), string(out), string(exitErr.Stderr)
	}
	require.NoError(t, err)
	return 0, string(out), ""
}

func TestExitCodes(t *testing.T) {
	workDir := t.TempDir()

	code, _, stderr := runTSGen(t, workDir, "new", "my-app", "--yes")
	require.Equal(t, 0, code, "stderr: %s", stderr)
	project := filepath.Join(workDir, "my-app")
	assert.FileExists(t, filepath.Join(project, "tsgen.yaml"))

	require.NoError(t, os.WriteFile(filepath.Join(project, "README.md"), []byte("mine\n"), 0o644))

	tests := []struct {
		name     string
		dir      string
		args     []string
		wantCode int
	}{
		{"list tasks", project, []string{"tasks"}, 0},
		{"default task", project, []string{"run"}, 0},
		{"unknown task", project, []string{"run", "no-such-task"}, 5},
		{"conflicting files", workDir, []string{"new", "my-app", "--yes"}, 7},
		{"invalid name", workDir, []string{"new", "other", "--name", "Not Valid"}, 2},
		{"missing explicit config", project, []string{"config", "vet", "--config", "absent.yaml"}, 5},
		{"unsupported output format", project, []string{"config", "show", "-o", "xml"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runTSGen(t, tt.dir, tt.args...)
			assert.Equal(t, tt.wantCode, code, "stderr: %s", stderr)
		})
	}
}

func TestInvalidConfigExitsWithValidationError(t *testing.T) {
	workDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "tsgen.yaml"), []byte("browserSync:\n  port: 0\n"), 0o644))

	code, _, stderr := runTSGen(t, workDir, "run", "help")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "browserSync.port")
}
