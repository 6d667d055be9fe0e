package cmd

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/config"
	terrors "github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/errors"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/taskgraph"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/tool"
)

func TestReportError(t *testing.T) {
	logger := log.New(io.Discard)

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not found detail", terrors.NewNotFoundError("missing", "/tmp/x", ""), ExitNotFound},
		{"config validation", config.ValidationErrors{{Field: "browserSync.port", Message: "out of range"}}, ExitValidationError},
		{"conflict", terrors.NewConflictError("differs", "/tmp/app", []string{"package.json"}, ""), ExitConflict},
		{
			"failed tool",
			&taskgraph.TaskFailedError{Task: "vet:es5", Err: &tool.ExitStatusError{Command: "jshint", ExitCode: 2}},
			ExitGeneralError,
		},
		{"unknown task", &taskgraph.UnknownTaskError{Task: "nope"}, ExitNotFound},
		{"plain", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reportError(logger, "failed", tt.err)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, tt.wantCode, exitErr.Code)
			assert.True(t, exitErr.Printed)
			assert.Equal(t, tt.err, exitErr.Err)
		})
	}
}

func TestReportErrorPassesThrough(t *testing.T) {
	logger := log.New(io.Discard)

	assert.NoError(t, reportError(logger, "failed", nil))

	printed := &ExitError{Code: 3, Err: errors.New("already said"), Printed: true}
	assert.Same(t, printed, reportError(logger, "failed", printed))
}

func TestReportErrorNamesTaskOfDetailError(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	err := reportError(logger, "run failed", &taskgraph.TaskFailedError{
		Task: "clean:generated",
		Err:  terrors.NewValidationError("refusing to remove /p", "tsgen.yaml", "ts.out", ""),
	})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, ExitValidationError, exitErr.Code)
	assert.Contains(t, buf.String(), "task=clean:generated")
	assert.Contains(t, buf.String(), "refusing to remove /p")
}
