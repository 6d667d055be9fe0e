package cmd

import (
	"errors"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/config"
	terrors "github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/errors"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/taskgraph"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/tool"
)

// reportError logs err once and returns an ExitError carrying its exit
// code, marked as printed so main does not repeat it.
func reportError(logger *log.Logger, msg string, err error) error {
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Printed {
		return err
	}

	var (
		detail   *terrors.DetailError
		invalid  config.ValidationErrors
		failed   *taskgraph.TaskFailedError
		exitStat *tool.ExitStatusError
	)
	switch {
	case errors.As(err, &detail):
		// DetailError renders its own multi-line block
		if errors.As(err, &failed) {
			logger.Error(msg, "task", failed.Task)
		} else {
			logger.Error(msg)
		}
		logger.Print(strings.TrimRight(detail.Error(), "\n"))
	case errors.As(err, &invalid):
		logger.Error(msg, "errors", len(invalid))
		for _, e := range invalid {
			logger.Error("  "+e.Field, "reason", e.Message)
		}
	case errors.As(err, &failed) && errors.As(err, &exitStat):
		logger.Error(msg, "task", failed.Task, "tool", exitStat.Command, "exit", exitStat.ExitCode)
	case errors.As(err, &failed):
		logger.Error(msg, "task", failed.Task, "error", failed.Err)
	default:
		logger.Error(msg, "error", err)
	}

	code := terrors.ExitCodeFromError(err)
	logger.Debug("exit", "code", code, "class", terrors.ExitCodeName(code))
	return &ExitError{Code: code, Err: err, Printed: true}
}
