// Package tool runs the external compiler, linter and test runner.
//
// Every child runs in its own process group. Cancelling a synchronous
// invocation kills the whole group, and the Supervisor tears down the groups
// of detached processes so no tool outlives tsgen.
package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	terrors "github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/errors"
)

// waitDelay bounds how long Wait lingers on output pipes after a kill.
const waitDelay = 2 * time.Second

// Command describes one tool invocation.
type Command struct {
	// Name is the display name, e.g. "tsc".
	Name string

	// Path is the executable, looked up in PATH when it has no separator.
	Path string

	Args []string

	// Dir is the working directory.
	Dir string

	// Env holds KEY=VALUE pairs added to the inherited environment.
	Env []string

	// Stream receives output as it is produced, in addition to capture.
	Stream io.Writer
}

// String renders the command line.
func (c Command) String() string {
	return strings.TrimSpace(c.Path + " " + strings.Join(c.Args, " "))
}

func (c Command) displayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Path
}

// Result is the outcome of a finished invocation.
type Result struct {
	ExitCode int
	Output   []byte
	Duration time.Duration
}

// ExitStatusError reports a tool that exited non-zero, with its combined
// output attached.
type ExitStatusError struct {
	Command  string
	Args     []string
	ExitCode int
	Output   string
}

func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
}

func (c Command) build(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.SysProcAttr = sysProcAttr()
	cmd.Cancel = func() error {
		return signalGroup(cmd.Process, syscall.SIGKILL)
	}
	cmd.WaitDelay = waitDelay
	return cmd
}

// startError classifies a failure to launch c.
func startError(c Command, err error) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return terrors.NewNotFoundError(
			fmt.Sprintf("%s could not be started: %v", c.displayName(), err),
			c.Path,
			"Install project dependencies with 'npm install' or set tools."+c.displayName()+".command in tsgen.yaml",
		)
	}
	if errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("starting %s: %w", c.displayName(), terrors.ErrPermission)
	}
	return fmt.Errorf("starting %s: %w", c.displayName(), err)
}

// Invoke runs c to completion and captures its combined output. A non-zero
// exit is returned as *ExitStatusError alongside the Result. Cancelling ctx
// kills the tool's process group.
func Invoke(ctx context.Context, c Command) (*Result, error) {
	cmd := c.build(ctx)

	var buf bytes.Buffer
	var w io.Writer = &buf
	if c.Stream != nil {
		w = io.MultiWriter(&buf, c.Stream)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	began := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, startError(c, err)
	}
	err := cmd.Wait()

	result := &Result{
		Output:   buf.Bytes(),
		Duration: time.Since(began),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("%s cancelled: %w", c.displayName(), ctxErr)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return result, fmt.Errorf("running %s: %w", c.displayName(), err)
		}
		result.ExitCode = exitErr.ExitCode()
		return result, &ExitStatusError{
			Command:  c.displayName(),
			Args:     c.Args,
			ExitCode: result.ExitCode,
			Output:   buf.String(),
		}
	}

	return result, nil
}
