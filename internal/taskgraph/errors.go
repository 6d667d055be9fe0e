package taskgraph

import (
	"fmt"
	"strings"

	terrors "github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/errors"
)

// UnknownTaskError reports a task name that is not registered.
type UnknownTaskError struct {
	Task string

	// RequiredBy is the task that listed Task as a prerequisite, empty when
	// Task was requested directly.
	RequiredBy string
}

func (e *UnknownTaskError) Error() string {
	if e.RequiredBy != "" {
		return fmt.Sprintf("task %q (prerequisite of %q) is not registered", e.Task, e.RequiredBy)
	}
	return fmt.Sprintf("task %q is not registered", e.Task)
}

func (e *UnknownTaskError) Unwrap() error {
	return terrors.ErrNotFound
}

// CyclicDependencyError names one cycle in the prerequisite graph. The first
// and last elements of Cycle are the same task.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return "cyclic dependency: " + strings.Join(e.Cycle, " -> ")
}

func (e *CyclicDependencyError) Unwrap() error {
	return terrors.ErrValidation
}

// TaskFailedError names the first task whose action failed during a run.
type TaskFailedError struct {
	Task string
	Err  error
}

func (e *TaskFailedError) Error() string {
	return fmt.Sprintf("task %q failed: %v", e.Task, e.Err)
}

// Unwrap exposes both ErrTaskFailed and the action's own error.
func (e *TaskFailedError) Unwrap() []error {
	return []error{terrors.ErrTaskFailed, e.Err}
}
