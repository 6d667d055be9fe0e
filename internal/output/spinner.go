package output

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
)

// RunWithSpinner runs action while a spinner titled title animates on
// stderr. Without a terminal the action runs directly. Aborting the
// spinner cancels the context handed to action.
func RunWithSpinner(ctx context.Context, title string, action func(ctx context.Context) error) error {
	if !IsTTY() {
		return action(ctx)
	}

	actionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	var actionErr error
	go func() {
		defer close(done)
		actionErr = action(actionCtx)
	}()

	spinErr := spinner.New().
		Title(title).
		Context(actionCtx).
		Action(func() { <-done }).
		Run()

	// the spinner returns early on interrupt; the action must still finish
	cancel()
	<-done

	if spinErr != nil && !errors.Is(spinErr, context.Canceled) && actionErr == nil {
		return fmt.Errorf("spinner: %w", spinErr)
	}
	return actionErr
}
