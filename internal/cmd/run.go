package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/build"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/output"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/session"
)

// runOptions holds the flags for the run command.
type runOptions struct {
	force bool
}

// NewRunCmd creates the run command.
func NewRunCmd(g *GlobalConfig) *cobra.Command {
	opts := &runOptions{}

	c := &cobra.Command{
		Use:   "run [task...]",
		Short: "Run build tasks",
		Long: `Run build tasks of the project and their prerequisites.

Each task runs at most once per invocation, after everything it depends on.
Without arguments the default task runs, which lists the available tasks.

Watch tasks (typescript-watch, tests-watch, tests-serve) keep running until
interrupted; stopping tsgen stops every tool they started.

Examples:
  # Compile and run the tests once
  tsgen run tests-run

  # Serve the spec runner with live reload
  tsgen run tests-serve

  # Recompile even when sources are unchanged
  tsgen run typescript-compile --force`,
		RunE: func(c *cobra.Command, args []string) error {
			return runTasks(c, g, opts, args)
		},
	}

	c.Flags().BoolVarP(&opts.force, "force", "f", false, "Run tasks even when their outputs are up to date")

	return c
}

func runTasks(c *cobra.Command, g *GlobalConfig, opts *runOptions, names []string) error {
	logger := output.Logger().WithPrefix("run")

	cfg, err := g.LoadConfig()
	if err != nil {
		return reportError(output.Logger(), "loading configuration", err)
	}

	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := session.New(ctx, output.Logger().WithPrefix("session"))
	defer sess.Close() //nolint:errcheck // closed explicitly below

	catalogue, err := build.New(build.Options{
		Config:  cfg,
		Session: sess,
		Force:   opts.force,
		Verbose: g.Verbose,
		Out:     c.OutOrStdout(),
		Logger:  logger,
	})
	if err != nil {
		return reportError(logger, "loading tasks", err)
	}

	if err := catalogue.Run(sess.Context(), names...); err != nil {
		if ctx.Err() != nil {
			logger.Info("interrupted")
			return sess.Close()
		}
		return reportError(logger, "build failed", err)
	}

	if sess.Active() {
		logger.Info("watching, press Ctrl+C to stop", "jobs", strings.Join(sess.Jobs(), ", "))
		if err := sess.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			sess.Close() //nolint:errcheck // the job error is what matters
			return reportError(logger, "background job failed", err)
		}
		logger.Info("stopping")
	}

	return sess.Close()
}
