package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/output"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/templates"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/version"
)

// NewDiffCmd creates the diff command.
func NewDiffCmd(_ *GlobalConfig) *cobra.Command {
	opts := &ProjectFlags{}

	c := &cobra.Command{
		Use:   "diff [dir]",
		Short: "Show drift between a project and the current template",
		Long: `Compare the JSON and YAML files of a generated project with what
'tsgen new' would write for it today.

Shows:
  - Missing files (in the template but not in the project)
  - Modified files, with a structured report of changed keys

The application name is read from package.json unless --name is given.

Exit codes:
  0 - No drift found
  1 - Drift exists or an error occurred`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runDiff(c, dir, opts)
		},
	}

	opts.AddTo(c)

	return c
}

func runDiff(c *cobra.Command, dir string, opts *ProjectFlags) error {
	target, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dir, err)
	}

	output.Debug("comparing project", "dir", target)

	drift, err := templates.Diff(templates.DiffOptions{
		TargetDir:   target,
		AppName:     opts.Name,
		ToolVersion: version.Get().Version,
		UseColor:    opts.useColor(),
	})
	if err != nil {
		return reportError(output.Logger(), "comparing project", err)
	}

	fmt.Fprintln(c.OutOrStdout(), templates.RenderDrift(drift, opts.styles()))
	if len(drift) == 0 {
		return nil
	}

	// differences exit 1, like diff(1)
	return &ExitError{Code: ExitGeneralError, Err: errors.New("drift found"), Printed: true}
}
