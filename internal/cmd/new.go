package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/output"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/prompt"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/templates"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/version"
)

// newOptions holds the flags for the new command.
type newOptions struct {
	project ProjectFlags
	yes     bool
	force   bool
}

// NewNewCmd creates the new command.
func NewNewCmd(_ *GlobalConfig) *cobra.Command {
	opts := &newOptions{}

	c := &cobra.Command{
		Use:   "new [dir]",
		Short: "Generate a TypeScript project",
		Long: `Generate a TypeScript project for Visual Studio Code.

The project is written into dir, or the current directory. The application
name defaults to the kebab-case form of the directory name and is asked for
unless --name or --yes is given.

Files that already exist with different content are conflicts: nothing is
written unless --force is given. With --force, JSON and YAML files that are
overwritten are reported with a structured diff.

Examples:
  # Generate into ./my-app, asking for the name
  tsgen new my-app

  # Generate without prompting
  tsgen new my-app --name my-app

  # Refresh an existing project from the current template
  tsgen new . --yes --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runNew(c, dir, opts)
		},
	}

	opts.project.AddTo(c)
	c.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Accept the default application name without prompting")
	c.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite existing files that differ from the template")

	return c
}

func runNew(c *cobra.Command, dir string, opts *newOptions) error {
	logger := output.Logger()

	target, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dir, err)
	}

	name := opts.project.Name
	if name == "" && !opts.yes {
		name, err = prompt.AppName(c.Context(), prompt.Options{
			Default:     templates.DeriveAppName(target),
			In:          c.InOrStdin(),
			Out:         c.OutOrStdout(),
			Interactive: isTerminalInput(c.InOrStdin()),
		})
		if errors.Is(err, prompt.ErrCancelled) {
			logger.Warn("cancelled, nothing was generated")
			return &ExitError{Code: ExitGeneralError, Err: err, Printed: true}
		}
		if err != nil {
			return err
		}
	}

	gen := templates.NewGenerator(templates.GenerateOptions{
		TargetDir:   target,
		AppName:     name,
		Force:       opts.force,
		ToolVersion: version.Get().Version,
	})
	result, err := gen.Generate()
	if err != nil {
		return reportError(logger, "generating project", err)
	}

	out := c.OutOrStdout()
	printGenerated(out, result)

	if len(result.Drift) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, output.StyleSummary.Render("Overwritten files:"))
		fmt.Fprint(out, templates.RenderDrift(result.Drift, opts.project.styles()))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, output.FormatCheckmark(fmt.Sprintf("Project %s generated", output.StyleNoun.Render(result.AppName))))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	if rel, err := filepath.Rel(cwd(), target); err == nil && rel != "." {
		fmt.Fprintf(out, "  cd %s\n", rel)
	}
	fmt.Fprintln(out, "  npm install")
	fmt.Fprintln(out, "  tsgen run tests-run")
	fmt.Fprintln(out, "  code .")

	return nil
}

// printGenerated prints the file tree of the generated project with the
// fate of each file.
func printGenerated(out io.Writer, result *templates.GenerateResult) {
	entries := make([]output.TreeEntry, 0, len(result.Files()))
	for _, f := range result.Created {
		entries = append(entries, output.TreeEntry{Path: f})
	}
	for _, f := range result.Overwritten {
		entries = append(entries, output.TreeEntry{Path: f, Note: output.StatusOverwritten})
	}
	for _, f := range result.Unchanged {
		entries = append(entries, output.TreeEntry{Path: f, Note: output.StatusUnchanged})
	}
	fmt.Fprint(out, output.RenderFileTree(filepath.Base(result.TargetDir), entries))
}

// isTerminalInput reports whether in is the process stdin attached to a
// terminal.
func isTerminalInput(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && f == os.Stdin && output.IsInputTTY()
}

func cwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
