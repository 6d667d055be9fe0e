package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	terrors "github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/errors"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/output"
)

// OutputFlags holds the --output flag of commands printing structured data.
type OutputFlags struct {
	Format string
}

// AddTo registers the output flag on the given cobra command.
func (f *OutputFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Format, "output", "o", "yaml",
		fmt.Sprintf("Output format (%s)", strings.Join(output.ValidFormats(), ", ")))
}

// Parse returns the selected format, or a validation error naming the
// accepted ones.
func (f *OutputFlags) Parse() (output.OutputFormat, error) {
	format := output.ParseOutputFormat(f.Format)
	if !format.Valid() {
		return "", terrors.NewValidationError(
			fmt.Sprintf("unsupported output format %q", f.Format),
			"", "output",
			"Use one of: "+strings.Join(output.ValidFormats(), ", "),
		)
	}
	return format, nil
}

// ProjectFlags holds the flags of commands that act on a generated project
// (new, diff).
type ProjectFlags struct {
	Name    string
	NoColor bool
}

// AddTo registers the project flags on the given cobra command.
func (f *ProjectFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Name, "name", "",
		"Application name (default: kebab-case of the directory name)")
	cmd.Flags().BoolVar(&f.NoColor, "no-color", false,
		"Disable colored diff output")
}

// useColor reports whether reports should be colored.
func (f *ProjectFlags) useColor() bool {
	return !f.NoColor && output.IsTTY()
}

// styles returns the style set matching useColor.
func (f *ProjectFlags) styles() *output.Styles {
	if f.useColor() {
		return output.GetStyles()
	}
	return output.NoColorStyles()
}
