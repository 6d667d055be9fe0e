package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/output"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(_ *GlobalConfig) *cobra.Command {
	flags := &OutputFlags{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show tsgen version information.

Displays:
  - tsgen version, commit, and build date
  - Go version
  - CUE SDK version (used to validate tsgen.yaml)

Use -o json or -o yaml for machine readable output.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			info := version.Get()
			if !c.Flags().Changed("output") {
				fmt.Fprintln(c.OutOrStdout(), info.String())
				return nil
			}

			format, err := flags.Parse()
			if err != nil {
				return reportError(output.Logger(), "invalid flags", err)
			}

			if err := format.Encode(c.OutOrStdout(), info); err != nil {
				return fmt.Errorf("encoding version: %w", err)
			}
			return nil
		},
	}

	flags.AddTo(cmd)

	return cmd
}
