package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/output"
)

// NewConfigShowCmd creates the config show command.
func NewConfigShowCmd(g *GlobalConfig) *cobra.Command {
	flags := &OutputFlags{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration tasks run with: defaults, then tsgen.yaml,
then TSGEN_ environment overrides. Root is shown as an absolute path.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			format, err := flags.Parse()
			if err != nil {
				return reportError(output.Logger(), "invalid flags", err)
			}

			cfg, err := g.LoadConfig()
			if err != nil {
				return reportError(output.Logger(), "loading configuration", err)
			}

			if err := format.Encode(c.OutOrStdout(), cfg); err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}
			return nil
		},
	}

	flags.AddTo(cmd)

	return cmd
}
