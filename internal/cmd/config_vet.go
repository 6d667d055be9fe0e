package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/config"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(g *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the project configuration file.

Checks performed:
  1. The config file exists at the resolved path
  2. It is valid YAML
  3. With environment overrides applied, every value satisfies the schema
     (port range, log levels, non-empty sources, spec runner is HTML)

Examples:
  # Validate ./tsgen.yaml
  tsgen config vet

  # Validate another file
  tsgen config vet --config ci/tsgen.yaml`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			path := g.ConfigPath.ConfigPath
			output.Debug("validating config", "path", path, "source", g.ConfigPath.Source)

			cfg, err := config.LoadAndValidate(path, true)
			if err != nil {
				return reportError(output.Logger(), "invalid configuration", err)
			}

			fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Configuration is valid: "+output.StyleNoun.Render(cfg.File)))
			return nil
		},
	}
}
