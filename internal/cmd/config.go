package cmd

import (
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(g *GlobalConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long: `Manage the project configuration file tsgen.yaml.

The file is resolved using precedence:
  --config flag > TSGEN_CONFIG env > ./tsgen.yaml

Every value can also be overridden by a TSGEN_ environment variable, for
example TSGEN_BROWSERSYNC_PORT=4000.`,
	}

	cmd.AddCommand(NewConfigInitCmd(g))
	cmd.AddCommand(NewConfigVetCmd(g))
	cmd.AddCommand(NewConfigShowCmd(g))

	return cmd
}
