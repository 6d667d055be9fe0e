// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/config"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/output"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/version"
)

// GlobalConfig holds CLI-wide settings resolved during PersistentPreRunE.
// It is created by NewRootCmd and handed to every sub-command constructor.
type GlobalConfig struct {
	ConfigFlag string
	Verbose    bool
	Timestamps bool

	// ConfigPath is the resolved tsgen.yaml location.
	ConfigPath config.ResolveConfigPathResult
}

// LoadConfig loads and validates the project configuration. A missing file
// is only an error when its path was given explicitly.
func (g *GlobalConfig) LoadConfig() (*config.Config, error) {
	return config.LoadAndValidate(g.ConfigPath.ConfigPath, g.ConfigPath.Required())
}

// NewRootCmd creates the root command for the tsgen CLI.
func NewRootCmd() *cobra.Command {
	g := &GlobalConfig{}

	rootCmd := &cobra.Command{
		Use:   "tsgen",
		Short: "TypeScript project generator and build runner",
		Long: `tsgen scaffolds a TypeScript project for Visual Studio Code and runs its build.

It provides commands to:
  - Generate a project with linting, testing and a live reload spec runner
  - Run the project's build tasks (compile, vet, test, serve)
  - Check the external tools the build relies on`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initializeGlobals(cmd, g)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.ConfigFlag, "config", "c", "", "path to tsgen.yaml (env: TSGEN_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&g.Verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&g.Timestamps, "timestamps", true, "show timestamps in log output")

	rootCmd.AddCommand(NewNewCmd(g))
	rootCmd.AddCommand(NewDiffCmd(g))
	rootCmd.AddCommand(NewRunCmd(g))
	rootCmd.AddCommand(NewTasksCmd(g))
	rootCmd.AddCommand(NewConfigCmd(g))
	rootCmd.AddCommand(NewDoctorCmd(g))
	rootCmd.AddCommand(NewVersionCmd(g))

	return rootCmd
}

// initializeGlobals resolves the config path and sets up logging.
func initializeGlobals(cmd *cobra.Command, g *GlobalConfig) error {
	g.ConfigPath = config.ResolveConfigPath(config.ResolveConfigPathOptions{
		FlagValue: g.ConfigFlag,
	})

	logCfg := output.LogConfig{Verbose: g.Verbose}

	// Resolve timestamps: flag (if explicitly set) > config > default (nil = true)
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(g.Timestamps)
	} else if cfg, err := config.NewLoader().Load(g.ConfigPath.ConfigPath, false); err == nil {
		logCfg.Timestamps = cfg.Log.Timestamps
	}

	output.SetupLogging(logCfg)

	if g.Verbose {
		info := version.Get()
		output.Debug("initializing CLI",
			"version", info.Version,
			"config", g.ConfigPath.ConfigPath,
			"source", g.ConfigPath.Source,
		)
	}

	return nil
}
