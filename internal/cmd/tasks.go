package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/build"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/output"
)

// NewTasksCmd creates the tasks command.
func NewTasksCmd(g *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List the build tasks",
		Long: `List the build tasks of the project, including custom tasks from
tasks.hcl. Same as 'tsgen run help'.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := g.LoadConfig()
			if err != nil {
				return reportError(output.Logger(), "loading configuration", err)
			}

			catalogue, err := build.New(build.Options{Config: cfg, Out: c.OutOrStdout()})
			if err != nil {
				return reportError(output.Logger(), "loading tasks", err)
			}

			fmt.Fprint(c.OutOrStdout(), build.Listing(catalogue.Graph().Tasks()))
			return nil
		},
	}
}
