package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/config"
	terrors "github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/errors"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/output"
)

const configHeader = "# tsgen project configuration. Paths are relative to root.\n"

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(g *GlobalConfig) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Long: `Write tsgen.yaml with every setting at its default value.

The defaults describe the layout of a project generated by 'tsgen new', so
the file is only needed to change them.

Examples:
  # Write ./tsgen.yaml
  tsgen config init

  # Overwrite an existing file
  tsgen config init --force`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runConfigInit(c, g, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")

	return cmd
}

func runConfigInit(c *cobra.Command, g *GlobalConfig, force bool) error {
	path, err := config.ExpandPath(g.ConfigPath.ConfigPath)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	if _, err := os.Stat(path); err == nil && !force {
		return reportError(output.Logger(), "writing configuration", &terrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration already exists",
			Location: path,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    terrors.ErrValidation,
		})
	}

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return terrors.Wrap(terrors.ErrPermission, "could not create "+filepath.Dir(path))
	}
	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0o644); err != nil {
		return terrors.Wrap(terrors.ErrPermission, "could not write "+path)
	}

	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Configuration written to "+output.StyleNoun.Render(path)))
	fmt.Fprintln(c.OutOrStdout(), "Validate with: tsgen config vet")
	return nil
}
