package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/build"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/config"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/output"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/tool"
)

// detectTimeout bounds each `<tool> --version` run.
const detectTimeout = 15 * time.Second

// toolCheck is the doctor verdict for one tool.
type toolCheck struct {
	Name       string
	Command    string
	Version    string
	Constraint string
	Status     string
	Detail     string
}

// NewDoctorCmd creates the doctor command.
func NewDoctorCmd(g *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the external build tools",
		Long: `Check that tsc, tslint, jshint and karma can be run and satisfy the
version constraints of tsgen.yaml (tools.<name>.constraint).

Each tool is run with --version from the project root. Tools are usually
installed into node_modules by 'npm install'.

Exit codes:
  0 - Every tool is present and recent enough
  1 - A tool is missing or too old`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := g.LoadConfig()
			if err != nil {
				return reportError(output.Logger(), "loading configuration", err)
			}

			checks := checkTools(c.Context(), cfg)

			tbl := output.NewTable("TOOL", "COMMAND", "VERSION", "CONSTRAINT", "STATUS").StatusColumn(4)
			failed := 0
			for _, ch := range checks {
				tbl.Row(
					output.StyleNoun.Render(ch.Name),
					ch.Command,
					ch.Version,
					ch.Constraint,
					ch.Status,
				)
				if ch.Status != output.StatusOK {
					failed++
				}
			}
			fmt.Fprintln(c.OutOrStdout(), tbl.String())

			if failed > 0 {
				for _, ch := range checks {
					if ch.Detail != "" {
						output.Warn(ch.Name, "status", ch.Status, "detail", ch.Detail)
					}
				}
				output.Error("some tools need attention", "count", failed)
				output.Info("Run 'npm install' in the project root, or point tools.<name>.command at an installed tool")
				return &ExitError{Code: ExitGeneralError, Err: fmt.Errorf("%d tool(s) missing or outdated", failed), Printed: true}
			}

			fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("All tools found"))
			return nil
		},
	}
}

// checkTools detects the version of every configured tool.
func checkTools(ctx context.Context, cfg *config.Config) []toolCheck {
	tools := build.Tools(cfg)
	checks := make([]toolCheck, 0, len(tools))
	for _, t := range tools {
		checks = append(checks, checkTool(ctx, cfg, t))
	}
	return checks
}

func checkTool(ctx context.Context, cfg *config.Config, t build.NamedTool) toolCheck {
	cmd := build.ToolCommand(cfg, t.Name, t.Config)
	ch := toolCheck{
		Name:       t.Name,
		Command:    t.Config.Command,
		Version:    "-",
		Constraint: t.Config.Constraint,
	}
	if ch.Constraint == "" {
		ch.Constraint = "*"
	}

	ctx, cancel := context.WithTimeout(ctx, detectTimeout)
	defer cancel()

	v, err := tool.DetectVersion(ctx, cmd)
	if err != nil {
		ch.Status = output.StatusMissing
		ch.Detail = err.Error()
		return ch
	}
	ch.Version = v.String()

	ok, err := tool.Requirement{Name: t.Name, Constraint: t.Config.Constraint}.Check(v)
	switch {
	case err != nil:
		ch.Status = output.StatusFailed
		ch.Detail = err.Error()
	case !ok:
		ch.Status = output.StatusOutdated
		ch.Detail = fmt.Sprintf("%s does not satisfy %s", v, t.Config.Constraint)
	default:
		ch.Status = output.StatusOK
	}
	output.Debug("checked tool", "tool", t.Name, "version", ch.Version, "status", ch.Status)
	return ch
}
