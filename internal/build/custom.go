package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/config"
	terrors "github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/errors"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/taskgraph"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/tool"
)

// CustomTask is a `task` block of tasks.hcl.
type CustomTask struct {
	Name        string            `hcl:"name,label"`
	Description string            `hcl:"description,optional"`
	Deps        []string          `hcl:"deps,optional"`
	Command     string            `hcl:"command"`
	Args        []string          `hcl:"args,optional"`
	Inputs      []string          `hcl:"inputs,optional"`
	Env         map[string]string `hcl:"env,optional"`
	Hidden      bool              `hcl:"hidden,optional"`
}

type customFile struct {
	Tasks []CustomTask `hcl:"task,block"`
}

// LoadCustomTasks parses the tasks.hcl file at path. Expressions may refer
// to config.* and env.*. A missing file returns an error wrapping
// os.ErrNotExist.
func LoadCustomTasks(path string, cfg *config.Config) ([]CustomTask, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, hclError(path, diags)
	}

	var root customFile
	if diags := gohcl.DecodeBody(file.Body, evalContext(cfg), &root); diags.HasErrors() {
		return nil, hclError(path, diags)
	}
	for _, t := range root.Tasks {
		if strings.TrimSpace(t.Command) == "" {
			return nil, terrors.NewValidationError(
				fmt.Sprintf("task %q has an empty command", t.Name),
				path, "command", "Set command to the program the task runs",
			)
		}
	}

	return root.Tasks, nil
}

func hclError(path string, diags hcl.Diagnostics) error {
	return &terrors.DetailError{
		Type:     "invalid custom tasks",
		Message:  diags.Error(),
		Location: path,
		Hint:     "See the task blocks in " + CustomTasksFile,
		Cause:    terrors.ErrValidation,
	}
}

// evalContext exposes the project configuration and environment to
// tasks.hcl expressions.
func evalContext(cfg *config.Config) *hcl.EvalContext {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = cty.StringVal(v)
		}
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"config": cty.ObjectVal(map[string]cty.Value{
				"root":     cty.StringVal(cfg.Root),
				"stampDir": cty.StringVal(cfg.StampDir),
				"ts": cty.ObjectVal(map[string]cty.Value{
					"files":   stringList(cfg.TS.Files),
					"out":     cty.StringVal(cfg.TS.Out),
					"project": cty.StringVal(cfg.TS.Project),
				}),
				"js": cty.ObjectVal(map[string]cty.Value{
					"root":  stringList(cfg.JS.Root),
					"src":   stringList(cfg.JS.Src),
					"specs": stringList(cfg.JS.Specs),
				}),
				"specRunner": cty.StringVal(cfg.SpecRunner),
			}),
			"env": cty.ObjectVal(env),
		},
	}
}

func stringList(values []string) cty.Value {
	if len(values) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(values))
	for i, v := range values {
		vals[i] = cty.StringVal(v)
	}
	return cty.ListVal(vals)
}

// customTask turns a tasks.hcl block into a graph task running its command.
// Tasks with inputs are skipped while their inputs are unchanged.
func (c *Catalogue) customTask(ct CustomTask) taskgraph.Task {
	desc := ct.Description
	if desc == "" {
		desc = strings.TrimSpace(ct.Command + " " + strings.Join(ct.Args, " "))
	}

	env := make([]string, 0, len(ct.Env))
	for k, v := range ct.Env {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)

	action := func(ctx context.Context) error {
		began := time.Now()
		if len(ct.Inputs) > 0 {
			stale, err := c.tracker.Check(ct.Name, ct.Inputs)
			if err != nil {
				return err
			}
			if !stale {
				c.logger.Debug("inputs unchanged, skipping", "task", ct.Name)
				return nil
			}
		}

		cmd := c.command(ct.Name, config.ToolConfig{Command: ct.Command, Args: ct.Args})
		cmd.Env = env
		cmd.Stream = c.out
		if _, err := tool.Invoke(ctx, cmd); err != nil {
			var exitErr *tool.ExitStatusError
			if errors.As(err, &exitErr) {
				c.logger.Error("custom task failed", "task", ct.Name, "status", exitErr.ExitCode)
			}
			return err
		}

		if len(ct.Inputs) > 0 {
			return c.tracker.Mark(ct.Name, began)
		}
		return nil
	}

	return taskgraph.Task{
		Name:          ct.Name,
		Prerequisites: ct.Deps,
		Action:        action,
		Description:   desc,
		Hidden:        ct.Hidden,
	}
}
