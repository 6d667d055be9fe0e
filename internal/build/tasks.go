package build

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/config"
	terrors "github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/errors"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/glob"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/inject"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/livereload"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/output"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/tool"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/watch"
)

func (c *Catalogue) vetES5(ctx context.Context) error {
	return c.lint(ctx, TaskVetES5, "jshint", c.cfg.Tools.JSHint, c.cfg.JS.Root, c.cfg.Lint.FailOnES5Errors)
}

func (c *Catalogue) vetTypeScript(ctx context.Context) error {
	return c.lint(ctx, TaskVetTypeScript, "tslint", c.cfg.Tools.TSLint, c.cfg.TS.Files, c.cfg.Lint.FailOnTypeScriptErrors)
}

// lint runs a linter over the files matching patterns when any of them
// changed since the last clean run. Findings are printed in full; they fail
// the task only when failOnErrors is set. Only a clean run is stamped, so
// findings are reported again on the next run.
func (c *Catalogue) lint(ctx context.Context, task, name string, tc config.ToolConfig, patterns []string, failOnErrors bool) error {
	began := time.Now()
	stale, err := c.tracker.Check(task, patterns)
	if err != nil {
		return err
	}
	if !stale {
		c.logger.Debug("sources unchanged, skipping", "task", task)
		return nil
	}

	files, err := glob.Expand(c.cfg.Root, patterns)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		c.logger.Debug("no files to lint", "task", task)
		return c.tracker.Mark(task, began)
	}
	if c.verbose {
		for _, f := range files {
			c.logger.Info(output.StyleNoun.Render(f), "task", task)
		}
	}

	res, err := tool.Invoke(ctx, c.command(name, tc, files...))
	var exitErr *tool.ExitStatusError
	switch {
	case errors.As(err, &exitErr):
		fmt.Fprint(c.out, exitErr.Output)
		if failOnErrors {
			return err
		}
		c.logger.Warn("lint findings reported", "tool", name, "files", len(files))
		return nil
	case err != nil:
		return err
	}

	if len(res.Output) > 0 && c.verbose {
		c.out.Write(res.Output)
	}
	return c.tracker.Mark(task, began)
}

func (c *Catalogue) cleanGenerated(_ context.Context) error {
	out := c.cfg.Path(c.cfg.TS.Out)
	rel, err := filepath.Rel(filepath.Clean(c.cfg.Root), out)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return terrors.NewValidationError(
			fmt.Sprintf("refusing to remove %s", out),
			c.cfg.File,
			"ts.out",
			"ts.out must name a directory inside the project root",
		)
	}

	if err := os.RemoveAll(out); err != nil {
		return fmt.Errorf("removing %s: %w", out, err)
	}
	c.logger.Debug("removed generated output", "dir", c.cfg.TS.Out)
	return c.tracker.Clear(TaskTypeScriptCompile)
}

// compileInputs adds tsconfig.json to the TypeScript sources.
func (c *Catalogue) compileInputs() []string {
	inputs := append([]string{}, c.cfg.TS.Files...)
	return append(inputs, filepath.ToSlash(filepath.Join(c.cfg.TS.Project, "tsconfig.json")))
}

func (c *Catalogue) compile(ctx context.Context) error {
	began := time.Now()
	stale, err := c.tracker.Check(TaskTypeScriptCompile, c.compileInputs(), c.cfg.TS.Out)
	if err != nil {
		return err
	}
	if !stale {
		c.logger.Info("TypeScript output is up to date", "out", c.cfg.TS.Out)
		return nil
	}

	if err := c.cleanGenerated(ctx); err != nil {
		return err
	}

	cmd := c.command("tsc", c.cfg.Tools.TSC, "-p", c.cfg.TS.Project)
	var res *tool.Result
	err = output.RunWithSpinner(ctx, "Compiling TypeScript...", func(ctx context.Context) error {
		var invokeErr error
		res, invokeErr = tool.Invoke(ctx, cmd)
		return invokeErr
	})

	var exitErr *tool.ExitStatusError
	if errors.As(err, &exitErr) {
		fmt.Fprint(c.out, exitErr.Output)
		return err
	}
	if err != nil {
		return err
	}

	c.logger.Debug("tsc finished", "duration", res.Duration.Round(time.Millisecond))
	return c.tracker.Mark(TaskTypeScriptCompile, began)
}

// watchTypeScript starts a session loop recompiling on source changes.
// Later calls in the same process do nothing.
func (c *Catalogue) watchTypeScript(_ context.Context) error {
	sess, err := c.requireSession(TaskTypeScriptWatch)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.watching {
		return nil
	}

	w, err := watch.New(watch.Options{
		Root:     c.cfg.Root,
		Patterns: c.compileInputs(),
		Debounce: c.cfg.Debounce(),
		Skip:     c.skipDirs(c.cfg.TS.Out),
		Logger:   c.logger,
	})
	if err != nil {
		return err
	}
	c.watching = true

	sess.Go(TaskTypeScriptWatch, func(ctx context.Context) error {
		return w.Run(ctx, func(ctx context.Context, changed []string) {
			c.logger.Info("TypeScript sources changed", "files", len(changed))
			if err := c.graph.Run(ctx, TaskTypeScriptCompile); err != nil && ctx.Err() == nil {
				c.logger.Error("recompile failed", "err", err)
			}
		})
	})
	c.logger.Info("Watching TypeScript sources", "patterns", c.cfg.TS.Files)
	return nil
}

func (c *Catalogue) karma(singleRun bool) (tool.Command, error) {
	exclude := c.cfg.Karma.Exclude
	if exclude == nil {
		exclude = []string{}
	}
	data, err := json.Marshal(exclude)
	if err != nil {
		return tool.Command{}, fmt.Errorf("encoding karma.exclude: %w", err)
	}

	args := []string{"start", c.cfg.Karma.ConfigFile}
	if singleRun {
		args = append(args, "--single-run")
	}
	cmd := c.command("karma", c.cfg.Tools.Karma, args...)
	cmd.Env = []string{KarmaExcludeEnv + "=" + string(data)}
	return cmd, nil
}

func (c *Catalogue) testsRun(ctx context.Context) error {
	cmd, err := c.karma(true)
	if err != nil {
		return err
	}
	cmd.Stream = c.out
	_, err = tool.Invoke(ctx, cmd)
	return err
}

func (c *Catalogue) testsWatch(_ context.Context) error {
	sess, err := c.requireSession(TaskTestsWatch)
	if err != nil {
		return err
	}
	cmd, err := c.karma(false)
	if err != nil {
		return err
	}
	p, err := sess.Start(cmd)
	if err != nil {
		return err
	}
	c.logger.Info("karma watching", "pid", p.Pid())
	return nil
}

// liveReload returns the process-wide live reload server.
func (c *Catalogue) liveReload() *livereload.Server {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.server == nil {
		bs := c.cfg.BrowserSync
		c.server = livereload.New(livereload.Options{
			Root:        c.cfg.Root,
			Port:        bs.Port,
			StartPath:   c.cfg.SpecRunnerFile,
			ReloadDelay: c.cfg.ReloadDelay(),
			Debounce:    c.cfg.Debounce(),
			Skip:        c.skipDirs(),
			Logger:      c.liveReloadLogger(),
		})
	}
	return c.server
}

// liveReloadLogger logs under browserSync.logPrefix at browserSync.logLevel,
// or at debug under --verbose.
func (c *Catalogue) liveReloadLogger() *log.Logger {
	bs := c.cfg.BrowserSync
	level := bs.LogLevel
	if c.verbose {
		level = "debug"
	}
	return output.NewLogger(bs.LogPrefix, level)
}

func (c *Catalogue) testsServe(_ context.Context) error {
	sess, err := c.requireSession(TaskTestsServe)
	if err != nil {
		return err
	}
	server := c.liveReload()
	sess.Go(TaskTestsServe, func(ctx context.Context) error {
		return server.Watch(ctx, c.cfg.JS.SrcSpecs, c.graph, TaskSpecsInject, TaskImportsInject)
	})
	return nil
}

func (c *Catalogue) specsInject(_ context.Context) error {
	target := c.cfg.Path(c.cfg.SpecRunner)
	changed, err := inject.Inject(inject.Request{
		Root:   c.cfg.Root,
		Target: target,
		Blocks: []inject.Block{
			{Label: "js", Patterns: c.cfg.JS.Src, Order: c.cfg.JS.Order, Template: inject.TemplateAuto},
			{Label: "specs", Patterns: c.cfg.JS.Specs, Order: []string{"**/*"}, Template: inject.TemplateAuto},
		},
	})
	if err != nil {
		return err
	}
	c.logInjected(c.cfg.SpecRunner, changed)
	return nil
}

func (c *Catalogue) importsInject(_ context.Context) error {
	changed, err := inject.Inject(inject.Request{
		Root:   c.cfg.Root,
		Target: c.cfg.Path(c.cfg.Imports.Template),
		Output: c.cfg.Path(c.cfg.Imports.Script),
		Blocks: []inject.Block{
			{Label: "import", Patterns: c.cfg.JS.Specs, Template: inject.TemplateImport},
		},
	})
	if err != nil {
		return err
	}
	c.logInjected(c.cfg.Imports.Script, changed)
	return nil
}

func (c *Catalogue) logInjected(file string, changed bool) {
	if changed {
		c.logger.Info("Injected", "file", file)
		return
	}
	c.logger.Debug("already up to date", "file", file)
}
