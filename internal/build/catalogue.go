// Package build defines the tsgen task catalogue: the built-in build tasks
// of a scaffolded project plus any custom tasks declared in tasks.hcl.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/config"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/livereload"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/session"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/staleness"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/taskgraph"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/tool"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/watch"
)

// Built-in task names.
const (
	TaskHelp              = "help"
	TaskDefault           = "default"
	TaskScriptsVet        = "scripts-vet"
	TaskVetES5            = "vet:es5"
	TaskVetTypeScript     = "vet:typescript"
	TaskCleanGenerated    = "clean:generated"
	TaskTypeScriptCompile = "typescript-compile"
	TaskTypeScriptWatch   = "typescript-watch"
	TaskTestsRun          = "tests-run"
	TaskTestsWatch        = "tests-watch"
	TaskTestsServe        = "tests-serve"
	TaskSpecsInject       = "specs:inject"
	TaskImportsInject     = "imports:inject"
)

// CustomTasksFile is read from the project root when present.
const CustomTasksFile = "tasks.hcl"

// KarmaExcludeEnv carries karma.exclude to karma.conf.js as a JSON array.
const KarmaExcludeEnv = "TSGEN_KARMA_EXCLUDE_JSON"

// Options configures a Catalogue.
type Options struct {
	Config *config.Config

	// Session owns watch loops and detached tools. Tasks that start
	// background work fail without one.
	Session *session.Session

	// Force bypasses staleness checks.
	Force bool

	// Verbose lists each vetted file.
	Verbose bool

	// Out receives the help listing and tool output.
	Out io.Writer

	Logger *log.Logger
}

// Catalogue is the task graph of one project.
type Catalogue struct {
	cfg     *config.Config
	graph   *taskgraph.Graph
	tracker *staleness.Tracker
	session *session.Session
	out     io.Writer
	logger  *log.Logger
	verbose bool

	mu       sync.Mutex
	watching bool
	server   *livereload.Server
}

// New builds the catalogue for cfg: the built-in tasks first, then the
// custom tasks of tasks.hcl when the project has one.
func New(opts Options) (*Catalogue, error) {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	c := &Catalogue{
		cfg:   opts.Config,
		graph: taskgraph.New(taskgraph.WithLogger(opts.Logger)),
		tracker: &staleness.Tracker{
			Root:     opts.Config.Root,
			StampDir: opts.Config.StampDir,
			Force:    opts.Force,
		},
		session: opts.Session,
		out:     opts.Out,
		logger:  opts.Logger,
		verbose: opts.Verbose,
	}

	if err := c.graph.RegisterAll(c.builtins()); err != nil {
		return nil, fmt.Errorf("registering built-in tasks: %w", err)
	}

	custom, err := LoadCustomTasks(c.cfg.Path(CustomTasksFile), c.cfg)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if len(custom) > 0 {
		tasks := make([]taskgraph.Task, len(custom))
		for i, ct := range custom {
			tasks[i] = c.customTask(ct)
		}
		if err := c.graph.RegisterAll(tasks); err != nil {
			return nil, fmt.Errorf("registering %s: %w", CustomTasksFile, err)
		}
		c.logger.Debug("loaded custom tasks", "file", CustomTasksFile, "count", len(custom))
	}

	return c, nil
}

// Graph returns the underlying task graph.
func (c *Catalogue) Graph() *taskgraph.Graph {
	return c.graph
}

// Run runs the named tasks and their prerequisites.
func (c *Catalogue) Run(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		names = []string{TaskDefault}
	}
	return c.graph.Run(ctx, names...)
}

func (c *Catalogue) builtins() []taskgraph.Task {
	task := func(name string, prereqs []string, action taskgraph.Action, desc string) taskgraph.Task {
		return taskgraph.Task{
			Name:          name,
			Prerequisites: prereqs,
			Action:        action,
			Description:   desc,
			Hidden:        strings.Contains(name, ":"),
		}
	}
	return []taskgraph.Task{
		task(TaskHelp, nil, c.help, "List the available tasks"),
		task(TaskDefault, []string{TaskHelp}, nil, "Alias for help"),
		task(TaskScriptsVet, []string{TaskVetES5, TaskVetTypeScript}, nil, "Lint JavaScript and TypeScript sources"),
		task(TaskVetES5, nil, c.vetES5, "Lint root JavaScript files with jshint"),
		task(TaskVetTypeScript, nil, c.vetTypeScript, "Lint TypeScript sources with tslint"),
		task(TaskCleanGenerated, nil, c.cleanGenerated, "Remove compiled output"),
		task(TaskTypeScriptCompile, []string{TaskVetTypeScript}, c.compile, "Compile TypeScript when sources changed"),
		task(TaskTypeScriptWatch, []string{TaskTypeScriptCompile}, c.watchTypeScript, "Recompile TypeScript on change"),
		task(TaskTestsRun, []string{TaskTypeScriptCompile}, c.testsRun, "Run the karma test suite once"),
		task(TaskTestsWatch, []string{TaskTypeScriptWatch}, c.testsWatch, "Run karma in watch mode"),
		task(TaskTestsServe, []string{TaskSpecsInject, TaskImportsInject, TaskTypeScriptWatch}, c.testsServe, "Serve the spec runner with live reload"),
		task(TaskSpecsInject, nil, c.specsInject, "Inject scripts and specs into the spec runner"),
		task(TaskImportsInject, nil, c.importsInject, "Render the module loader imports script"),
	}
}

// requireSession returns the session background work is attached to.
func (c *Catalogue) requireSession(task string) (*session.Session, error) {
	if c.session == nil {
		return nil, fmt.Errorf("%s starts background work and needs a session", task)
	}
	return c.session, nil
}

// command resolves a configured tool into an invocation rooted at the
// project.
func (c *Catalogue) command(name string, tc config.ToolConfig, args ...string) tool.Command {
	return ToolCommand(c.cfg, name, tc, args...)
}

// ToolCommand resolves a configured tool of cfg. Relative commands
// containing a separator are taken relative to the project root, bare
// names are looked up in PATH.
func ToolCommand(cfg *config.Config, name string, tc config.ToolConfig, args ...string) tool.Command {
	path := tc.Command
	if strings.ContainsAny(path, `/\`) && !filepath.IsAbs(filepath.FromSlash(path)) {
		path = cfg.Path(path)
	}
	return tool.Command{
		Name: name,
		Path: path,
		Args: append(append([]string{}, tc.Args...), args...),
		Dir:  cfg.Root,
	}
}

// Tools lists the configured external tools by name, in a stable order.
func Tools(cfg *config.Config) []NamedTool {
	return []NamedTool{
		{Name: "tsc", Config: cfg.Tools.TSC},
		{Name: "tslint", Config: cfg.Tools.TSLint},
		{Name: "jshint", Config: cfg.Tools.JSHint},
		{Name: "karma", Config: cfg.Tools.Karma},
	}
}

// NamedTool pairs a tool name with its configuration.
type NamedTool struct {
	Name   string
	Config config.ToolConfig
}

// skipDirs lists directories no watcher should descend into.
func (c *Catalogue) skipDirs(extra ...string) []string {
	skip := append([]string{}, watch.DefaultSkip...)
	skip = append(skip, c.cfg.StampDir)
	return append(skip, extra...)
}
