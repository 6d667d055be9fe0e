// Package taskgraph runs named tasks after their prerequisites.
//
// A Graph is an explicit registry owned by the caller. Tasks are registered
// once and are immutable afterwards. Run executes the prerequisite closure of
// the requested tasks, each task at most once per call, with independent
// branches running concurrently.
package taskgraph

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	terrors "github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/errors"
)

// Action is the work of a task. A nil Action makes the task a pure
// grouping of its prerequisites.
type Action func(ctx context.Context) error

// Task is a registered unit of work.
type Task struct {
	Name          string
	Prerequisites []string
	Action        Action

	// Description is shown by task listings.
	Description string

	// Hidden tasks are listed separately as sub tasks.
	Hidden bool
}

// TaskOption sets optional task metadata.
type TaskOption func(*Task)

// WithDescription sets the task description.
func WithDescription(desc string) TaskOption {
	return func(t *Task) {
		t.Description = desc
	}
}

// AsHidden marks the task as a sub task.
func AsHidden() TaskOption {
	return func(t *Task) {
		t.Hidden = true
	}
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger used for task start and finish lines.
func WithLogger(l *log.Logger) Option {
	return func(g *Graph) {
		g.logger = l
	}
}

// Graph is a registry of tasks.
type Graph struct {
	mu     sync.RWMutex
	tasks  map[string]*Task
	order  []string
	logger *log.Logger
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		tasks:  make(map[string]*Task),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Register adds a task. Every prerequisite must already be registered.
func (g *Graph) Register(name string, prerequisites []string, action Action, opts ...TaskOption) error {
	t := Task{Name: name, Prerequisites: prerequisites, Action: action}
	for _, opt := range opts {
		opt(&t)
	}
	return g.RegisterAll([]Task{t})
}

// RegisterAll adds a batch of tasks atomically. Prerequisites may refer to
// tasks already registered or to tasks in the same batch, in any order.
// On error nothing is registered.
func (g *Graph) RegisterAll(batch []Task) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	merged := make(map[string]*Task, len(g.tasks)+len(batch))
	for name, t := range g.tasks {
		merged[name] = t
	}

	names := make([]string, 0, len(batch))
	for i := range batch {
		t := batch[i]
		if t.Name == "" {
			return terrors.Wrap(terrors.ErrValidation, "task name must not be empty")
		}
		if _, exists := merged[t.Name]; exists {
			return fmt.Errorf("task %q is already registered: %w", t.Name, terrors.ErrValidation)
		}
		t.Prerequisites = append([]string(nil), t.Prerequisites...)
		merged[t.Name] = &t
		names = append(names, t.Name)
	}

	for _, name := range names {
		for _, p := range merged[name].Prerequisites {
			if p == name {
				return &CyclicDependencyError{Cycle: []string{name, name}}
			}
			if _, ok := merged[p]; !ok {
				return &UnknownTaskError{Task: p, RequiredBy: name}
			}
		}
	}

	if cycle := findCycle(merged, names); cycle != nil {
		return &CyclicDependencyError{Cycle: cycle}
	}

	for _, name := range names {
		g.tasks[name] = merged[name]
	}
	g.order = append(g.order, names...)
	return nil
}

// Lookup returns the task registered under name.
func (g *Graph) Lookup(name string) (Task, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	t, ok := g.tasks[name]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// Tasks returns every registered task sorted by name.
func (g *Graph) Tasks() []Task {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Task, 0, len(g.tasks))
	for _, t := range g.tasks {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// snapshot copies the task map so a run is unaffected by later registrations.
func (g *Graph) snapshot() map[string]*Task {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[string]*Task, len(g.tasks))
	for name, t := range g.tasks {
		out[name] = t
	}
	return out
}
