package taskgraph

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// future is the completion signal of one task within a run.
type future struct {
	done chan struct{}
	err  error
}

// run is the state of a single Run call.
type run struct {
	tasks  map[string]*Task
	logger *log.Logger
	cancel context.CancelFunc

	mu      sync.Mutex
	futures map[string]*future
	first   *TaskFailedError
}

// Run executes names and their prerequisite closure. Each task runs at most
// once per call; a task starts only after all of its prerequisites
// succeeded. Unrelated prerequisites run concurrently.
//
// The first action failure cancels the context passed to running actions,
// prevents any further task from starting, and is returned as a
// *TaskFailedError. Unknown names and cycles are reported before any action
// runs.
func (g *Graph) Run(ctx context.Context, names ...string) error {
	tasks := g.snapshot()
	if _, err := plan(tasks, names); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r := &run{
		tasks:   tasks,
		logger:  g.logger,
		cancel:  cancel,
		futures: make(map[string]*future),
	}

	requested := make([]*future, 0, len(names))
	for _, name := range names {
		requested = append(requested, r.start(ctx, name))
	}

	var err error
	for _, f := range requested {
		<-f.done
		if err == nil && f.err != nil {
			err = f.err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.first != nil {
		return r.first
	}
	return err
}

// start returns the future for name, launching the task on first request.
func (r *run) start(ctx context.Context, name string) *future {
	r.mu.Lock()
	if f, ok := r.futures[name]; ok {
		r.mu.Unlock()
		return f
	}
	f := &future{done: make(chan struct{})}
	r.futures[name] = f
	r.mu.Unlock()

	go r.execute(ctx, r.tasks[name], f)
	return f
}

func (r *run) execute(ctx context.Context, task *Task, f *future) {
	defer close(f.done)

	prereqs := make([]*future, 0, len(task.Prerequisites))
	for _, p := range task.Prerequisites {
		prereqs = append(prereqs, r.start(ctx, p))
	}
	for _, p := range prereqs {
		<-p.done
		if p.err != nil {
			f.err = p.err
			return
		}
	}

	if err := ctx.Err(); err != nil {
		f.err = err
		return
	}

	r.logger.Infof("Starting '%s'...", task.Name)
	began := time.Now()

	var err error
	if task.Action != nil {
		err = task.Action(ctx)
	}

	elapsed := time.Since(began).Round(time.Millisecond)
	if err != nil {
		r.logger.Errorf("'%s' errored after %s", task.Name, elapsed)
		f.err = r.fail(task.Name, err)
		return
	}
	r.logger.Infof("Finished '%s' after %s", task.Name, elapsed)
}

// fail records the first failure of the run and cancels it.
func (r *run) fail(name string, err error) *TaskFailedError {
	tf := &TaskFailedError{Task: name, Err: err}

	r.mu.Lock()
	if r.first == nil {
		r.first = tf
	}
	r.mu.Unlock()

	r.cancel()
	return tf
}
