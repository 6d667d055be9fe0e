package tool

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
)

// Process is a detached tool started by a Supervisor.
type Process struct {
	Name string

	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

// Pid returns the process id, which is also its process group id.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Done is closed when the process has exited.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Err returns the wait error once Done is closed.
func (p *Process) Err() error {
	<-p.done
	return p.err
}

// stop sends SIGTERM to the group, then SIGKILL after grace.
func (p *Process) stop(grace time.Duration) {
	select {
	case <-p.done:
		return
	default:
	}

	if err := signalGroup(p.cmd.Process, syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		_ = signalGroup(p.cmd.Process, syscall.SIGKILL)
	}

	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-p.done:
		return
	case <-timer.C:
	}

	_ = signalGroup(p.cmd.Process, syscall.SIGKILL)
	<-p.done
}

// Supervisor owns long-running tool processes. Shutdown, or cancelling the
// context a process was started with, terminates its whole process group.
type Supervisor struct {
	logger *log.Logger
	grace  time.Duration

	mu     sync.Mutex
	procs  []*Process
	closed bool
}

// NewSupervisor creates a Supervisor. grace is how long a process has to
// exit after SIGTERM when its context ends.
func NewSupervisor(logger *log.Logger, grace time.Duration) *Supervisor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Supervisor{logger: logger, grace: grace}
}

// Start launches c detached. Output goes to c.Stream, or to the
// supervisor's stdout and stderr when Stream is nil.
func (s *Supervisor) Start(ctx context.Context, c Command) (*Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.New("supervisor is shut down")
	}

	cmd := exec.Command(c.Path, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.SysProcAttr = sysProcAttr()
	cmd.WaitDelay = waitDelay
	if c.Stream != nil {
		cmd.Stdout = c.Stream
		cmd.Stderr = c.Stream
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, startError(c, err)
	}

	p := &Process{Name: c.displayName(), cmd: cmd, done: make(chan struct{})}
	s.procs = append(s.procs, p)
	s.logger.Debug("started", "tool", p.Name, "pid", cmd.Process.Pid)

	go func() {
		p.err = cmd.Wait()
		close(p.done)
		s.logger.Debug("exited", "tool", p.Name, "pid", cmd.Process.Pid)
	}()

	go func() {
		select {
		case <-ctx.Done():
			p.stop(s.grace)
		case <-p.done:
		}
	}()

	return p, nil
}

// Running returns the processes that have not exited.
func (s *Supervisor) Running() []*Process {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Process
	for _, p := range s.procs {
		select {
		case <-p.done:
		default:
			out = append(out, p)
		}
	}
	return out
}

// Shutdown stops every process and waits for all of them to exit. Later
// Start calls fail.
func (s *Supervisor) Shutdown(grace time.Duration) {
	s.mu.Lock()
	s.closed = true
	procs := append([]*Process(nil), s.procs...)
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, p := range procs {
		wg.Add(1)
		go func(p *Process) {
			defer wg.Done()
			p.stop(grace)
		}(p)
	}
	wg.Wait()
}
