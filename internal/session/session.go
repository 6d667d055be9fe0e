// Package session owns everything long-running in one tsgen invocation:
// watch loops, the live reload server and detached tool processes.
// Closing the session stops all of them.
package session

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/tool"
)

// DefaultGrace is how long detached tools get to exit after SIGTERM.
const DefaultGrace = 3 * time.Second

// Session groups background work under one cancellable context.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
	sup    *tool.Supervisor
	logger *log.Logger
	grace  time.Duration

	mu    sync.Mutex
	names []string
	once  sync.Once
}

// New creates a session bound to parent.
func New(parent context.Context, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ctx, cancel := context.WithCancel(parent)
	group, gctx := errgroup.WithContext(ctx)
	return &Session{
		ctx:    gctx,
		cancel: cancel,
		group:  group,
		sup:    tool.NewSupervisor(logger, DefaultGrace),
		logger: logger,
		grace:  DefaultGrace,
	}
}

// Context is cancelled when the session closes or a background job fails.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Go runs fn in the background until the session ends. fn should return nil
// when its context is cancelled; an error ends the whole session.
func (s *Session) Go(name string, fn func(ctx context.Context) error) {
	s.mu.Lock()
	s.names = append(s.names, name)
	s.mu.Unlock()

	s.logger.Debug("background job started", "job", name)
	s.group.Go(func() error {
		if err := fn(s.ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	})
}

// Start launches a detached tool owned by the session. The tool exiting on
// its own before the session ends is treated as a failure of the session.
func (s *Session) Start(c tool.Command) (*tool.Process, error) {
	p, err := s.sup.Start(s.ctx, c)
	if err != nil {
		return nil, err
	}

	s.Go(p.Name, func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return nil
		case <-p.Done():
		}
		if ctx.Err() != nil {
			return nil
		}
		if err := p.Err(); err != nil {
			return fmt.Errorf("exited: %w", err)
		}
		return fmt.Errorf("exited")
	})
	return p, nil
}

// Jobs returns the names of background jobs started so far.
func (s *Session) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...)
}

// Active reports whether any background job was started.
func (s *Session) Active() bool {
	return len(s.Jobs()) > 0
}

// Wait blocks until every background job returned, which happens once the
// session context ends, and returns the first job error.
func (s *Session) Wait() error {
	return s.group.Wait()
}

// Close cancels the session, stops detached tools and waits for all jobs.
func (s *Session) Close() error {
	var err error
	s.once.Do(func() {
		s.cancel()
		s.sup.Shutdown(s.grace)
		err = s.group.Wait()
	})
	return err
}
