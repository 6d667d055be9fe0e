// Package livereload serves the spec runner and reloads connected browsers
// when watched files change.
package livereload

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/watch"
)

const (
	// SocketPath is the websocket endpoint browsers connect to.
	SocketPath = "/__tsgen/ws"

	// ClientPath serves the reload client script.
	ClientPath = "/__tsgen/client.js"

	writeTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

//go:embed client.js
var clientJS []byte

var clientTag = []byte(`<script src="` + ClientPath + `"></script>`)

// Runner runs named tasks. *taskgraph.Graph satisfies it.
type Runner interface {
	Run(ctx context.Context, names ...string) error
}

// Message is sent to connected browsers as JSON.
type Message struct {
	Type  string   `json:"type"`
	Files []string `json:"files,omitempty"`
}

// Options configures a Server.
type Options struct {
	// Root is the directory served over HTTP and watched.
	Root string

	// Port to listen on. Zero picks a free port.
	Port int

	// StartPath is where requests for / are redirected.
	StartPath string

	// ReloadDelay is waited between a rebuild and the reload broadcast.
	ReloadDelay time.Duration

	// Debounce collapses bursts of changes into one rebuild.
	Debounce time.Duration

	// Skip lists directories the watcher ignores.
	Skip []string

	Logger *log.Logger
}

type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(msg)
}

// Server is a static file server with a reload channel. Only one Watch
// may be active at a time.
type Server struct {
	opts     Options
	upgrader websocket.Upgrader
	active   atomic.Bool

	mu      sync.Mutex
	clients map[*client]struct{}
	port    int
	ready   chan struct{}
	once    sync.Once
}

// New creates a Server.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.StartPath == "" {
		opts.StartPath = "/"
	}
	return &Server{
		opts:    opts,
		clients: make(map[*client]struct{}),
		ready:   make(chan struct{}),
	}
}

// Ready is closed once the server first listens.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Port returns the port listened on, zero before Ready.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// Clients returns the number of connected browsers.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Watch serves Root, watches files matching patterns and, after each
// debounced batch of changes, runs tasks through runner and tells browsers
// to reload. A failed rebuild is logged and no reload is sent. Watch blocks
// until ctx ends. A call made while another is active returns nil at once.
func (s *Server) Watch(ctx context.Context, patterns []string, runner Runner, tasks ...string) error {
	if !s.active.CompareAndSwap(false, true) {
		s.opts.Logger.Debug("live reload already active")
		return nil
	}
	defer s.active.Store(false)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.opts.Port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", s.opts.Port, err)
	}

	w, err := watch.New(watch.Options{
		Root:     s.opts.Root,
		Patterns: patterns,
		Debounce: s.opts.Debounce,
		Skip:     s.opts.Skip,
		Logger:   s.opts.Logger,
	})
	if err != nil {
		ln.Close()
		return err
	}

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	port := ln.Addr().(*net.TCPAddr).Port
	s.mu.Lock()
	s.port = port
	s.mu.Unlock()
	s.once.Do(func() { close(s.ready) })

	s.opts.Logger.Info("Serving files", "root", s.opts.Root)
	s.opts.Logger.Info(fmt.Sprintf("Access URL: http://localhost:%d%s", port, s.opts.StartPath))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return w.Run(gctx, func(ctx context.Context, changed []string) {
			s.rebuild(ctx, changed, runner, tasks)
		})
	})
	g.Go(func() error {
		<-gctx.Done()
		s.disconnectAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) rebuild(ctx context.Context, changed []string, runner Runner, tasks []string) {
	for _, f := range changed {
		s.opts.Logger.Info("File changed", "file", f)
	}

	if runner != nil && len(tasks) > 0 {
		if err := runner.Run(ctx, tasks...); err != nil {
			s.opts.Logger.Error("rebuild failed", "err", err)
			return
		}
	}

	if s.opts.ReloadDelay > 0 {
		timer := time.NewTimer(s.opts.ReloadDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}

	n := s.Broadcast(Message{Type: "reload", Files: changed})
	s.opts.Logger.Info("Reloading browsers", "clients", n)
}

// Broadcast sends msg to every connected browser and returns how many
// received it. Browsers that fail to receive are disconnected.
func (s *Server) Broadcast(msg Message) int {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	sent := 0
	for _, c := range clients {
		if err := c.send(msg); err != nil {
			s.opts.Logger.Debug("dropping client", "err", err)
			s.remove(c)
			continue
		}
		sent++
	}
	return sent
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	c.conn.Close()
}

func (s *Server) disconnectAll() {
	s.mu.Lock()
	clients := s.clients
	s.clients = make(map[*client]struct{})
	s.mu.Unlock()

	for c := range clients {
		c.conn.Close()
	}
}

// Handler returns the HTTP handler serving Root, the client script and the
// websocket endpoint.
func (s *Server) Handler() http.Handler {
	files := http.FileServer(http.Dir(s.opts.Root))

	mux := http.NewServeMux()
	mux.HandleFunc(SocketPath, s.serveSocket)
	mux.HandleFunc(ClientPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(clientJS)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && s.opts.StartPath != "/" {
			http.Redirect(w, r, s.opts.StartPath, http.StatusFound)
			return
		}
		switch strings.ToLower(path.Ext(r.URL.Path)) {
		case ".html", ".htm":
			s.serveHTML(w, r)
		default:
			files.ServeHTTP(w, r)
		}
	})
	return mux
}

// serveHTML serves a page with the reload client script added.
func (s *Server) serveHTML(w http.ResponseWriter, r *http.Request) {
	f, err := http.Dir(s.opts.Root).Open(r.URL.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(InjectClient(data))
}

// InjectClient adds the reload client script tag before the last </body>,
// or at the end when there is none.
func InjectClient(page []byte) []byte {
	idx := bytes.LastIndex(bytes.ToLower(page), []byte("</body>"))
	if idx < 0 {
		return append(append(append([]byte(nil), page...), clientTag...), '\n')
	}
	out := make([]byte, 0, len(page)+len(clientTag)+1)
	out = append(out, page[:idx]...)
	out = append(out, clientTag...)
	out = append(out, '\n')
	out = append(out, page[idx:]...)
	return out
}

func (s *Server) serveSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.opts.Logger.Debug("websocket upgrade failed", "err", err)
		return
	}

	c := &client{conn: conn}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.opts.Logger.Debug("browser connected", "remote", r.RemoteAddr)

	if err := c.send(Message{Type: "hello"}); err != nil {
		s.remove(c)
		return
	}

	// browsers never send anything; reading detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.remove(c)
			return
		}
	}
}
