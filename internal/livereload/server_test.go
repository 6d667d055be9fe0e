package livereload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/testutil"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (f *fakeRunner) Run(_ context.Context, names ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, names)
	return f.err
}

func (f *fakeRunner) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}

func startServer(t *testing.T, root string, runner Runner, tasks ...string) *Server {
	t.Helper()
	s := New(Options{
		Root:        root,
		StartPath:   "/SpecRunner.html",
		Debounce:    50 * time.Millisecond,
		ReloadDelay: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx, []string{"dist/**/*.js"}, runner, tasks...) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Error("watch did not stop")
		}
	})

	select {
	case <-s.Ready():
	case err := <-done:
		t.Fatalf("watch exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server never listened")
	}
	return s
}

func dial(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://127.0.0.1:%d%s", s.Port(), SocketPath), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var hello Message
	require.NoError(t, conn.ReadJSON(&hello))
	require.Equal(t, "hello", hello.Type)
	return conn
}

func TestWatchReloadsAfterRebuild(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "SpecRunner.html", "<html><body></body></html>")
	runner := &fakeRunner{}
	s := startServer(t, root, runner, "specs:inject", "imports:inject")
	conn := dial(t, s)

	testutil.WriteFile(t, root, "dist/greeter/greeter.js", "var x;")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "reload", msg.Type)
	assert.Equal(t, []string{"dist/greeter/greeter.js"}, msg.Files)
	assert.Equal(t, [][]string{{"specs:inject", "imports:inject"}}, runner.Calls())
}

func TestWatchFailedRebuildSendsNothing(t *testing.T) {
	root := t.TempDir()
	runner := &fakeRunner{err: errors.New("tsc exited with status 2")}
	s := startServer(t, root, runner, "specs:inject")
	conn := dial(t, s)

	testutil.WriteFile(t, root, "dist/app.js", "")

	require.Eventually(t, func() bool { return len(runner.Calls()) == 1 }, 5*time.Second, 20*time.Millisecond)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	var msg Message
	err := conn.ReadJSON(&msg)
	require.Error(t, err)
	var netErr interface{ Timeout() bool }
	require.True(t, errors.As(err, &netErr))
	assert.True(t, netErr.Timeout())
}

func TestWatchIgnoresUnmatchedFiles(t *testing.T) {
	root := t.TempDir()
	runner := &fakeRunner{}
	startServer(t, root, runner, "specs:inject")

	testutil.WriteFile(t, root, "src/app.ts", "")
	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, runner.Calls())
}

func TestWatchSecondCallIsNoop(t *testing.T) {
	root := t.TempDir()
	s := startServer(t, root, &fakeRunner{})

	done := make(chan error, 1)
	go func() { done <- s.Watch(context.Background(), nil, nil) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("second watch blocked")
	}
}

func TestServesHTMLWithClient(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "SpecRunner.html", "<html><body><h1>specs</h1></body></html>")
	testutil.WriteFile(t, root, "dist/app.js", "var app;")
	s := startServer(t, root, &fakeRunner{})
	base := fmt.Sprintf("http://127.0.0.1:%d", s.Port())

	resp, err := http.Get(base + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "/SpecRunner.html", resp.Request.URL.Path, "root redirects to the start path")
	assert.Contains(t, string(body), `<script src="/__tsgen/client.js"></script>`+"\n</body>")

	resp, err = http.Get(base + "/dist/app.js")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "var app;", string(body))

	resp, err = http.Get(base + ClientPath)
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), SocketPath))

	resp, err = http.Get(base + "/missing.html")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInjectClient(t *testing.T) {
	assert.Equal(t,
		"<body>x"+string(clientTag)+"\n</BODY>",
		string(InjectClient([]byte("<body>x</BODY>"))))
	assert.Equal(t, "plain"+string(clientTag)+"\n", string(InjectClient([]byte("plain"))))
}

func TestBroadcastWithoutClients(t *testing.T) {
	s := New(Options{Root: t.TempDir()})
	assert.Equal(t, 0, s.Broadcast(Message{Type: "reload"}))
}
