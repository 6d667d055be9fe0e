package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/testutil"
)

type batches struct {
	mu  sync.Mutex
	got [][]string
	ch  chan []string
}

func newBatches() *batches {
	return &batches{ch: make(chan []string, 16)}
}

func (b *batches) handle(_ context.Context, changed []string) {
	b.mu.Lock()
	b.got = append(b.got, changed)
	b.mu.Unlock()
	b.ch <- changed
}

func (b *batches) next(t *testing.T) []string {
	t.Helper()
	select {
	case batch := <-b.ch:
		return batch
	case <-time.After(5 * time.Second):
		t.Fatal("no batch delivered")
		return nil
	}
}

func (b *batches) none(t *testing.T, wait time.Duration) {
	t.Helper()
	select {
	case batch := <-b.ch:
		t.Fatalf("unexpected batch %v", batch)
	case <-time.After(wait):
	}
}

func startWatcher(t *testing.T, opts Options, b *batches) {
	t.Helper()
	w, err := New(opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, b.handle) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestWatcherDebouncesBurst(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "src/a.ts", "")
	b := newBatches()
	startWatcher(t, Options{Root: root, Patterns: []string{"src/**/*.ts"}, Debounce: 150 * time.Millisecond}, b)

	for i := 0; i < 5; i++ {
		testutil.WriteFile(t, root, "src/a.ts", "let x = "+string(rune('0'+i))+";")
		time.Sleep(10 * time.Millisecond)
	}
	testutil.WriteFile(t, root, "src/b.ts", "")

	assert.Equal(t, []string{"src/a.ts", "src/b.ts"}, b.next(t))
	b.none(t, 400*time.Millisecond)
}

func TestWatcherFiltersPatterns(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "src/a.ts", "")
	b := newBatches()
	startWatcher(t, Options{Root: root, Patterns: []string{"src/**/*.ts"}, Debounce: 50 * time.Millisecond}, b)

	testutil.WriteFile(t, root, "src/notes.md", "ignored")
	b.none(t, 300*time.Millisecond)

	testutil.WriteFile(t, root, "src/a.ts", "changed")
	assert.Equal(t, []string{"src/a.ts"}, b.next(t))
}

func TestWatcherNewDirectories(t *testing.T) {
	root := t.TempDir()
	b := newBatches()
	startWatcher(t, Options{Root: root, Patterns: []string{"dist/**/*.js"}, Debounce: 100 * time.Millisecond}, b)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "dist", "greeter"), 0o755))
	time.Sleep(200 * time.Millisecond)
	testutil.WriteFile(t, root, "dist/greeter/greeter.js", "")

	batch := b.next(t)
	assert.Contains(t, batch, "dist/greeter/greeter.js")
}

func TestWatcherSkipsDirectories(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "node_modules/pkg/index.js", "")
	testutil.WriteFile(t, root, ".tsgen/x.stamp", "")
	b := newBatches()
	startWatcher(t, Options{Root: root, Debounce: 50 * time.Millisecond, Skip: append(DefaultSkip, ".tsgen")}, b)

	testutil.WriteFile(t, root, "node_modules/pkg/index.js", "changed")
	testutil.WriteFile(t, root, ".tsgen/x.stamp", "changed")
	b.none(t, 300*time.Millisecond)
}

func TestWatcherSerializesHandler(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "a.js", "")

	var (
		mu      sync.Mutex
		active  int
		overlap bool
	)
	calls := make(chan []string, 8)
	handler := func(_ context.Context, changed []string) {
		mu.Lock()
		active++
		if active > 1 {
			overlap = true
		}
		mu.Unlock()
		time.Sleep(300 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
		calls <- changed
	}

	w, err := New(Options{Root: root, Debounce: 30 * time.Millisecond})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, handler) }()
	defer func() {
		cancel()
		<-done
	}()

	testutil.WriteFile(t, root, "a.js", "1")
	time.Sleep(100 * time.Millisecond)
	testutil.WriteFile(t, root, "b.js", "2")

	first := <-calls
	second := <-calls
	assert.Equal(t, []string{"a.js"}, first)
	assert.Equal(t, []string{"b.js"}, second)

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, overlap)
}

func TestRunReturnsOnCancel(t *testing.T) {
	w, err := New(Options{Root: t.TempDir(), Debounce: time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, w.Run(ctx, func(context.Context, []string) {}))
}
