package session

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/testutil"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/tool"
)

func TestSessionCloseStopsJobs(t *testing.T) {
	s := New(context.Background(), nil)
	stopped := make(chan struct{})
	s.Go("typescript-watch", func(ctx context.Context) error {
		<-ctx.Done()
		close(stopped)
		return nil
	})

	assert.True(t, s.Active())
	assert.Equal(t, []string{"typescript-watch"}, s.Jobs())
	require.NoError(t, s.Close())

	select {
	case <-stopped:
	default:
		t.Fatal("job still running after close")
	}
	assert.NoError(t, s.Close(), "close is idempotent")
}

func TestSessionJobErrorEndsSession(t *testing.T) {
	s := New(context.Background(), nil)
	s.Go("broken", func(context.Context) error { return errors.New("boom") })
	s.Go("loop", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	err := s.Wait()
	require.Error(t, err)
	assert.Equal(t, "broken: boom", err.Error())
	assert.Error(t, s.Context().Err())
}

func TestSessionParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	s := New(parent, nil)
	s.Go("loop", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	cancel()
	assert.NoError(t, s.Wait())
}

func TestSessionInactiveWithoutJobs(t *testing.T) {
	s := New(context.Background(), nil)
	assert.False(t, s.Active())
	assert.NoError(t, s.Close())
}

func TestSessionCloseKillsDetachedTools(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix process groups")
	}
	dir := t.TempDir()
	script := testutil.WriteScript(t, dir, "karma", `sleep 30`)

	s := New(context.Background(), nil)
	p, err := s.Start(tool.Command{Name: "karma", Path: script})
	require.NoError(t, err)
	assert.Equal(t, []string{"karma"}, s.Jobs())

	require.NoError(t, s.Close())
	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("detached tool outlived the session")
	}
}

func TestSessionToolExitFailsSession(t *testing.T) {
	dir := t.TempDir()
	script := testutil.WriteScript(t, filepath.Join(dir, "bin"), "karma", `exit 1`)

	s := New(context.Background(), nil)
	_, err := s.Start(tool.Command{Name: "karma", Path: script})
	require.NoError(t, err)

	err = s.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "karma: exited")
	require.NoError(t, s.Close())
}
