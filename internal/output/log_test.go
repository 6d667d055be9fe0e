package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

// captureLog swaps the package logger for one writing to a buffer.
func captureLog(t *testing.T, opts log.Options) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logger
	logger = log.NewWithOptions(&buf, opts)
	t.Cleanup(func() { logger = prev })
	return &buf
}

func TestSetupLoggingLevels(t *testing.T) {
	prev := logger
	t.Cleanup(func() { logger = prev })

	SetupLogging(LogConfig{})
	assert.Equal(t, log.InfoLevel, logger.GetLevel())

	SetupLogging(LogConfig{Verbose: true})
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
}

func TestHelpersWriteToLogger(t *testing.T) {
	buf := captureLog(t, log.Options{Level: log.DebugLevel})

	Debug("debug line", "task", "vet:es5")
	Info("info line")
	Warn("warn line")
	Error("error line")

	out := buf.String()
	assert.Contains(t, out, "debug line")
	assert.Contains(t, out, "task=vet:es5")
	assert.Contains(t, out, "info line")
	assert.Contains(t, out, "warn line")
	assert.Contains(t, out, "error line")
}

func TestNewLoggerPrefix(t *testing.T) {
	buf := captureLog(t, log.Options{Level: log.InfoLevel})

	NewLogger("BS", "").Info("serving")
	assert.Contains(t, buf.String(), "BS")
	assert.Contains(t, buf.String(), "serving")
}

func TestNewLoggerSilent(t *testing.T) {
	buf := captureLog(t, log.Options{Level: log.InfoLevel})

	NewLogger("BS", "silent").Error("dropped")
	assert.Empty(t, buf.String())
}

func TestNewLoggerLevel(t *testing.T) {
	buf := captureLog(t, log.Options{Level: log.InfoLevel})

	l := NewLogger("BS", "warn")
	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.Contains(t, out, "shown")
}

func TestBoolPtr(t *testing.T) {
	assert.True(t, *BoolPtr(true))
	assert.False(t, *BoolPtr(false))
}
