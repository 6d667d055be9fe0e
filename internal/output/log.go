// Package output provides terminal output utilities for the tsgen CLI.
package output

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// logger is the package logger. Commands log through the helpers below;
// long-lived components take a sub-logger from NewLogger.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05",
})

// LogConfig holds the settings applied by SetupLogging.
type LogConfig struct {
	// Verbose enables debug level and caller reporting.
	Verbose bool

	// Timestamps controls the time column. Nil means on.
	// Verbose forces timestamps on regardless.
	Timestamps *bool
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// SetupLogging configures the package logger.
func SetupLogging(cfg LogConfig) {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}

	timestamps := true
	if cfg.Timestamps != nil && !cfg.Verbose {
		timestamps = *cfg.Timestamps
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: timestamps,
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05",
	})
}

// Logger returns the package logger.
func Logger() *log.Logger {
	return logger
}

// NewLogger returns a sub-logger with the given prefix and level.
// Level "silent" discards everything; an unknown or empty level keeps the
// level of the package logger.
func NewLogger(prefix, level string) *log.Logger {
	l := logger.WithPrefix(prefix)
	switch strings.ToLower(level) {
	case "":
	case "silent":
		l.SetOutput(io.Discard)
	default:
		if parsed, err := log.ParseLevel(level); err == nil {
			l.SetLevel(parsed)
		}
	}
	return l
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...any) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...any) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...any) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...any) {
	logger.Error(msg, keyvals...)
}

// Print writes msg to stdout unchanged.
func Print(msg string) {
	os.Stdout.WriteString(msg)
}

// Println writes msg and a newline to stdout.
func Println(msg string) {
	os.Stdout.WriteString(msg + "\n")
}
