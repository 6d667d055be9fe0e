// Package staleness decides whether generated output must be rebuilt.
package staleness

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/glob"
)

// IsStale reports whether output is missing or older than any input.
// An input newer than output by any amount makes it stale; equal
// timestamps do not. A missing input is an error.
func IsStale(output string, inputs []string) (bool, error) {
	out, err := os.Stat(output)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", output, err)
	}

	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return false, fmt.Errorf("checking input %s: %w", in, err)
		}
		if info.ModTime().After(out.ModTime()) {
			return true, nil
		}
	}
	return false, nil
}

// Tracker gates tasks on stamp files kept under Root/StampDir. A task is
// stale when its stamp is missing or older than any of its inputs.
type Tracker struct {
	Root     string
	StampDir string

	// Force makes every check report stale.
	Force bool
}

// stampEscaper percent-encodes the characters task names may carry that
// are not portable in file names. '%' is escaped too, so distinct names
// never share a stamp.
var stampEscaper = strings.NewReplacer("%", "%25", ":", "%3A", "/", "%2F", "\\", "%5C")

// StampPath returns the stamp file of the named task.
func (t *Tracker) StampPath(name string) string {
	safe := stampEscaper.Replace(name)
	return filepath.Join(t.Root, filepath.FromSlash(t.StampDir), safe+".stamp")
}

// Check reports whether the named task must run. Input patterns are
// expanded against Root. Any missing extra output, given relative to Root,
// also makes the task stale.
func (t *Tracker) Check(name string, inputPatterns []string, extraOutputs ...string) (bool, error) {
	if t.Force {
		return true, nil
	}

	for _, out := range extraOutputs {
		if _, err := os.Stat(filepath.Join(t.Root, filepath.FromSlash(out))); os.IsNotExist(err) {
			return true, nil
		}
	}

	rel, err := glob.Expand(t.Root, inputPatterns)
	if err != nil {
		return false, err
	}
	inputs := make([]string, len(rel))
	for i, p := range rel {
		inputs[i] = filepath.Join(t.Root, filepath.FromSlash(p))
	}

	return IsStale(t.StampPath(name), inputs)
}

// Mark records that the named task completed at began. Callers pass the
// time the task started so inputs edited while it ran stay newer than the
// stamp.
func (t *Tracker) Mark(name string, began time.Time) error {
	path := t.StampPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating stamp dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(began.UTC().Format(time.RFC3339Nano)+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing stamp: %w", err)
	}
	if err := os.Chtimes(path, began, began); err != nil {
		return fmt.Errorf("writing stamp: %w", err)
	}
	return nil
}

// Clear removes the stamp of the named task so the next check is stale.
func (t *Tracker) Clear(name string) error {
	if err := os.Remove(t.StampPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stamp: %w", err)
	}
	return nil
}
