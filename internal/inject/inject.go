// Package inject weaves references to matched files into marked regions of
// text files.
//
// A region starts at the first line containing the start marker
// (`/// inject:<label>`, or `<!-- inject:<label> -->` in HTML), which may
// share its line with other text, and ends at the matching end marker. Injection replaces the region's content, so
// repeated runs over unchanged inputs are byte-identical.
package inject

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	terrors "github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/errors"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/glob"
)

// MarkerNotFoundError reports a target without the requested start marker.
type MarkerNotFoundError struct {
	Path   string
	Marker string
}

func (e *MarkerNotFoundError) Error() string {
	return fmt.Sprintf("marker %q not found in %s", e.Marker, e.Path)
}

func (e *MarkerNotFoundError) Unwrap() error {
	return terrors.ErrNotFound
}

// Block is one labelled region to fill.
type Block struct {
	Label string

	// Patterns select the files to reference, relative to Request.Root.
	Patterns []string

	// Order holds priority patterns used only for sorting.
	Order []string

	Template Template
}

// Request describes one injection run over a file.
type Request struct {
	// Root is the directory patterns are expanded against.
	Root string

	// Target names the file being injected. Its extension selects the
	// marker syntax.
	Target string

	// Source is read instead of Target when set.
	Source string

	// Output is written instead of Target when set.
	Output string

	Blocks []Block
}

// Render fills the region labelled label in content with one line per
// path, rendered through tpl and indented like the start marker. When the
// region has no end marker yet, one is added after the fragments. target
// is used for the marker syntax and error reporting only.
func Render(content, target, label string, tpl Template, paths []string) (string, error) {
	start := StartMarker(target, label)
	end := EndMarker(target)

	lines := strings.Split(content, "\n")

	begin := -1
	for i, line := range lines {
		if containsStartMarker(line, target, label) {
			begin = i
			break
		}
	}
	if begin < 0 {
		return "", &MarkerNotFoundError{Path: target, Marker: start}
	}

	// the region ends at the first end marker, unless another start marker
	// comes first
	stop := -1
	for i := begin + 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == end {
			stop = i
			break
		}
		if isStartMarker(target, trimmed) {
			break
		}
	}

	marker := lines[begin]
	indent := marker[:len(marker)-len(strings.TrimLeft(marker, " \t"))]
	eol := ""
	if strings.HasSuffix(marker, "\r") {
		eol = "\r"
	}

	region := make([]string, 0, len(paths)+1)
	for _, p := range paths {
		region = append(region, indent+tpl.Fragment(p)+eol)
	}
	region = append(region, indent+end+eol)

	rest := lines[begin+1:]
	if stop >= 0 {
		rest = lines[stop+1:]
	}

	out := make([]string, 0, begin+1+len(region)+len(rest))
	out = append(out, lines[:begin+1]...)
	out = append(out, region...)
	out = append(out, rest...)
	return strings.Join(out, "\n"), nil
}

// containsStartMarker reports whether line holds the start marker for
// label anywhere in it. An empty label also matches "inject:".
func containsStartMarker(line, target, label string) bool {
	if containsMarker(line, StartMarker(target, label)) {
		return true
	}
	return label == "" && containsMarker(line, markersFor(target).open+"inject:"+markersFor(target).close)
}

// containsMarker reports whether marker occurs in line without running on
// into a longer label, so "inject:import" does not match "inject:imports".
func containsMarker(line, marker string) bool {
	for off := 0; off < len(line); {
		i := strings.Index(line[off:], marker)
		if i < 0 {
			return false
		}
		next := off + i + len(marker)
		if next == len(line) || !isLabelByte(line[next]) {
			return true
		}
		off += i + 1
	}
	return false
}

func isLabelByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	default:
		return b == '_' || b == '-' || b == '.' || b == ':'
	}
}

// isStartMarker reports whether line holds a start marker for any label.
func isStartMarker(target, line string) bool {
	s := markersFor(target)
	_, rest, ok := strings.Cut(line, s.open+"inject")
	if !ok {
		return false
	}
	if s.close != "" {
		return strings.HasPrefix(rest, s.close) || (strings.HasPrefix(rest, ":") && strings.Contains(rest, s.close))
	}
	return rest == "" || rest[0] == ':' || !isLabelByte(rest[0])
}

// Inject runs every block of req over the source file and writes the
// result to the output file if it differs from what is there. It reports
// whether the output changed. On error nothing is written.
func Inject(req Request) (bool, error) {
	source := req.Source
	if source == "" {
		source = req.Target
	}
	output := req.Output
	if output == "" {
		output = req.Target
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", source, err)
	}

	content := string(data)
	for _, b := range req.Blocks {
		tpl := b.Template
		if tpl == "" {
			tpl = TemplateRaw
		}
		if !tpl.Valid() {
			return false, fmt.Errorf("unknown fragment template %q: %w", tpl, terrors.ErrValidation)
		}

		paths, err := glob.Expand(req.Root, b.Patterns)
		if err != nil {
			return false, err
		}

		content, err = Render(content, req.Target, b.Label, tpl, Order(paths, b.Order))
		if err != nil {
			return false, err
		}
	}

	if existing, err := os.ReadFile(output); err == nil && bytes.Equal(existing, []byte(content)) {
		return false, nil
	}

	if err := writeAtomic(output, []byte(content)); err != nil {
		return false, err
	}
	return true, nil
}

// writeAtomic replaces path through a temporary file in the same directory.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
