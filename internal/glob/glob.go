// Package glob expands and matches slash-separated path patterns with **
// and ! exclusions.
package glob

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// normalize turns a user pattern into a slash-separated, root-relative one.
func normalize(pattern string) string {
	p := filepath.ToSlash(strings.TrimSpace(pattern))
	p = strings.TrimPrefix(p, "./")
	return strings.TrimPrefix(p, "/")
}

// Expand resolves glob patterns against root. Patterns may use ** and a
// leading ! to exclude earlier and later matches. The result holds regular
// files only, as slash-separated paths relative to root, deduplicated, in
// pattern order with lexical order within each pattern.
// A pattern that matches nothing contributes nothing.
func Expand(root string, patterns []string) ([]string, error) {
	var includes, excludes []string
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, "!") {
			excludes = append(excludes, normalize(p[1:]))
			continue
		}
		includes = append(includes, normalize(p))
	}

	for _, p := range append(append([]string(nil), includes...), excludes...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}

	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var out []string
	for _, p := range includes {
		matches, err := doublestar.Glob(fsys, p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", p, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if seen[m] || excluded(m, excludes) {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	return out, nil
}

func excluded(p string, excludes []string) bool {
	for _, ex := range excludes {
		if ok, _ := doublestar.Match(ex, p); ok {
			return true
		}
	}
	return false
}

// Match reports whether the slash-separated path p matches pattern.
// A pattern without a slash also matches against the base name of p.
func Match(pattern, p string) bool {
	pattern = normalize(pattern)
	if ok, _ := doublestar.Match(pattern, p); ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		ok, _ := doublestar.Match(pattern, path.Base(p))
		return ok
	}
	return false
}

// MatchAny reports whether p matches any pattern, honouring ! exclusions.
func MatchAny(patterns []string, p string) bool {
	matched := false
	for _, pat := range patterns {
		if strings.HasPrefix(pat, "!") {
			if Match(pat[1:], p) {
				return false
			}
			continue
		}
		if Match(pat, p) {
			matched = true
		}
	}
	return matched
}
