package inject

import (
	"sort"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/glob"
)

// Order sorts paths by priority patterns. For each pattern in turn, the
// not yet placed paths matching it are appended in lexical order; paths
// matching no pattern come last, in lexical order.
func Order(paths, patterns []string) []string {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	out := make([]string, 0, len(sorted))
	placed := make([]bool, len(sorted))
	for _, pat := range patterns {
		for i, p := range sorted {
			if !placed[i] && glob.Match(pat, p) {
				out = append(out, p)
				placed[i] = true
			}
		}
	}
	for i, p := range sorted {
		if !placed[i] {
			out = append(out, p)
		}
	}
	return out
}
