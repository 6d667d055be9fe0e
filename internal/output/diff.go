package output

import (
	"fmt"
	"strings"
)

// ModifiedItem is a file whose content differs from what the generator
// would write. Diff holds an optional rendered report.
type ModifiedItem struct {
	Name string
	Diff string
}

// RenderDrift renders the difference between a project and the files the
// generator would produce: missing files, then modified files with their
// reports indented beneath them, then a one-line summary.
func RenderDrift(missing []string, modified []ModifiedItem, styles *Styles) string {
	if len(missing) == 0 && len(modified) == 0 {
		return "No drift detected."
	}

	var sb strings.Builder
	var summary []string

	if n := len(missing); n > 0 {
		fmt.Fprintln(&sb, styles.Success.Render("Missing:"))
		for _, name := range missing {
			fmt.Fprintf(&sb, "  + %s\n", styles.Success.Render(name))
		}
		sb.WriteString("\n")
		summary = append(summary, fmt.Sprintf("%d missing", n))
	}

	if n := len(modified); n > 0 {
		fmt.Fprintln(&sb, styles.Warning.Render("Modified:"))
		for _, mod := range modified {
			fmt.Fprintf(&sb, "  ~ %s\n", styles.Warning.Render(mod.Name))
			for line := range strings.SplitSeq(mod.Diff, "\n") {
				if strings.TrimSpace(line) != "" {
					fmt.Fprintf(&sb, "    %s\n", line)
				}
			}
			sb.WriteString("\n")
		}
		summary = append(summary, fmt.Sprintf("%d modified", n))
	}

	fmt.Fprintf(&sb, "Summary: %s\n", strings.Join(summary, ", "))
	return sb.String()
}
