package build

import (
	"context"
	"fmt"
	"strings"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/output"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/taskgraph"
)

// isSubTask reports whether t belongs in the sub task group of the listing.
func isSubTask(t taskgraph.Task) bool {
	return t.Hidden || strings.Contains(t.Name, ":")
}

// Listing renders the task table shown by help and `tsgen tasks`.
func Listing(tasks []taskgraph.Task) string {
	main := output.NewTable("TASK", "DEPENDS ON", "DESCRIPTION")
	sub := output.NewTable("TASK", "DEPENDS ON", "DESCRIPTION")

	for _, t := range tasks {
		row := []string{
			output.StyleNoun.Render(t.Name),
			strings.Join(t.Prerequisites, ", "),
			t.Description,
		}
		if isSubTask(t) {
			sub.Row(row...)
		} else {
			main.Row(row...)
		}
	}

	listing := main.Section("Main Tasks")
	if sub.Len() > 0 {
		listing += "\n" + sub.Section("Sub Tasks")
	}
	return listing
}

func (c *Catalogue) help(_ context.Context) error {
	_, err := fmt.Fprint(c.out, Listing(c.graph.Tasks()))
	return err
}
