package output

import (
	"cmp"
	"path"
	"slices"
	"strings"
)

const (
	branchMid  = "├── "
	branchEnd  = "└── "
	indentPipe = "│   "
	indentNone = "    "

	// noteColumn is where file notes start.
	noteColumn = 30
)

// TreeEntry is one file shown by RenderFileTree.
type TreeEntry struct {
	// Path is slash-separated and relative to the tree root.
	Path string

	// Note is printed after the name, styled by StatusStyle.
	Note string
}

type treeNode struct {
	name     string
	note     string
	dir      bool
	children []*treeNode
	index    map[string]*treeNode
}

func (n *treeNode) child(name string, dir bool) *treeNode {
	if c, ok := n.index[name]; ok {
		return c
	}
	c := &treeNode{name: name, dir: dir, index: map[string]*treeNode{}}
	n.index[name] = c
	n.children = append(n.children, c)
	return c
}

// RenderFileTree renders entries as a directory tree under rootName.
// Directories sort before files; notes align at a fixed column.
func RenderFileTree(rootName string, entries []TreeEntry) string {
	if len(entries) == 0 {
		return ""
	}

	root := &treeNode{name: rootName, dir: true, index: map[string]*treeNode{}}
	for _, e := range entries {
		parts := strings.Split(path.Clean(e.Path), "/")
		node := root
		for i, part := range parts {
			node = node.child(part, i < len(parts)-1)
		}
		node.note = e.Note
	}

	var sb strings.Builder
	sb.WriteString(StyleSummary.Render(rootName + "/"))
	sb.WriteString("\n")
	writeChildren(&sb, root, "")
	return sb.String()
}

func writeChildren(sb *strings.Builder, n *treeNode, indent string) {
	slices.SortFunc(n.children, func(a, b *treeNode) int {
		if a.dir != b.dir {
			if a.dir {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.name, b.name)
	})

	for i, c := range n.children {
		last := i == len(n.children)-1
		branch, next := branchMid, indentPipe
		if last {
			branch, next = branchEnd, indentNone
		}

		line := indent + branch + c.name
		if c.dir {
			line += "/"
		}
		if c.note != "" {
			// runes, not bytes: the branch glyphs are multi-byte
			pad := max(noteColumn-len([]rune(line)), 2)
			line += strings.Repeat(" ", pad) + StatusStyle(c.note).Render(c.note)
		}
		sb.WriteString(line)
		sb.WriteString("\n")

		if c.dir {
			writeChildren(sb, c, indent+next)
		}
	}
}
