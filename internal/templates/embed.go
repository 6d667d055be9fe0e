// Package templates scaffolds TypeScript projects from the embedded project
// template and reports drift between a project and that template.
package templates

import (
	"embed"
	"io/fs"
	"slices"
	"strings"
)

//go:embed project
var projectFS embed.FS

const (
	projectRoot = "project"

	// tmplSuffix marks files rendered with text/template.
	tmplSuffix = ".tmpl"

	// dotPrefix stands in for a leading dot, which embed would skip.
	dotPrefix = "dot-"
)

// targetPath maps a path inside the template to its path in a project.
func targetPath(rel string) string {
	parts := strings.Split(rel, "/")
	for i, p := range parts {
		if strings.HasPrefix(p, dotPrefix) {
			parts[i] = "." + strings.TrimPrefix(p, dotPrefix)
		}
	}
	return strings.TrimSuffix(strings.Join(parts, "/"), tmplSuffix)
}

// walkProject calls fn for every file of the embedded template with its
// path inside projectFS and its path relative to the template root.
func walkProject(fn func(src, rel string) error) error {
	return fs.WalkDir(projectFS, projectRoot, func(src string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		return fn(src, strings.TrimPrefix(src, projectRoot+"/"))
	})
}

// ListTemplateFiles returns the slash-separated project paths the template
// generates, sorted.
func ListTemplateFiles() ([]string, error) {
	var files []string
	err := walkProject(func(_, rel string) error {
		files = append(files, targetPath(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}
