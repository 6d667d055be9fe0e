package templates

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/output"
)

// FileDrift is a difference between a project file and the template.
type FileDrift struct {
	Path string

	// Status is output.StatusMissing or output.StatusDrifted.
	Status string

	// Diff is the structured report of a drifted file.
	Diff string
}

// Structured reports whether a file is compared as JSON or YAML documents
// rather than as text.
func Structured(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// StructuredDiff compares two JSON or YAML documents and renders the
// differences. Formatting-only changes produce an empty report.
func StructuredDiff(current, desired []byte, useColor bool) (string, error) {
	if len(bytes.TrimSpace(current)) == 0 && len(bytes.TrimSpace(desired)) == 0 {
		return "", nil
	}

	from, err := parseInput("current", current)
	if err != nil {
		return "", fmt.Errorf("parsing current file: %w", err)
	}
	to, err := parseInput("template", desired)
	if err != nil {
		return "", fmt.Errorf("parsing template file: %w", err)
	}

	report, err := dyff.CompareInputFiles(from, to)
	if err != nil {
		return "", fmt.Errorf("comparing documents: %w", err)
	}
	if len(report.Diffs) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	writer := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}
	if err := writer.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// parseInput loads JSON or YAML bytes as a dyff input file.
func parseInput(name string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: name}, nil
	}

	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	return ytbx.InputFile{Location: name, Documents: docs}, nil
}

// DiffOptions configures Diff.
type DiffOptions struct {
	TargetDir string

	// AppName defaults to the name in the project's package.json, then to
	// the name derived from TargetDir.
	AppName string

	ToolVersion string
	UseColor    bool
}

// Diff compares the JSON and YAML files of a project with what the
// template renders for it now. Files that are missing are reported too.
func Diff(opts DiffOptions) ([]FileDrift, error) {
	name := opts.AppName
	if name == "" {
		name = packageName(opts.TargetDir)
	}
	g := NewGenerator(GenerateOptions{TargetDir: opts.TargetDir, AppName: name, ToolVersion: opts.ToolVersion})

	files, err := NewRenderer(g.Data()).RenderProject()
	if err != nil {
		return nil, err
	}

	var drift []FileDrift
	for _, f := range files {
		if !Structured(f.TargetPath) {
			continue
		}
		existing, err := os.ReadFile(g.path(f))
		if errors.Is(err, os.ErrNotExist) {
			drift = append(drift, FileDrift{Path: f.TargetPath, Status: output.StatusMissing})
			continue
		}
		if err != nil {
			return nil, readError(g.path(f), err)
		}

		report, err := StructuredDiff(existing, f.Content, opts.UseColor)
		if err != nil {
			// unparseable files still count as drifted
			report = err.Error()
		}
		if report != "" {
			drift = append(drift, FileDrift{Path: f.TargetPath, Status: output.StatusDrifted, Diff: report})
		}
	}

	sort.Slice(drift, func(i, j int) bool { return drift[i].Path < drift[j].Path })
	return drift, nil
}

// packageName reads the name field of dir/package.json, empty when absent.
func packageName(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return ""
	}
	var pkg struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	return pkg.Name
}

// RenderDrift renders drift the way `tsgen diff` prints it.
func RenderDrift(drift []FileDrift, styles *output.Styles) string {
	var missing []string
	var modified []output.ModifiedItem
	for _, d := range drift {
		if d.Status == output.StatusMissing {
			missing = append(missing, d.Path)
			continue
		}
		modified = append(modified, output.ModifiedItem{Name: d.Path, Diff: d.Diff})
	}
	return output.RenderDrift(missing, modified, styles)
}
