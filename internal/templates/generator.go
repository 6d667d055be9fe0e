package templates

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	terrors "github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/errors"
	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/output"
)

// Generator writes the project template into a directory.
type Generator struct {
	opts GenerateOptions
}

// NewGenerator creates a new generator with the given options.
func NewGenerator(opts GenerateOptions) *Generator {
	return &Generator{opts: opts}
}

// Data returns the template data Generate uses.
func (g *Generator) Data() TemplateData {
	name := g.opts.AppName
	if name == "" {
		name = DeriveAppName(g.opts.TargetDir)
	}
	year := g.opts.Year
	if year == 0 {
		year = time.Now().Year()
	}
	return TemplateData{
		AppName:     name,
		AppTitle:    TitleCase(name),
		Year:        year,
		ToolVersion: g.opts.ToolVersion,
	}
}

// Generate renders the template into the target directory. A file that
// exists with different content is a conflict: without Force nothing is
// written and a conflict error lists every such file; with Force they are
// overwritten and structured ones get a drift report.
func (g *Generator) Generate() (*GenerateResult, error) {
	data := g.Data()
	if err := ValidateAppName(data.AppName); err != nil {
		return nil, err
	}
	if err := g.checkTargetDir(); err != nil {
		return nil, err
	}

	files, err := NewRenderer(data).RenderProject()
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{TargetDir: g.opts.TargetDir, AppName: data.AppName}
	var conflicts []TemplateFile
	var pending []TemplateFile
	for _, f := range files {
		existing, err := os.ReadFile(g.path(f))
		switch {
		case errors.Is(err, os.ErrNotExist):
			pending = append(pending, f)
		case err != nil:
			return nil, readError(g.path(f), err)
		case bytes.Equal(existing, f.Content):
			result.Unchanged = append(result.Unchanged, f.TargetPath)
		default:
			conflicts = append(conflicts, f)
		}
	}

	if len(conflicts) > 0 && !g.opts.Force {
		paths := make([]string, len(conflicts))
		for i, f := range conflicts {
			paths[i] = f.TargetPath
		}
		return nil, terrors.NewConflictError(
			fmt.Sprintf("%d existing file(s) differ from the template", len(conflicts)),
			g.opts.TargetDir,
			paths,
			"Re-run with --force to overwrite them",
		)
	}

	for _, f := range conflicts {
		if !Structured(f.TargetPath) {
			continue
		}
		existing, err := os.ReadFile(g.path(f))
		if err != nil {
			return nil, readError(g.path(f), err)
		}
		report, err := StructuredDiff(existing, f.Content, false)
		if err != nil {
			output.Debug("no structured report", "file", f.TargetPath, "err", err)
			continue
		}
		if report != "" {
			result.Drift = append(result.Drift, FileDrift{Path: f.TargetPath, Status: output.StatusDrifted, Diff: report})
		}
	}

	for _, f := range pending {
		if err := g.write(f); err != nil {
			return nil, err
		}
		result.Created = append(result.Created, f.TargetPath)
	}
	for _, f := range conflicts {
		if err := g.write(f); err != nil {
			return nil, err
		}
		result.Overwritten = append(result.Overwritten, f.TargetPath)
	}

	output.Debug("generated project",
		"target", g.opts.TargetDir,
		"name", data.AppName,
		"created", len(result.Created),
		"overwritten", len(result.Overwritten))

	return result, nil
}

func (g *Generator) path(f TemplateFile) string {
	return filepath.Join(g.opts.TargetDir, filepath.FromSlash(f.TargetPath))
}

func (g *Generator) write(f TemplateFile) error {
	path := g.path(f)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return writeError(filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, f.Content, f.Mode); err != nil {
		return writeError(path, err)
	}
	output.Debug("wrote file", "path", f.TargetPath)
	return nil
}

func readError(path string, err error) error {
	if errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("reading %s: %w", path, terrors.ErrPermission)
	}
	return fmt.Errorf("reading %s: %w", path, err)
}

func writeError(path string, err error) error {
	if errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("writing %s: %w", path, terrors.ErrPermission)
	}
	return fmt.Errorf("writing %s: %w", path, err)
}

// checkTargetDir validates the target directory.
func (g *Generator) checkTargetDir() error {
	info, err := os.Stat(g.opts.TargetDir)
	if os.IsNotExist(err) {
		// created on write
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking target directory: %w", err)
	}

	if !info.IsDir() {
		return terrors.NewValidationError(
			fmt.Sprintf("%s is not a directory", g.opts.TargetDir),
			g.opts.TargetDir, "", "Pass a directory to generate the project in",
		)
	}
	return nil
}
