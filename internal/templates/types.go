package templates

import "io/fs"

// TemplateData holds the values substituted into .tmpl files.
type TemplateData struct {
	// AppName is the npm package name, kebab-case (e.g. "my-app").
	AppName string

	// AppTitle is the human readable name (e.g. "My App").
	AppTitle string

	// Year is used by the license.
	Year int

	// ToolVersion is the tsgen version that generated the project.
	ToolVersion string
}

// GenerateOptions configures project generation.
type GenerateOptions struct {
	// TargetDir is created when missing.
	TargetDir string

	// AppName defaults to the kebab-case name of TargetDir.
	AppName string

	// Force overwrites files whose content differs from the template.
	Force bool

	// Year defaults to the current year.
	Year int

	ToolVersion string
}

// TemplateFile is one rendered file of the project.
type TemplateFile struct {
	// SourcePath is the path within the embedded template.
	SourcePath string

	// TargetPath is the slash-separated path within the project.
	TargetPath string

	Content []byte
	Mode    fs.FileMode
}

// GenerateResult describes what Generate wrote.
type GenerateResult struct {
	TargetDir string
	AppName   string

	// Created lists files that did not exist before.
	Created []string

	// Overwritten lists files replaced because of Force.
	Overwritten []string

	// Unchanged lists files that already had the template content.
	Unchanged []string

	// Drift holds structured reports for overwritten JSON and YAML files.
	Drift []FileDrift
}

// Files returns every file the project now has from the template.
func (r *GenerateResult) Files() []string {
	files := make([]string, 0, len(r.Created)+len(r.Overwritten)+len(r.Unchanged))
	files = append(files, r.Created...)
	files = append(files, r.Overwritten...)
	return append(files, r.Unchanged...)
}
