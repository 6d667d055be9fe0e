package templates

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

// Renderer renders the project template with one set of data.
type Renderer struct {
	data TemplateData
}

func NewRenderer(data TemplateData) *Renderer {
	return &Renderer{data: data}
}

// RenderProject renders every file of the project template in walk order.
// Files ending in .tmpl are executed against the renderer's data, with
// missing keys treated as errors; all others are copied as-is.
func (r *Renderer) RenderProject() ([]TemplateFile, error) {
	set := template.New(projectRoot).Option("missingkey=error")

	var files []TemplateFile
	err := walkProject(func(src, rel string) error {
		content, err := fs.ReadFile(projectFS, src)
		if err != nil {
			return err
		}
		if strings.HasSuffix(rel, tmplSuffix) {
			if content, err = r.execute(set, rel, content); err != nil {
				return fmt.Errorf("rendering %s: %w", rel, err)
			}
		}
		files = append(files, TemplateFile{
			SourcePath: src,
			TargetPath: targetPath(rel),
			Content:    content,
			Mode:       0o644,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking project template: %w", err)
	}
	return files, nil
}

// execute parses text as the template name within set and runs it.
func (r *Renderer) execute(set *template.Template, name string, text []byte) ([]byte, error) {
	tmpl, err := set.New(name).Parse(string(text))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
