package inject

import (
	"fmt"
	"path"
	"strings"
)

// Template selects how a matched path becomes an injected line.
type Template string

const (
	// TemplateImport renders a module loader import of the path without
	// its extension.
	TemplateImport Template = "import"

	// TemplateScript renders a script tag.
	TemplateScript Template = "script"

	// TemplateLink renders a stylesheet link tag.
	TemplateLink Template = "link"

	// TemplateAuto picks link for .css files and script otherwise.
	TemplateAuto Template = "auto"

	// TemplateRaw renders the path as-is.
	TemplateRaw Template = "raw"
)

// Valid reports whether t names a known template.
func (t Template) Valid() bool {
	switch t {
	case TemplateImport, TemplateScript, TemplateLink, TemplateAuto, TemplateRaw:
		return true
	default:
		return false
	}
}

// Fragment renders p through t.
func (t Template) Fragment(p string) string {
	switch t {
	case TemplateImport:
		return fmt.Sprintf("System.import('%s'),", strings.TrimSuffix(p, path.Ext(p)))
	case TemplateScript:
		return fmt.Sprintf(`<script src="%s"></script>`, p)
	case TemplateLink:
		return fmt.Sprintf(`<link rel="stylesheet" href="%s">`, p)
	case TemplateAuto:
		if strings.EqualFold(path.Ext(p), ".css") {
			return TemplateLink.Fragment(p)
		}
		return TemplateScript.Fragment(p)
	default:
		return p
	}
}

// markerStyle holds the comment syntax of injection markers for a file type.
type markerStyle struct {
	open  string
	close string
}

var (
	htmlMarkers  = markerStyle{open: "<!-- ", close: " -->"}
	slashMarkers = markerStyle{open: "/// ", close: ""}
)

// markersFor returns the marker style for target based on its extension.
func markersFor(target string) markerStyle {
	switch strings.ToLower(path.Ext(target)) {
	case ".html", ".htm":
		return htmlMarkers
	default:
		return slashMarkers
	}
}

// StartMarker returns the start marker line for label in target.
func StartMarker(target, label string) string {
	s := markersFor(target)
	if label == "" {
		return s.open + "inject" + s.close
	}
	return s.open + "inject:" + label + s.close
}

// EndMarker returns the end marker line for target.
func EndMarker(target string) string {
	s := markersFor(target)
	return s.open + "endinject" + s.close
}
