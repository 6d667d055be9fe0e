package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat specifies how structured data is printed.
type OutputFormat string

const (
	FormatYAML OutputFormat = "yaml"
	FormatJSON OutputFormat = "json"
)

// formatNames maps accepted spellings to formats.
var formatNames = map[string]OutputFormat{
	"yaml": FormatYAML,
	"yml":  FormatYAML,
	"json": FormatJSON,
}

func (f OutputFormat) String() string {
	return string(f)
}

// Valid reports whether f is a supported format.
func (f OutputFormat) Valid() bool {
	return f == FormatYAML || f == FormatJSON
}

// ParseOutputFormat maps s to a format, case-insensitively. Unknown names
// come back unchanged so the caller can reject them with Valid.
func ParseOutputFormat(s string) OutputFormat {
	if f, ok := formatNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f
	}
	return OutputFormat(s)
}

// ValidFormats returns the canonical format names.
func ValidFormats() []string {
	return []string{FormatYAML.String(), FormatJSON.String()}
}

// Encode writes v to w in format f. JSON is indented by two spaces and
// newline terminated.
func (f OutputFormat) Encode(w io.Writer, v any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", f)
	}
}
