package templates

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	terrors "github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/errors"
)

// maxAppNameLength is the npm limit for package names.
const maxAppNameLength = 214

var appNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._~-]*$`)

// ValidateAppName checks that name can be used as an npm package name.
func ValidateAppName(name string) error {
	var msg string
	switch {
	case name == "":
		msg = "application name cannot be empty"
	case len(name) > maxAppNameLength:
		msg = fmt.Sprintf("application name is longer than %d characters", maxAppNameLength)
	case !appNameRegex.MatchString(name):
		msg = fmt.Sprintf("invalid application name %q: use lowercase letters, digits, '-', '.', '_' or '~' and start with a letter or digit", name)
	default:
		return nil
	}
	return terrors.NewValidationError(msg, "", "name", "Try "+quoteOr(KebabCase(name), "my-app"))
}

func quoteOr(s, fallback string) string {
	if s == "" {
		s = fallback
	}
	return fmt.Sprintf("%q", s)
}

// KebabCase splits s into words at separators, case changes and
// letter/digit boundaries and joins them lowercased with '-'.
// "MyApp" becomes "my-app", "HTMLParser2" becomes "html-parser-2".
func KebabCase(s string) string {
	runes := []rune(s)
	var words []string
	var word []rune

	flush := func() {
		if len(word) > 0 {
			words = append(words, strings.ToLower(string(word)))
			word = word[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(word) > 0 {
			prev := word[len(word)-1]
			switch {
			case unicode.IsDigit(r) != unicode.IsDigit(prev):
				flush()
			case unicode.IsUpper(r) && unicode.IsLower(prev):
				flush()
			case unicode.IsUpper(r) && unicode.IsUpper(prev) &&
				i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				flush()
			}
		}
		word = append(word, r)
	}
	flush()

	return strings.Join(words, "-")
}

// TitleCase turns a kebab-case name into a title: "my-app" becomes "My App".
func TitleCase(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// DeriveAppName returns the default application name for dir: the
// kebab-case of its base name, or "app" when that is empty.
func DeriveAppName(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if name := KebabCase(filepath.Base(dir)); name != "" {
		return name
	}
	return "app"
}
