package tool

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?([-+][0-9A-Za-z.-]+)?`)

// ParseVersion extracts the first semantic version from tool output such
// as "Version 1.8.10" or "v0.13.22".
func ParseVersion(output string) (*semver.Version, error) {
	match := versionPattern.FindString(output)
	if match == "" {
		return nil, fmt.Errorf("no version in %q", output)
	}
	return semver.NewVersion(match)
}

// DetectVersion runs c with --version appended and parses the result.
func DetectVersion(ctx context.Context, c Command) (*semver.Version, error) {
	c.Args = append(append([]string(nil), c.Args...), "--version")
	c.Stream = nil

	result, err := Invoke(ctx, c)
	if err != nil {
		return nil, err
	}
	return ParseVersion(string(result.Output))
}

// Requirement is a version constraint on a named tool.
type Requirement struct {
	Name       string
	Constraint string
}

// Check reports whether v satisfies the requirement. An empty constraint
// accepts any version.
func (r Requirement) Check(v *semver.Version) (bool, error) {
	if r.Constraint == "" {
		return true, nil
	}
	c, err := semver.NewConstraint(r.Constraint)
	if err != nil {
		return false, fmt.Errorf("constraint %q for %s: %w", r.Constraint, r.Name, err)
	}
	return c.Check(v), nil
}
