package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ConfigEnvVar names the environment variable that overrides the config path.
const ConfigEnvVar = "TSGEN_CONFIG"

// ConfigSource indicates where the configuration path came from.
type ConfigSource string

const (
	SourceFlag    ConfigSource = "flag"
	SourceEnv     ConfigSource = "env"
	SourceDefault ConfigSource = "default"
)

// ConfigCandidate is one place a configuration path can come from.
type ConfigCandidate struct {
	Source ConfigSource
	Path   string
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value, empty when unset.
	FlagValue string
}

// ResolveConfigPathResult is the winning candidate plus the candidates it
// shadowed, highest precedence first.
type ResolveConfigPathResult struct {
	ConfigPath string
	Source     ConfigSource
	Shadowed   []ConfigCandidate
}

// Required reports whether a missing file at ConfigPath is an error.
// Only the default location may be absent.
func (r ResolveConfigPathResult) Required() bool {
	return r.Source != SourceDefault
}

// ResolveConfigPath picks the first set candidate of the --config flag,
// $TSGEN_CONFIG and ./tsgen.yaml.
func ResolveConfigPath(opts ResolveConfigPathOptions) ResolveConfigPathResult {
	candidates := []ConfigCandidate{
		{Source: SourceFlag, Path: opts.FlagValue},
		{Source: SourceEnv, Path: os.Getenv(ConfigEnvVar)},
		{Source: SourceDefault, Path: DefaultFileName},
	}

	var result ResolveConfigPathResult
	for _, c := range candidates {
		switch {
		case c.Path == "":
		case result.Source == "":
			result.ConfigPath, result.Source = c.Path, c.Source
		default:
			result.Shadowed = append(result.Shadowed, c)
		}
	}
	return result
}

// ExpandPath replaces a leading "~/" or a bare "~" with the user's home
// directory. "~user" forms are returned unchanged.
func ExpandPath(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~")
	if !ok || (rest != "" && rest[0] != '/' && rest[0] != filepath.Separator) {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, rest), nil
}
