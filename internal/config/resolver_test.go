package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveConfigPath(t *testing.T) {
	tests := []struct {
		name         string
		flag         string
		env          string
		wantPath     string
		wantSource   ConfigSource
		wantShadowed []ConfigCandidate
	}{
		{
			name:         "flag wins over env",
			flag:         "custom.yaml",
			env:          "env.yaml",
			wantPath:     "custom.yaml",
			wantSource:   SourceFlag,
			wantShadowed: []ConfigCandidate{{SourceEnv, "env.yaml"}, {SourceDefault, DefaultFileName}},
		},
		{
			name:         "env wins over default",
			env:          "env.yaml",
			wantPath:     "env.yaml",
			wantSource:   SourceEnv,
			wantShadowed: []ConfigCandidate{{SourceDefault, DefaultFileName}},
		},
		{
			name:         "default",
			wantPath:     DefaultFileName,
			wantSource:   SourceDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(ConfigEnvVar, tt.env)

			result := ResolveConfigPath(ResolveConfigPathOptions{FlagValue: tt.flag})
			assert.Equal(t, tt.wantPath, result.ConfigPath)
			assert.Equal(t, tt.wantSource, result.Source)
			assert.Equal(t, tt.wantShadowed, result.Shadowed)
			assert.Equal(t, tt.wantSource != SourceDefault, result.Required())
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/tsgen.yaml")
	assert.NoError(t, err)
	assert.Equal(t, home+"/tsgen.yaml", got)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"plain/path", "plain/path"},
		{"~other/tsgen.yaml", "~other/tsgen.yaml"},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
