package cmd

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TSGEN_CONFIG", "")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

// exitCode returns the code of the ExitError in err.
func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	return exitErr.Code
}

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()

	assert.Equal(t, "tsgen", root.Use)
	assert.True(t, root.SilenceErrors)
	for _, flag := range []string{"config", "verbose", "timestamps"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"new", "diff", "run", "tasks", "config", "doctor", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestResolvesConfigPath(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		env      string
		wantPath string
	}{
		{"default", nil, "", "tsgen.yaml"},
		{"env", nil, "env.yaml", "env.yaml"},
		{"flag wins", []string{"--config", "flag.yaml"}, "env.yaml", "flag.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TSGEN_CONFIG", tt.env)
			root := NewRootCmd()
			require.NoError(t, root.ParseFlags(tt.args))

			g := &GlobalConfig{}
			g.ConfigFlag, _ = root.PersistentFlags().GetString("config")
			require.NoError(t, initializeGlobals(root, g))
			assert.Equal(t, tt.wantPath, g.ConfigPath.ConfigPath)
		})
	}
}
