package staleness

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/testutil"
)

func TestIsStale(t *testing.T) {
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	tests := []struct {
		name    string
		outTime *time.Time
		inTimes []time.Time
		want    bool
	}{
		{name: "missing output", outTime: nil, inTimes: []time.Time{base}, want: true},
		{name: "output newer than all inputs", outTime: ptr(base.Add(time.Minute)), inTimes: []time.Time{base, base.Add(time.Second)}, want: false},
		{name: "one input newer", outTime: ptr(base), inTimes: []time.Time{base.Add(-time.Minute), base.Add(time.Second)}, want: true},
		{name: "equal timestamps are fresh", outTime: ptr(base), inTimes: []time.Time{base}, want: false},
		{name: "no inputs and existing output", outTime: ptr(base), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			out := filepath.Join(dir, "out.js")
			if tt.outTime != nil {
				testutil.Touch(t, out, *tt.outTime)
			}
			var inputs []string
			for i, mt := range tt.inTimes {
				in := filepath.Join(dir, "in", string(rune('a'+i))+".ts")
				testutil.Touch(t, in, mt)
				inputs = append(inputs, in)
			}

			got, err := IsStale(out, inputs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsStaleMissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.js")
	testutil.Touch(t, out, time.Now())

	_, err := IsStale(out, []string{filepath.Join(dir, "gone.ts")})
	assert.Error(t, err)
}

func TestTracker(t *testing.T) {
	root := t.TempDir()
	past := time.Now().Add(-time.Hour)
	testutil.Touch(t, filepath.Join(root, "src", "greeter", "greeter.ts"), past)

	tr := &Tracker{Root: root, StampDir: ".tsgen"}

	stale, err := tr.Check("typescript-compile", []string{"src/**/*.ts"})
	require.NoError(t, err)
	assert.True(t, stale, "never built")

	require.NoError(t, tr.Mark("typescript-compile", time.Now()))
	assert.FileExists(t, filepath.Join(root, ".tsgen", "typescript-compile.stamp"))

	stale, err = tr.Check("typescript-compile", []string{"src/**/*.ts"})
	require.NoError(t, err)
	assert.False(t, stale, "stamp newer than sources")

	testutil.Touch(t, filepath.Join(root, "src", "main.ts"), time.Now().Add(time.Minute))
	stale, err = tr.Check("typescript-compile", []string{"src/**/*.ts"})
	require.NoError(t, err)
	assert.True(t, stale, "a new source is newer than the stamp")
}

func TestTrackerExtraOutputs(t *testing.T) {
	root := t.TempDir()
	tr := &Tracker{Root: root, StampDir: ".tsgen"}
	require.NoError(t, tr.Mark("typescript-compile", time.Now()))

	stale, err := tr.Check("typescript-compile", nil, "dist")
	require.NoError(t, err)
	assert.True(t, stale, "generated output was removed")
}

func TestTrackerForce(t *testing.T) {
	root := t.TempDir()
	tr := &Tracker{Root: root, StampDir: ".tsgen", Force: true}
	require.NoError(t, tr.Mark("vet:es5", time.Now()))

	stale, err := tr.Check("vet:es5", nil)
	require.NoError(t, err)
	assert.True(t, stale)
}

func TestTrackerClear(t *testing.T) {
	root := t.TempDir()
	tr := &Tracker{Root: root, StampDir: ".tsgen"}
	require.NoError(t, tr.Mark("vet:typescript", time.Now()))
	require.NoError(t, tr.Clear("vet:typescript"))
	require.NoError(t, tr.Clear("vet:typescript"))

	stale, err := tr.Check("vet:typescript", nil)
	require.NoError(t, err)
	assert.True(t, stale)
}

func TestStampPathEncodesNames(t *testing.T) {
	tr := &Tracker{Root: "/p", StampDir: ".tsgen"}

	tests := []struct {
		name string
		want string
	}{
		{"vet:es5", "vet%3Aes5.stamp"},
		{"vet_es5", "vet_es5.stamp"},
		{"a/b", "a%2Fb.stamp"},
		{"a%3Ab", "a%253Ab.stamp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, filepath.Join("/p", ".tsgen", tt.want), tr.StampPath(tt.name))
		})
	}
}

func TestStampsOfSimilarNamesAreIndependent(t *testing.T) {
	root := t.TempDir()
	tr := &Tracker{Root: root, StampDir: ".tsgen"}
	testutil.Touch(t, testutil.WriteFile(t, root, "src/a.ts", "x"), time.Now().Add(-time.Hour))

	require.NoError(t, tr.Mark("vet:typescript", time.Now()))

	stale, err := tr.Check("vet_typescript", []string{"src/**/*.ts"})
	require.NoError(t, err)
	assert.True(t, stale)

	stale, err = tr.Check("vet:typescript", []string{"src/**/*.ts"})
	require.NoError(t, err)
	assert.False(t, stale)
}

func ptr(t time.Time) *time.Time {
	return &t
}
