package prompt

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppNameNonInteractive(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"answer", "my-app\n", "my-app"},
		{"answer without newline", "my-app", "my-app"},
		{"empty answer keeps default", "\n", "greeter"},
		{"whitespace keeps default", "   \n", "greeter"},
		{"no input keeps default", "", "greeter"},
		{"only first line is read", "first\nsecond\n", "first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := AppName(context.Background(), Options{
				Default: "greeter",
				In:      strings.NewReader(tt.input),
				Out:     &out,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Application Name (")
			assert.Contains(t, out.String(), "greeter")
		})
	}
}

func update(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func TestModelTyping(t *testing.T) {
	m := update(newModel("greeter"),
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hello")},
		tea.KeyMsg{Type: tea.KeyBackspace},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	assert.True(t, m.done)
	assert.False(t, m.cancelled)
	assert.Equal(t, "hell", m.answer())
	assert.Contains(t, m.View(), "hell")
}

func TestModelEmptyKeepsDefault(t *testing.T) {
	m := update(newModel("greeter"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "greeter", m.answer())
}

func TestModelCancel(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := update(newModel("greeter"), tea.KeyMsg{Type: key})
		assert.True(t, m.cancelled)
	}
}

func TestModelQuitsOnEnter(t *testing.T) {
	_, cmd := newModel("greeter").Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
