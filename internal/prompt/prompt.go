// Package prompt asks the questions of `tsgen new`.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/output"
)

// ErrCancelled is returned when the user aborts the prompt.
var ErrCancelled = errors.New("prompt cancelled")

var defaultStyle = lipgloss.NewStyle().Foreground(output.ColorYellow)

// Options configures AppName.
type Options struct {
	// Default is used when the answer is empty.
	Default string

	In  io.Reader
	Out io.Writer

	// Interactive selects the terminal UI. Otherwise a single line is read
	// from In.
	Interactive bool
}

// Label returns the question shown for the application name.
func Label(def string) string {
	return fmt.Sprintf("Application Name (%s)", defaultStyle.Render(def))
}

// AppName asks for the application name. An empty answer keeps the
// default.
func AppName(ctx context.Context, opts Options) (string, error) {
	if !opts.Interactive {
		return readLine(opts)
	}

	final, err := tea.NewProgram(
		newModel(opts.Default),
		tea.WithContext(ctx),
		tea.WithInput(opts.In),
		tea.WithOutput(opts.Out),
	).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("running prompt: %w", err)
	}

	m := final.(model)
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.answer(), nil
}

func readLine(opts Options) (string, error) {
	if opts.Out != nil {
		fmt.Fprint(opts.Out, Label(opts.Default)+" ")
	}
	line, err := bufio.NewReader(opts.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	if answer := strings.TrimSpace(line); answer != "" {
		return answer, nil
	}
	return opts.Default, nil
}

type model struct {
	input     textinput.Model
	def       string
	done      bool
	cancelled bool
}

func newModel(def string) model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = def
	in.CharLimit = 214
	in.Focus()
	return model{input: in, def: def}
}

func (m model) answer() string {
	if v := strings.TrimSpace(m.input.Value()); v != "" {
		return v
	}
	return m.def
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.done || m.cancelled {
		return Label(m.def) + " " + m.answer() + "\n"
	}
	return Label(m.def) + " " + m.input.View()
}
