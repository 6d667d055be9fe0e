package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette. Use these instead of inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: task names, file paths, tools.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for successful and up-to-date states.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for skipped or drifted states.
	ColorYellow = lipgloss.Color("220")

	// ColorBoldRed is used for failures (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs.
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome and descriptions.
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Styles groups the styles used by the diff and tree renderers.
type Styles struct {
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// GetStyles returns the default style set.
func GetStyles() *Styles {
	return &Styles{
		Bold:    StyleSummary,
		Muted:   StyleDim,
		Success: lipgloss.NewStyle().Foreground(ColorGreen),
		Warning: lipgloss.NewStyle().Foreground(ColorYellow),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed),
	}
}

// Status words printed by tsgen new, diff and doctor.
const (
	StatusOK          = "ok"
	StatusUpToDate    = "up-to-date"
	StatusUnchanged   = "unchanged"
	StatusOverwritten = "overwritten"
	StatusDrifted     = "drifted"
	StatusMissing     = "missing"
	StatusOutdated    = "outdated"
	StatusFailed      = "failed"
)

// StatusStyle returns the style for a status word.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	s := GetStyles()
	switch status {
	case StatusOK:
		return s.Success
	case StatusUpToDate, StatusUnchanged:
		return lipgloss.NewStyle().Faint(true)
	case StatusDrifted, StatusOutdated, StatusOverwritten:
		return s.Warning
	case StatusMissing, StatusFailed:
		return s.Error
	default:
		return lipgloss.NewStyle()
	}
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatCross renders a red cross with a message.
func FormatCross(msg string) string {
	return GetStyles().Error.Render("✘") + " " + msg
}

// NoColorStyles returns a style set that renders plain text.
func NoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{Bold: plain, Muted: plain, Success: plain, Warning: plain, Error: plain}
}
