package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/wardentools/core/tui/theme"
)

// PrettyLogger is the console end of the unified logger: a writer plus the
// level styles entries are rendered with. Output goes to stderr so piped
// stdout stays clean for command output.
type PrettyLogger struct {
	writer io.Writer
	styles PrettyStyles
}

// PrettyStyles maps entry levels to their console styling.
type PrettyStyles struct {
	Success lipgloss.Style
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Key     lipgloss.Style
}

// DefaultPrettyStyles derives the level styles from the active theme
// palette, so WARDEN_THEME changes console log coloring too.
func DefaultPrettyStyles() PrettyStyles {
	colors := theme.DefaultColors
	return PrettyStyles{
		Success: lipgloss.NewStyle().Foreground(colors.Green).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(colors.Blue),
		Warning: lipgloss.NewStyle().Foreground(colors.Yellow),
		Error:   lipgloss.NewStyle().Foreground(colors.Red).Bold(true),
		Key:     lipgloss.NewStyle().Foreground(colors.MutedText),
	}
}

// NewPrettyLogger returns a console logger writing to stderr with the
// theme's styles.
func NewPrettyLogger() *PrettyLogger {
	return &PrettyLogger{
		writer: os.Stderr,
		styles: DefaultPrettyStyles(),
	}
}

// WithWriter redirects console output, returning the logger for chaining.
// Tests use it to capture what the operator would have seen.
func (p *PrettyLogger) WithWriter(w io.Writer) *PrettyLogger {
	p.writer = w
	return p
}
