package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/wardentools/core/tui/theme"
	"golang.org/x/term"
)

const (
	helpMaxWidth = 72
	helpMinWidth = 40
)

// SetStyledHelp replaces a command's help output with the themed renderer.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(renderHelp)
}

// ApplyStyledHelpRecursive installs the themed help and a silent usage
// function on a command tree. Usage output is suppressed because errors are
// rendered by the ErrorHandler at the top of main.
func ApplyStyledHelpRecursive(cmd *cobra.Command) {
	cmd.SetHelpFunc(renderHelp)
	cmd.SetUsageFunc(func(*cobra.Command) error { return nil })
	for _, sub := range cmd.Commands() {
		ApplyStyledHelpRecursive(sub)
	}
}

// helpRenderer draws one command's help screen. All output goes through the
// command's writer so tests can capture it.
type helpRenderer struct {
	out   io.Writer
	t     *theme.Theme
	width int

	title   lipgloss.Style
	section lipgloss.Style
	command lipgloss.Style
	flag    lipgloss.Style
	short   lipgloss.Style
}

func renderHelp(cmd *cobra.Command, args []string) {
	t := theme.DefaultTheme
	r := &helpRenderer{
		out:     cmd.OutOrStdout(),
		t:       t,
		width:   terminalWidth() - 2,
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Orange),
		section: lipgloss.NewStyle().Italic(true).Foreground(t.Colors.Orange),
		command: lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Blue),
		flag:    lipgloss.NewStyle().Foreground(t.Colors.Violet),
		short:   lipgloss.NewStyle().Italic(true).Foreground(t.Colors.MutedText),
	}

	description, examples := splitExamples(cmd.Long)
	if cmd.Example != "" {
		examples = cmd.Example
	}

	r.heading(cmd, description)
	r.usage(cmd)
	r.subcommands(cmd)
	r.flags(cmd)
	r.examples(cmd, examples)

	if cmd.HasSubCommands() {
		r.line("")
		r.line(fmt.Sprintf(" Use %q for more information.", cmd.CommandPath()+" [command] --help"))
	}
}

func (r *helpRenderer) line(s string) {
	fmt.Fprintln(r.out, s)
}

func (r *helpRenderer) heading(cmd *cobra.Command, description string) {
	r.line(" " + r.title.Render(strings.ToUpper(cmd.CommandPath())))

	if cmd.Short != "" {
		for _, l := range strings.Split(wrap(cmd.Short, r.width), "\n") {
			r.line(" " + r.short.Render(l))
		}
	}
	if description != "" && description != cmd.Short {
		r.line("")
		for _, l := range strings.Split(wrap(description, r.width), "\n") {
			r.line(" " + l)
		}
	}
}

func (r *helpRenderer) usage(cmd *cobra.Command) {
	if !cmd.Runnable() && !cmd.HasSubCommands() {
		return
	}
	r.line("")
	r.line(" " + r.section.Render("USAGE"))
	if cmd.Runnable() {
		r.line(" " + cmd.UseLine())
	}
	if cmd.HasSubCommands() {
		r.line(" " + cmd.CommandPath() + " [command]")
	}
}

func (r *helpRenderer) subcommands(cmd *cobra.Command) {
	if !cmd.HasAvailableSubCommands() {
		return
	}
	widest := 0
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() && len(sub.Name()) > widest {
			widest = len(sub.Name())
		}
	}

	r.line("")
	r.line(" " + r.section.Render("COMMANDS"))
	for _, sub := range cmd.Commands() {
		if !sub.IsAvailableCommand() {
			continue
		}
		pad := strings.Repeat(" ", widest-len(sub.Name()))
		r.line(fmt.Sprintf(" %s%s  %s", r.command.Render(sub.Name()), pad, sub.Short))
	}
}

// flags prints a compact inline list on parent commands and a full aligned
// table on leaf commands.
func (r *helpRenderer) flags(cmd *cobra.Command) {
	var visible []*pflag.Flag
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			visible = append(visible, f)
		}
	})
	if len(visible) == 0 {
		return
	}

	if cmd.HasAvailableSubCommands() {
		names := make([]string, 0, len(visible))
		for _, f := range visible {
			if f.Shorthand != "" {
				names = append(names, "-"+f.Shorthand+"/--"+f.Name)
			} else {
				names = append(names, "--"+f.Name)
			}
		}
		r.line("")
		r.line(" " + r.t.Muted.Render("Flags: "+strings.Join(names, ", ")))
		return
	}

	widest := 0
	for _, f := range visible {
		if l := len(flagLabel(f)); l > widest {
			widest = l
		}
	}

	r.line("")
	r.line(" " + r.section.Render("FLAGS"))
	for _, f := range visible {
		label := flagLabel(f)
		pad := strings.Repeat(" ", widest-len(label))
		usage := f.Usage
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" {
			usage += r.t.Muted.Render(" (default: " + f.DefValue + ")")
		}
		r.line(fmt.Sprintf(" %s%s  %s", r.flag.Render(label), pad, usage))
	}
}

func (r *helpRenderer) examples(cmd *cobra.Command, examples string) {
	if examples == "" {
		return
	}
	root := strings.Split(cmd.CommandPath(), " ")[0]
	sub := lipgloss.NewStyle().Foreground(r.t.Colors.Cyan)

	r.line("")
	r.line(" " + r.section.Render("EXAMPLES"))
	for _, raw := range strings.Split(examples, "\n") {
		l := strings.TrimSpace(raw)
		switch {
		case l == "":
			r.line("")
		case strings.HasPrefix(l, "#"):
			r.line(" " + r.t.Muted.Render(l))
		default:
			r.line(" " + r.exampleCommand(l, root, sub))
		}
	}
}

// exampleCommand colors the binary name, the subcommand, and any flags in a
// one-line example invocation.
func (r *helpRenderer) exampleCommand(line, root string, sub lipgloss.Style) string {
	words := strings.Fields(line)
	styled := make([]string, 0, len(words))
	for i, w := range words {
		switch {
		case i == 0 && w == root:
			styled = append(styled, r.command.Render(w))
		case i == 1 && !strings.HasPrefix(w, "-"):
			styled = append(styled, sub.Render(w))
		case strings.HasPrefix(w, "-"):
			styled = append(styled, r.flag.Render(w))
		default:
			styled = append(styled, w)
		}
	}
	return "  " + strings.Join(styled, " ")
}

// splitExamples separates a Long description into prose and an optional
// trailing examples block introduced by an "Examples:" heading.
func splitExamples(long string) (description, examples string) {
	for _, marker := range []string{"\nExamples:\n", "\nExample:\n", "\nEXAMPLES:\n", "\nEXAMPLE:\n"} {
		if idx := strings.Index(long, marker); idx != -1 {
			return strings.TrimSpace(long[:idx]), strings.TrimSpace(long[idx+len(marker):])
		}
	}
	return long, ""
}

func flagLabel(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return fmt.Sprintf("    --%s", f.Name)
}

// terminalWidth probes stdout, clamping into the readable range. Non-tty
// output gets the maximum.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < helpMinWidth {
		return helpMaxWidth
	}
	if width > helpMaxWidth {
		return helpMaxWidth
	}
	return width
}

// wrap breaks text at word boundaries, preserving existing newlines.
func wrap(text string, width int) string {
	if width <= 0 {
		width = helpMaxWidth
	}

	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		if len(paragraph) <= width {
			out = append(out, paragraph)
			continue
		}
		var line string
		for _, word := range strings.Fields(paragraph) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
