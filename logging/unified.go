package logging

import (
	"fmt"
	"regexp"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/wardentools/core/tui/theme"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// UnifiedLogger writes each entry twice: once styled for the operator's
// console and once structured for the audit log. Agent lifecycle messages go
// through it so the console and the audit trail never disagree about what
// happened.
type UnifiedLogger struct {
	pretty     *PrettyLogger
	structured *logrus.Entry
}

// NewUnifiedLogger creates a unified logger for one component. Caller
// reporting on the underlying logrus logger is disabled because the wrapper
// records the real call site itself; leaving it on would attribute every
// entry to this file.
func NewUnifiedLogger(component string) *UnifiedLogger {
	structured := NewLogger(component)
	structured.Logger.SetReportCaller(false)

	return &UnifiedLogger{
		pretty:     NewPrettyLogger(),
		structured: structured,
	}
}

func (u *UnifiedLogger) entry(level logrus.Level, icon, msg string, fields logrus.Fields) *LogEntry {
	if fields == nil {
		fields = logrus.Fields{}
	}
	return &LogEntry{logger: u, msg: msg, level: level, icon: icon, fields: fields}
}

// Debug returns an entry at DEBUG level. Hidden from the console unless the
// level is lowered (WARDEN_LOG_LEVEL=debug).
func (u *UnifiedLogger) Debug(msg string) *LogEntry {
	return u.entry(logrus.DebugLevel, "", msg, nil)
}

// Info returns an entry at INFO level.
func (u *UnifiedLogger) Info(msg string) *LogEntry {
	return u.entry(logrus.InfoLevel, "", msg, nil)
}

// Warn returns an entry at WARN level with the warning icon.
func (u *UnifiedLogger) Warn(msg string) *LogEntry {
	return u.entry(logrus.WarnLevel, theme.IconWarning, msg, nil)
}

// Error returns an entry at ERROR level with the error icon.
func (u *UnifiedLogger) Error(msg string) *LogEntry {
	return u.entry(logrus.ErrorLevel, theme.IconError, msg, nil)
}

// Success returns an INFO entry carrying status=success and the success icon.
func (u *UnifiedLogger) Success(msg string) *LogEntry {
	return u.entry(logrus.InfoLevel, theme.IconSuccess, msg, logrus.Fields{"status": "success"})
}

// Progress returns an INFO entry for an operation that is still underway.
func (u *UnifiedLogger) Progress(msg string) *LogEntry {
	return u.entry(logrus.InfoLevel, theme.IconRunning, msg, logrus.Fields{"status": "progress"})
}

// Status returns an INFO entry for a state announcement.
func (u *UnifiedLogger) Status(msg string) *LogEntry {
	return u.entry(logrus.InfoLevel, theme.IconInfo, msg, logrus.Fields{"status": "info"})
}

// WithStructured exposes the underlying logrus entry for call sites that
// need structured-only logging outside the builder.
func (u *UnifiedLogger) WithStructured() *logrus.Entry {
	return u.structured
}

// WithPretty exposes the underlying console logger.
func (u *UnifiedLogger) WithPretty() *PrettyLogger {
	return u.pretty
}

// LogEntry accumulates a message and its options; nothing is written until
// Log() runs. The zero entry is not usable, construct through UnifiedLogger.
type LogEntry struct {
	logger     *UnifiedLogger
	msg        string
	level      logrus.Level
	fields     logrus.Fields
	icon       string
	prettyMsg  string
	prettyOnly bool
	structOnly bool
	noIcon     bool
}

// Field adds one structured field (chainable). Fields land in the audit
// log only; the console line stays as composed.
func (e *LogEntry) Field(key string, value interface{}) *LogEntry {
	e.fields[key] = value
	return e
}

// Fields adds several structured fields (chainable).
func (e *LogEntry) Fields(fields map[string]interface{}) *LogEntry {
	for k, v := range fields {
		e.fields[k] = v
	}
	return e
}

// Err attaches an error, surfacing it as the "error" field (chainable).
func (e *LogEntry) Err(err error) *LogEntry {
	if err != nil {
		e.fields["error"] = err.Error()
	}
	return e
}

// Icon overrides the level's default icon (chainable).
func (e *LogEntry) Icon(icon string) *LogEntry {
	e.icon = icon
	return e
}

// NoIcon suppresses the icon on the console line (chainable).
func (e *LogEntry) NoIcon() *LogEntry {
	e.noIcon = true
	return e
}

// Pretty replaces the console rendering with a pre-styled string
// (chainable). The plain message still goes to the audit log, so searches
// never have to match ANSI sequences.
func (e *LogEntry) Pretty(styled string) *LogEntry {
	e.prettyMsg = styled
	return e
}

// PrettyOnly keeps the entry off the audit log (chainable).
func (e *LogEntry) PrettyOnly() *LogEntry {
	e.prettyOnly = true
	return e
}

// StructuredOnly keeps the entry off the console (chainable).
func (e *LogEntry) StructuredOnly() *LogEntry {
	e.structOnly = true
	return e
}

// Log writes the entry to its destinations. Terminal method; an entry that
// is never Log()ged writes nothing.
func (e *LogEntry) Log() {
	rendered := e.render()

	if !e.structOnly {
		fmt.Fprintf(e.logger.pretty.writer, "%s\n", rendered)
	}
	if !e.prettyOnly {
		e.audit(rendered)
	}
}

// render produces the console line: icon prefix plus level styling, unless
// a custom Pretty() string took over.
func (e *LogEntry) render() string {
	if e.prettyMsg != "" {
		return e.prettyMsg
	}

	line := e.msg
	if !e.noIcon {
		icon := e.icon
		if icon == "" {
			icon = theme.IconBullet
		}
		line = icon + " " + line
	}
	return e.style().Render(line)
}

func (e *LogEntry) style() lipgloss.Style {
	styles := e.logger.pretty.styles
	switch {
	case e.level == logrus.ErrorLevel:
		return styles.Error
	case e.level == logrus.WarnLevel:
		return styles.Warning
	case e.level == logrus.DebugLevel:
		return styles.Key
	case e.icon == theme.IconSuccess:
		return styles.Success
	case e.icon == theme.IconRunning, e.icon == theme.IconInfo:
		return styles.Info
	default:
		return lipgloss.NewStyle()
	}
}

// callerSkip reaches past audit and Log to the caller of Log().
const callerSkip = 2

// audit writes the structured record: the plain message, the fields, the
// real call site, and both spellings of the console line (pretty_ansi for
// terminal viewers, pretty_text for search).
func (e *LogEntry) audit(rendered string) {
	if pc, file, line, ok := runtime.Caller(callerSkip); ok {
		e.fields["file"] = fmt.Sprintf("%s:%d", file, line)
		if fn := runtime.FuncForPC(pc); fn != nil {
			e.fields["func"] = fn.Name()
		}
	}

	e.fields["pretty_ansi"] = rendered
	e.fields["pretty_text"] = ansiRegex.ReplaceAllString(rendered, "")

	e.logger.structured.WithFields(e.fields).Log(e.level, e.msg)
}
