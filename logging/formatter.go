package logging

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/wardentools/core/tui/theme"
)

// TextFormatter renders entries as single aligned text lines:
//
//	2026-01-02 15:04:05 [INFO] [wardend] Watch rules active rules=4
//
// Extra fields are emitted in sorted order so consecutive runs of the agent
// produce diffable logs.
type TextFormatter struct {
	Config FormatConfig
}

// Format renders a single log entry.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	if !f.Config.DisableTimestamp {
		b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
		b.WriteByte(' ')
	}

	b.WriteString("[" + levelTag(entry.Level) + "]")

	if component, ok := entry.Data["component"]; ok && !f.Config.DisableComponent {
		name := fmt.Sprintf("%v", component)
		b.WriteString(" [" + theme.DefaultTheme.Accent.Render(name) + "]")
	}

	if entry.HasCaller() {
		b.WriteString(fmt.Sprintf(" [%s:%d %s]",
			filepath.Base(entry.Caller.File),
			entry.Caller.Line,
			filepath.Base(entry.Caller.Function)))
	}

	b.WriteByte(' ')
	b.WriteString(entry.Message)
	f.writeFields(&b, entry.Data)
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func (f *TextFormatter) writeFields(b *strings.Builder, data logrus.Fields) {
	keys := make([]string, 0, len(data))
	for key := range data {
		if key != "component" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := fmt.Sprintf("%v", data[key])
		if strings.ContainsAny(val, " \t") {
			val = fmt.Sprintf("%q", val)
		}
		fmt.Fprintf(b, " %s=%s", key, val)
	}
}

// levelTag shortens logrus level names to the fixed tags used in log lines.
func levelTag(level logrus.Level) string {
	if level == logrus.WarnLevel {
		return "WARN"
	}
	return strings.ToUpper(level.String())
}
