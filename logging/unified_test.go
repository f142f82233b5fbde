package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestUnifiedLoggerDualOutput(t *testing.T) {
	t.Setenv("WARDEN_HOME", t.TempDir())

	ulog := NewUnifiedLogger("unified-test")

	var pretty, structured bytes.Buffer
	ulog.WithPretty().WithWriter(&pretty)
	ulog.WithStructured().Logger.SetOutput(&structured)

	ulog.Success("rules applied").
		Field("rule_count", 12).
		Log()

	if !strings.Contains(pretty.String(), "rules applied") {
		t.Errorf("pretty output missing message: %s", pretty.String())
	}

	out := structured.String()
	if !strings.Contains(out, "rules applied") {
		t.Errorf("structured output missing message: %s", out)
	}
	if !strings.Contains(out, "rule_count=12") {
		t.Errorf("structured output missing field: %s", out)
	}
	if !strings.Contains(out, "status=success") {
		t.Errorf("structured output missing status field: %s", out)
	}
}

func TestUnifiedLoggerStructuredOnly(t *testing.T) {
	t.Setenv("WARDEN_HOME", t.TempDir())

	ulog := NewUnifiedLogger("unified-structonly")

	var pretty, structured bytes.Buffer
	ulog.WithPretty().WithWriter(&pretty)
	ulog.WithStructured().Logger.SetOutput(&structured)

	ulog.Info("audit detail").StructuredOnly().Log()

	if pretty.Len() != 0 {
		t.Errorf("expected no pretty output, got: %s", pretty.String())
	}
	if !strings.Contains(structured.String(), "audit detail") {
		t.Errorf("structured output missing message: %s", structured.String())
	}
}

func TestUnifiedLoggerPrettyOnly(t *testing.T) {
	t.Setenv("WARDEN_HOME", t.TempDir())

	ulog := NewUnifiedLogger("unified-prettyonly")

	var pretty, structured bytes.Buffer
	ulog.WithPretty().WithWriter(&pretty)
	ulog.WithStructured().Logger.SetOutput(&structured)

	ulog.Warn("operator note").PrettyOnly().Log()

	if !strings.Contains(pretty.String(), "operator note") {
		t.Errorf("pretty output missing message: %s", pretty.String())
	}
	if structured.Len() != 0 {
		t.Errorf("expected no structured output, got: %s", structured.String())
	}
}

func TestUnifiedLoggerErrField(t *testing.T) {
	t.Setenv("WARDEN_HOME", t.TempDir())

	ulog := NewUnifiedLogger("unified-err")

	var pretty, structured bytes.Buffer
	ulog.WithPretty().WithWriter(&pretty)
	ulog.WithStructured().Logger.SetOutput(&structured)

	ulog.Error("reload failed").Err(errForTest("boom")).Log()

	if !strings.Contains(structured.String(), "error=boom") {
		t.Errorf("structured output missing error field: %s", structured.String())
	}
}

type errForTest string

func (e errForTest) Error() string { return string(e) }
