package profiling

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestDisabledTimelineHandsOutNoops(t *testing.T) {
	tl := &timeline{}
	if _, ok := tl.openSection("anything").(nop); !ok {
		t.Error("sections opened before Enable should be no-ops")
	}
}

func TestTimelineRecordsNestedSections(t *testing.T) {
	Enable()

	reload := Start("reload")
	parse := Start("parse")
	time.Sleep(2 * time.Millisecond)
	parse.Stop()
	reload.Stop()

	var buf bytes.Buffer
	Summarize(&buf)
	out := buf.String()

	if !strings.Contains(out, "- reload") {
		t.Errorf("summary missing top-level section:\n%s", out)
	}
	if !strings.Contains(out, "  - parse") {
		t.Errorf("summary missing nested section:\n%s", out)
	}
}
