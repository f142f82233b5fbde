// Package profiling provides an opt-in hierarchical timer for finding out
// where wardend spends its time, plus cobra hooks for the standard pprof
// profiles. When disabled every call is a no-op.
package profiling

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// Stopper ends a timed section.
type Stopper interface {
	Stop()
}

// section is one timed region. Sections nest by call order: a section
// started while another is open becomes its child.
type section struct {
	name     string
	start    time.Time
	elapsed  time.Duration
	children []*section
}

// timeline holds the section tree for one process run.
type timeline struct {
	mu      sync.Mutex
	enabled bool
	root    *section
	open    []*section // innermost last
}

var global = &timeline{}

// Enable arms the global timeline. Sections started before Enable are not
// recorded.
func Enable() {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.enabled {
		return
	}
	global.enabled = true
	global.root = &section{name: "", start: time.Now()}
	global.open = []*section{global.root}
}

// Start opens a named section. Stop the returned Stopper to record the
// elapsed time, typically via defer.
func Start(name string) Stopper {
	return global.openSection(name)
}

// Summarize writes the recorded sections as an indented tree with each
// section's share of the total runtime. It does nothing when the timeline
// was never enabled.
func Summarize(w io.Writer) {
	global.mu.Lock()
	defer global.mu.Unlock()

	if !global.enabled || global.root == nil {
		return
	}
	if global.root.elapsed == 0 {
		global.root.elapsed = time.Since(global.root.start)
	}

	fmt.Fprintln(w, "\n--- Timing profile ---")
	render(w, global.root, 0, global.root.elapsed)
	fmt.Fprintln(w, "----------------------")
}

func (tl *timeline) openSection(name string) Stopper {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if !tl.enabled {
		return nop{}
	}

	s := &section{name: name, start: time.Now()}
	parent := tl.open[len(tl.open)-1]
	parent.children = append(parent.children, s)
	tl.open = append(tl.open, s)
	return ticket{tl: tl, s: s}
}

func (tl *timeline) closeSection(s *section) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	s.elapsed = time.Since(s.start)
	// Only pop the innermost section; a stray out-of-order Stop must not
	// unwind someone else's nesting.
	if n := len(tl.open); n > 1 && tl.open[n-1] == s {
		tl.open = tl.open[:n-1]
	}
}

// render prints a section subtree. The root carries no name of its own and
// only contributes its children.
func render(w io.Writer, s *section, depth int, total time.Duration) {
	if s.name != "" {
		share := 0.0
		if total > 0 {
			share = float64(s.elapsed) / float64(total) * 100
		}
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(w, "%s- %s (%v, %.1f%%)\n", indent, s.name, s.elapsed.Round(100*time.Microsecond), share)
		depth++
	}

	sort.Slice(s.children, func(i, j int) bool {
		return s.children[i].start.Before(s.children[j].start)
	})
	for _, child := range s.children {
		render(w, child, depth, total)
	}
}

type ticket struct {
	tl *timeline
	s  *section
}

func (t ticket) Stop() { t.tl.closeSection(t.s) }

// nop stands in while profiling is disabled.
type nop struct{}

func (nop) Stop() {}
