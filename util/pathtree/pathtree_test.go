package pathtree

import "testing"

func TestExactLookup(t *testing.T) {
	tree := New[string]()
	if !tree.SetExact("/etc/passwd", "passwd-rule") {
		t.Fatal("SetExact() = false for new path")
	}

	got, ok := tree.Lookup("/etc/passwd")
	if !ok || got != "passwd-rule" {
		t.Errorf("Lookup(/etc/passwd) = %q, %v; want passwd-rule, true", got, ok)
	}

	// Exact registrations do not cover children
	if _, ok := tree.Lookup("/etc/passwd/extra"); ok {
		t.Error("exact registration matched a child path")
	}
	if _, ok := tree.Lookup("/etc"); ok {
		t.Error("exact registration matched a parent path")
	}
}

func TestPrefixLookup(t *testing.T) {
	tree := New[string]()
	tree.SetPrefix("/usr/bin", "bin-rule")

	tests := []struct {
		path  string
		want  string
		match bool
	}{
		{"/usr/bin", "bin-rule", true},
		{"/usr/bin/ls", "bin-rule", true},
		{"/usr/bin/deep/nested/tool", "bin-rule", true},
		{"/usr", "", false},
		{"/etc/passwd", "", false},
		// Segment boundary: /usr/bin is not a prefix of /usr/bin-backup
		{"/usr/bin-backup", "", false},
		{"/usr/bin-backup/ls", "", false},
	}

	for _, tt := range tests {
		got, ok := tree.Lookup(tt.path)
		if ok != tt.match || got != tt.want {
			t.Errorf("Lookup(%s) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.match)
		}
	}
}

func TestLongestPrefixWins(t *testing.T) {
	tree := New[string]()
	tree.SetPrefix("/a/b", "outer")
	tree.SetPrefix("/a/b/c", "inner")

	got, ok := tree.Lookup("/a/b/c/d/e")
	if !ok || got != "inner" {
		t.Errorf("Lookup(/a/b/c/d/e) = %q, %v; want inner, true", got, ok)
	}

	got, ok = tree.Lookup("/a/b/x")
	if !ok || got != "outer" {
		t.Errorf("Lookup(/a/b/x) = %q, %v; want outer, true", got, ok)
	}
}

func TestExactBeatsPrefixAtTerminal(t *testing.T) {
	tree := New[string]()
	tree.SetPrefix("/opt/tool", "prefix-rule")
	tree.SetExact("/opt/tool", "exact-rule")

	got, ok := tree.Lookup("/opt/tool")
	if !ok || got != "exact-rule" {
		t.Errorf("Lookup(/opt/tool) = %q, %v; want exact-rule, true", got, ok)
	}

	// Below the terminal only the prefix registration applies
	got, ok = tree.Lookup("/opt/tool/bin")
	if !ok || got != "prefix-rule" {
		t.Errorf("Lookup(/opt/tool/bin) = %q, %v; want prefix-rule, true", got, ok)
	}
}

func TestDuplicateRegistrations(t *testing.T) {
	tree := New[string]()

	if !tree.SetExact("/tmp/f", "first") {
		t.Fatal("first SetExact() = false")
	}
	if tree.SetExact("/tmp/f", "second") {
		t.Error("second SetExact() = true, want false")
	}
	if got, _ := tree.Lookup("/tmp/f"); got != "first" {
		t.Errorf("Lookup after duplicate SetExact = %q, want first", got)
	}

	if !tree.SetPrefix("/var/log", "first") {
		t.Fatal("first SetPrefix() = false")
	}
	if tree.SetPrefix("/var/log", "second") {
		t.Error("second SetPrefix() = true, want false")
	}
	if got, _ := tree.Lookup("/var/log/syslog"); got != "first" {
		t.Errorf("Lookup after duplicate SetPrefix = %q, want first", got)
	}

	if tree.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tree.Len())
	}
}

func TestRootPrefix(t *testing.T) {
	tree := New[string]()
	tree.SetPrefix("/", "root-rule")
	tree.SetPrefix("/home", "home-rule")

	if got, _ := tree.Lookup("/anything/at/all"); got != "root-rule" {
		t.Errorf("Lookup under root prefix = %q, want root-rule", got)
	}
	if got, _ := tree.Lookup("/home/user"); got != "home-rule" {
		t.Errorf("Lookup(/home/user) = %q, want home-rule", got)
	}
}

func TestEmptyTree(t *testing.T) {
	tree := New[int]()
	if tree.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tree.Len())
	}
	if _, ok := tree.Lookup("/anything"); ok {
		t.Error("Lookup on empty tree matched")
	}
	if _, ok := tree.Lookup("/"); ok {
		t.Error("Lookup(/) on empty tree matched")
	}
}
