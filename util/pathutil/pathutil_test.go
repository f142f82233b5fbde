package pathutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpand(t *testing.T) {
	t.Setenv("WARDEN_TEST_DIR", "/opt/warden")

	got, err := Expand("$WARDEN_TEST_DIR/rules.yml")
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if got != "/opt/warden/rules.yml" {
		t.Errorf("Expand() = %q, want /opt/warden/rules.yml", got)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err = Expand("~/rules.yml")
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if got != filepath.Join(home, "rules.yml") {
		t.Errorf("Expand(~/rules.yml) = %q", got)
	}
}

func TestExpandRelative(t *testing.T) {
	got, err := Expand("rules.yml")
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("Expand() returned relative path %q", got)
	}
}

func TestNormalizeForLookupResolvesSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	if err := os.MkdirAll(target, 0755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	same, err := ComparePaths(link, target)
	if err != nil {
		t.Fatalf("ComparePaths() error = %v", err)
	}
	if !same {
		t.Error("ComparePaths() = false for symlink and target")
	}
}

func TestNormalizeForLookupMissingPath(t *testing.T) {
	// A path that does not exist still normalizes to its absolute form.
	got, err := NormalizeForLookup("/definitely/not/here")
	if err != nil {
		t.Fatalf("NormalizeForLookup() error = %v", err)
	}
	if got != "/definitely/not/here" {
		t.Errorf("NormalizeForLookup() = %q", got)
	}
}
