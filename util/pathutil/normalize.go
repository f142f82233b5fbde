package pathutil

import (
	"path/filepath"
	"runtime"
	"strings"
)

// caseInsensitiveFS reports whether path comparison on this platform must
// ignore case. HFS+/APFS and NTFS default to case-insensitive volumes.
func caseInsensitiveFS() bool {
	return runtime.GOOS == "darwin" || runtime.GOOS == "windows"
}

// NormalizeForLookup resolves a path to the spelling used for comparisons:
// absolute, symlinks evaluated, lowercased on case-insensitive platforms.
//
// Watcher events can name a file the instant it is created, before the full
// path resolves. When that happens the parent directory is resolved instead
// and the final element joined back on, so a file under a symlinked
// directory still normalizes to its real location. A path whose parent does
// not exist either is returned in absolute form.
func NormalizeForLookup(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		dir, base := filepath.Split(abs)
		if parent, perr := filepath.EvalSymlinks(filepath.Clean(dir)); perr == nil {
			resolved = filepath.Join(parent, base)
		} else {
			resolved = abs
		}
	}

	if caseInsensitiveFS() {
		resolved = strings.ToLower(resolved)
	}
	return resolved, nil
}

// ComparePaths reports whether two paths name the same filesystem location
// once both are normalized.
func ComparePaths(a, b string) (bool, error) {
	na, err := NormalizeForLookup(a)
	if err != nil {
		return false, err
	}
	nb, err := NormalizeForLookup(b)
	if err != nil {
		return false, err
	}
	return na == nb, nil
}
