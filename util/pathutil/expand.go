// Package pathutil handles the path spellings warden meets at its edges:
// user-written paths in configuration (tildes, environment variables) and
// kernel-reported paths from the filesystem watcher (symlinks, case).
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Expand turns a user-written path into an absolute one: a leading tilde
// becomes the home directory, environment variables are substituted, and
// the result is absolutized against the working directory.
func Expand(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding %q: %w", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return filepath.Abs(os.ExpandEnv(path))
}
