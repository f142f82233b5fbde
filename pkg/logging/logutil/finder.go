// Package logutil locates warden log files for the logs command.
package logutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wardentools/core/logging"
	"github.com/wardentools/core/pkg/paths"
	"github.com/wardentools/core/util/pathutil"
)

// LogDir returns the directory holding warden logs. An explicitly configured
// file sink wins over the default per-component layout in the state dir.
func LogDir(logCfg logging.Config) (string, error) {
	if logCfg.File.Enabled && logCfg.File.Path != "" {
		expanded, err := pathutil.Expand(logCfg.File.Path)
		if err != nil {
			return "", err
		}
		return filepath.Dir(expanded), nil
	}
	return paths.LogDir(), nil
}

// Components lists the component names that have log files, derived from the
// "<component>-YYYY-MM-DD.log" naming of the default sink.
func Components(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read log directory %s: %w", dir, err)
	}

	seen := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if component, ok := componentOf(entry.Name()); ok {
			seen[component] = struct{}{}
		}
	}

	components := make([]string, 0, len(seen))
	for c := range seen {
		components = append(components, c)
	}
	sort.Strings(components)
	return components, nil
}

// FindComponentLog returns the newest log file for one component.
func FindComponentLog(dir, component string) (string, error) {
	return findLatest(dir, func(name string) bool {
		c, ok := componentOf(name)
		return ok && c == component
	})
}

// FindLatestLogFile finds the most recently modified log file in a
// directory, preferring files with content over empty ones.
func FindLatestLogFile(dir string) (string, error) {
	return findLatest(dir, func(name string) bool {
		return strings.HasSuffix(name, ".log")
	})
}

func findLatest(dir string, match func(name string) bool) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("could not read log directory %s: %w", dir, err)
	}

	var latestFile os.FileInfo
	var latestPath string
	var latestNonEmptyFile os.FileInfo
	var latestNonEmptyPath string

	for _, entry := range entries {
		if entry.IsDir() || !match(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		// Track latest file overall
		if latestFile == nil || info.ModTime().After(latestFile.ModTime()) {
			latestFile = info
			latestPath = filepath.Join(dir, entry.Name())
		}
		// Track latest non-empty file
		if info.Size() > 0 {
			if latestNonEmptyFile == nil || info.ModTime().After(latestNonEmptyFile.ModTime()) {
				latestNonEmptyFile = info
				latestNonEmptyPath = filepath.Join(dir, entry.Name())
			}
		}
	}

	// Prefer non-empty files
	if latestNonEmptyFile != nil {
		return latestNonEmptyPath, nil
	}

	if latestFile == nil {
		return "", fmt.Errorf("no log files found in %s", dir)
	}

	return latestPath, nil
}

// componentOf extracts the component from "<component>-YYYY-MM-DD.log".
func componentOf(name string) (string, bool) {
	base, ok := strings.CutSuffix(name, ".log")
	if !ok {
		return "", false
	}
	// The date suffix is three dash-separated fields: YYYY-MM-DD.
	parts := strings.Split(base, "-")
	if len(parts) < 4 {
		return "", false
	}
	component := strings.Join(parts[:len(parts)-3], "-")
	if component == "" {
		return "", false
	}
	return component, true
}
