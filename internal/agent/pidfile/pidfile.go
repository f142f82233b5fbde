// Package pidfile claims and inspects the agent's runtime pidfile.
package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wardentools/core/errors"
	"github.com/wardentools/core/pkg/process"
)

// Acquire claims the pidfile for the current process. The claim is an
// exclusive create: when the file already exists its owner is probed, a
// live owner fails the claim with AGENT_ALREADY_RUNNING and a dead one is
// cleaned up before one retry.
func Acquire(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create pid directory: %w", err)
	}

	for attempt := 0; ; attempt++ {
		err := writeExclusive(path, os.Getpid())
		if err == nil {
			return nil
		}
		if !os.IsExist(err) || attempt > 0 {
			return fmt.Errorf("failed to write pid file: %w", err)
		}

		if pid, rerr := Read(path); rerr == nil && process.IsProcessAlive(pid) {
			return errors.AgentAlreadyRunning(pid)
		}
		// Unreadable or dead owner: the file is stale.
		_ = os.Remove(path)
	}
}

func writeExclusive(path string, pid int) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	_, werr := fmt.Fprintf(f, "%d\n", pid)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(path)
	}
	return werr
}

// Release removes the pidfile.
func Release(path string) error {
	return os.Remove(path)
}

// Read parses the pid recorded in the file.
func Read(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(content)))
}

// IsRunning reports whether the process recorded in the pidfile is alive.
// A missing file means no agent, not an error.
func IsRunning(path string) (bool, int, error) {
	pid, err := Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return process.IsProcessAlive(pid), pid, nil
}
