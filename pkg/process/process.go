// Package process holds the pid-level operations the agent lifecycle needs:
// liveness probes for stale pidfile detection and orderly termination.
package process

import (
	"fmt"
	"os"
	"syscall"
)

// IsProcessAlive reports whether a process with the given pid exists.
// Probing uses signal 0, which delivers nothing: nil means alive, EPERM
// means alive but owned by someone else, anything else means gone.
func IsProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		// FindProcess only fails on Windows; on Unix it always succeeds.
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || os.IsPermission(err)
}

// Terminate asks the process to shut down with SIGTERM. The agent installs
// a handler for it, so this is the orderly stop path.
func Terminate(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("finding process %d: %w", pid, err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signalling process %d: %w", pid, err)
	}
	return nil
}
