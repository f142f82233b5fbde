// Package paths resolves warden's on-disk locations.
//
// Every directory follows the same ladder: the WARDEN_HOME portable root
// wins when set, then the matching XDG variable, then the platform default
// under the home directory. Setting WARDEN_HOME relocates the whole
// installation, which is also how tests isolate themselves.
package paths

import (
	"os"
	"path/filepath"
)

// dirClass describes one XDG directory class.
type dirClass struct {
	portableSub string   // subdirectory under WARDEN_HOME
	xdgVar      string   // XDG environment override
	homeDefault []string // default location under the user home
}

var (
	configClass = dirClass{"config", "XDG_CONFIG_HOME", []string{".config"}}
	dataClass   = dirClass{"data", "XDG_DATA_HOME", []string{".local", "share"}}
	stateClass  = dirClass{"state", "XDG_STATE_HOME", []string{".local", "state"}}
	cacheClass  = dirClass{"cache", "XDG_CACHE_HOME", []string{".cache"}}
)

// resolve walks the ladder for one directory class and appends the warden
// namespace. Empty means no home directory could be determined at all.
func resolve(c dirClass) string {
	if root := os.Getenv("WARDEN_HOME"); root != "" {
		return filepath.Join(root, c.portableSub)
	}
	if dir := os.Getenv(c.xdgVar); dir != "" {
		return filepath.Join(dir, "warden")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, filepath.Join(c.homeDefault...), "warden")
}

// ConfigDir holds warden.yml and rules documents.
func ConfigDir() string { return resolve(configClass) }

// DataDir holds durable agent data.
func DataDir() string { return resolve(dataClass) }

// StateDir holds runtime state: logs and the pidfile.
func StateDir() string { return resolve(stateClass) }

// CacheDir holds regenerable data.
func CacheDir() string { return resolve(cacheClass) }

// LogDir is where component log files are written.
func LogDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// RuntimeDir holds the agent socket. XDG_RUNTIME_DIR when the system
// provides one (Linux), otherwise the state directory (macOS has no
// runtime dir convention).
func RuntimeDir() string {
	if root := os.Getenv("WARDEN_HOME"); root != "" {
		return filepath.Join(root, "run")
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "warden")
	}
	return StateDir()
}

// SocketPath is the agent's unix socket.
func SocketPath() string {
	return filepath.Join(RuntimeDir(), "wardend.sock")
}

// PidFilePath is the agent's pidfile.
func PidFilePath() string {
	return filepath.Join(StateDir(), "wardend.pid")
}

// EnsureDirs creates every warden directory that resolved.
func EnsureDirs() error {
	for _, dir := range []string{
		ConfigDir(), DataDir(), StateDir(), CacheDir(), LogDir(), RuntimeDir(),
	} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
