package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wardentools/core/cli"
	"github.com/wardentools/core/pkg/paths"
)

// PathsOutput represents the XDG-compliant paths used by Warden.
type PathsOutput struct {
	ConfigDir  string `json:"config_dir"`
	DataDir    string `json:"data_dir"`
	StateDir   string `json:"state_dir"`
	CacheDir   string `json:"cache_dir"`
	LogDir     string `json:"log_dir"`
	RuntimeDir string `json:"runtime_dir"`
	SocketPath string `json:"socket_path"`
	PidFile    string `json:"pid_file"`
}

// NewPathsCmd creates the `paths` command.
func NewPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the XDG-compliant paths used by Warden",
		Long: `Print the directories and files Warden reads and writes.

The paths follow the XDG Base Directory Specification, with WARDEN_HOME
overriding everything for portable installs:
- config_dir: Configuration files (warden.yml, rules documents)
- data_dir: Persistent data
- state_dir: Runtime state (PID file, logs)
- cache_dir: Temporary/regenerable data
- runtime_dir: Sockets and pipes (XDG_RUNTIME_DIR when available)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := PathsOutput{
				ConfigDir:  paths.ConfigDir(),
				DataDir:    paths.DataDir(),
				StateDir:   paths.StateDir(),
				CacheDir:   paths.CacheDir(),
				LogDir:     paths.LogDir(),
				RuntimeDir: paths.RuntimeDir(),
				SocketPath: paths.SocketPath(),
				PidFile:    paths.PidFilePath(),
			}

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				data, err := json.MarshalIndent(output, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal paths to JSON: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			kv := cli.NewKeyValues().
				Add("config", output.ConfigDir).
				Add("data", output.DataDir).
				Add("state", output.StateDir).
				Add("cache", output.CacheDir).
				Add("logs", output.LogDir).
				Add("runtime", output.RuntimeDir).
				Add("socket", output.SocketPath).
				Add("pid file", output.PidFile)
			fmt.Print(kv.Render())
			return nil
		},
	}

	return cmd
}
