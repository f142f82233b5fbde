package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wardentools/core/cli"
	"github.com/wardentools/core/pkg/agent"
	"github.com/wardentools/core/tui/theme"
	"github.com/wardentools/core/watch"
)

// NewMonitoredCmd creates the `monitored` command.
func NewMonitoredCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitored",
		Short: "Show the monitored path set published to interceptors",
		Long: `Prints the filesystem roots the agent tells event interceptors to
instrument, after exclude patterns are applied. With --watch the command
stays attached and prints the set again every time a reload changes it.

Examples:
  # Current monitored set
  warden monitored

  # Follow changes as rules files are edited
  warden monitored --watch
`,
		RunE: runMonitoredE,
	}

	cmd.Flags().BoolP("watch", "w", false, "Stream updates as the monitored set changes")

	return cmd
}

func runMonitoredE(cmd *cobra.Command, args []string) error {
	follow, _ := cmd.Flags().GetBool("watch")
	jsonOut, _ := cmd.Flags().GetBool("json")

	client := agent.New(socketPathFromConfig(cmd))
	defer client.Close()

	if follow {
		// Streaming requires the live agent; there is nothing to follow in a
		// local compile.
		updates, err := client.StreamMonitored(cmd.Context())
		if err != nil {
			return err
		}
		for paths := range updates {
			printMonitored(paths, jsonOut)
		}
		return nil
	}

	if client.IsRunning() {
		paths, err := client.Monitored(cmd.Context())
		if err != nil {
			return err
		}
		printMonitored(paths, jsonOut)
		return nil
	}

	source, err := resolveRulesSource(cmd, nil)
	if err != nil {
		return err
	}
	raw, err := source.Load()
	if err != nil {
		return err
	}
	policies, err := watch.ParseConfig(raw)
	if err != nil {
		return err
	}
	_, monitored, err := watch.BuildIndex(policies)
	if err != nil {
		return err
	}
	printMonitored(monitored, jsonOut)
	fmt.Println(theme.DefaultTheme.Muted.Render("(compiled locally; agent not running)"))
	return nil
}

func printMonitored(paths []string, jsonOut bool) {
	if jsonOut {
		data, _ := json.Marshal(map[string]interface{}{
			"count": len(paths),
			"paths": paths,
		})
		fmt.Println(string(data))
		return
	}

	if len(paths) == 0 {
		fmt.Println(cli.StatusLine("info", "No paths monitored"))
		return
	}
	for _, p := range paths {
		fmt.Printf("%s %s\n", theme.DefaultTheme.Info.Render(theme.IconBullet), p)
	}
}
