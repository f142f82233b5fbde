package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/wardentools/core/cli"
	"github.com/wardentools/core/pkg/agent"
)

// NewStatusCmd creates the `status` command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the running agent's state",
		Long: `Queries the agent over its unix socket: rules source, reload schedule,
rule and monitored-path counts, and the outcome of the last reload attempt.
Exits non-zero when the agent is not reachable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := agent.New(socketPathFromConfig(cmd))
			defer client.Close()

			st, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				data, err := json.MarshalIndent(st, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Println(cli.StatusLine("success", fmt.Sprintf("Agent running (PID %d)", st.PID)))

			kv := cli.NewKeyValues().
				Add("uptime", (time.Duration(st.UptimeSeconds) * time.Second).String()).
				Add("rules source", st.RulesSource).
				Add("reload interval", st.ReloadInterval).
				Add("file watching", fmt.Sprintf("%t", st.WatchEnabled)).
				Add("rules", fmt.Sprintf("%d", st.RuleCount)).
				Add("monitored paths", fmt.Sprintf("%d", st.MonitoredCount)).
				Add("rebuilds", fmt.Sprintf("%d", st.Rebuilds))
			if st.ConfigFile != "" {
				kv.Add("config", st.ConfigFile)
			}
			if !st.LastReload.IsZero() {
				kv.Add("last reload", st.LastReload.Local().Format(time.RFC1123))
			}
			fmt.Print(kv.Render())

			if st.LastError != "" {
				fmt.Println(cli.StatusLine("warning", "Last reload failed: "+st.LastError))
				fmt.Println(cli.StatusLine("info", "The previous rules remain active"))
				os.Exit(1)
			}
			return nil
		},
	}
	return cmd
}
