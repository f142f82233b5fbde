package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wardentools/core/cli"
	"github.com/wardentools/core/pkg/agent"
	"github.com/wardentools/core/pkg/paths"
	"github.com/wardentools/core/tui/theme"
	"github.com/wardentools/core/watch"
)

// NewRulesCmd creates the `rules` command.
func NewRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the active watch rules",
		Long: `Shows the rules the agent currently enforces, in the order they were
parsed. Without a running agent the configured rules source is compiled
locally instead.

Examples:
  # Table of active rules
  warden rules

  # Machine-readable dump
  warden rules --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			policies, live, err := loadPolicies(cmd)
			if err != nil {
				return err
			}

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				data, err := json.MarshalIndent(policies, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			if len(policies) == 0 {
				fmt.Println(cli.StatusLine("info", "No watch rules configured"))
				return nil
			}

			table := cli.NewTable("NAME", "PATH", "MATCH", "MODE", "SCOPE", "EXEMPT")
			for _, p := range policies {
				match := "exact"
				if p.IsPrefix {
					match = "prefix"
				}
				mode := theme.IconBlocked + " block"
				if p.AuditOnly {
					mode = theme.IconAudited + " audit"
				}
				scope := "all access"
				if p.WriteOnly {
					scope = theme.IconWrite + " writes"
				}
				exempt := "-"
				if n := len(p.AllowedBinaryPaths) + len(p.AllowedCertificatesSha256) + len(p.AllowedTeamIDs) + len(p.AllowedCDHashes); n > 0 {
					exempt = fmt.Sprintf("%d", n)
				}
				table.AddRow(p.Name, p.Path, match, mode, scope, exempt)
			}
			fmt.Print(table.Render())

			if !live {
				fmt.Println(theme.DefaultTheme.Muted.Render("(compiled locally; agent not running)"))
			}
			return nil
		},
	}
	return cmd
}

// loadPolicies returns the active policy list, preferring the running agent
// over a local compile. live reports which one answered.
func loadPolicies(cmd *cobra.Command) ([]*watch.Policy, bool, error) {
	client := agent.New(socketPathFromConfig(cmd))
	defer client.Close()
	if client.IsRunning() {
		policies, err := client.Rules(cmd.Context())
		if err == nil {
			return policies, true, nil
		}
		cli.GetLogger(cmd).WithError(err).Debug("Agent query failed, compiling rules locally")
	}

	source, err := resolveRulesSource(cmd, nil)
	if err != nil {
		return nil, false, err
	}
	raw, err := source.Load()
	if err != nil {
		return nil, false, err
	}
	policies, err := watch.ParseConfig(raw)
	if err != nil {
		return nil, false, err
	}
	return policies, false, nil
}

// socketPathFromConfig resolves the agent socket path, honoring a daemon
// section override in warden.yml.
func socketPathFromConfig(cmd *cobra.Command) string {
	cfg, _, err := cli.LoadConfig(cmd)
	if err == nil && cfg.Daemon != nil && cfg.Daemon.SocketPath != "" {
		return cfg.Daemon.SocketPath
	}
	return paths.SocketPath()
}
