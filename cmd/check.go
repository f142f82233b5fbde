package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wardentools/core/cli"
	"github.com/wardentools/core/pkg/agent"
	"github.com/wardentools/core/tui/theme"
	"github.com/wardentools/core/watch"
)

// NewCheckCmd creates the `check` command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check PATH",
		Short: "Look up which watch rule governs a path",
		Long: `Runs the same longest-prefix lookup the agent performs for intercepted
filesystem events. When the agent is running the probe goes against its live
index; otherwise the configured rules source is compiled locally.

Examples:
  # Ask the running agent
  warden check /etc/passwd

  # Probe a candidate document offline
  warden check --rules /tmp/rules.yml /usr/bin/ls
`,
		Args: cobra.ExactArgs(1),
		RunE: runCheckE,
	}

	cmd.Flags().String("rules", "", "Check against a rules file instead of the running agent")
	cmd.Flags().Bool("local", false, "Compile the configured rules locally even if the agent is running")

	return cmd
}

func runCheckE(cmd *cobra.Command, args []string) error {
	path := args[0]
	rulesFile, _ := cmd.Flags().GetString("rules")
	local, _ := cmd.Flags().GetBool("local")

	var result *agent.CheckResult
	if rulesFile == "" && !local {
		if res, ok := checkViaAgent(cmd, path); ok {
			result = res
		}
	}
	if result == nil {
		res, err := checkLocally(cmd, path, rulesFile)
		if err != nil {
			return err
		}
		result = res
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		if !result.Matched {
			os.Exit(1)
		}
		return nil
	}

	if !result.Matched {
		fmt.Println(cli.StatusLine("info", fmt.Sprintf("%s is not covered by any watch rule", path)))
		os.Exit(1)
	}

	p := result.Policy
	mode := "exact"
	if p.IsPrefix {
		mode = "prefix"
	}
	enforce := theme.IconBlocked + " block"
	if p.AuditOnly {
		enforce = theme.IconAudited + " audit"
	}

	fmt.Println(cli.StatusLine("success", fmt.Sprintf("%s is governed by rule '%s'", path, p.Name)))
	kv := cli.NewKeyValues().
		Add("rule path", p.Path).
		Add("match", mode).
		Add("enforcement", enforce).
		Add("write only", fmt.Sprintf("%t", p.WriteOnly))
	if n := len(p.AllowedBinaryPaths) + len(p.AllowedCertificatesSha256) + len(p.AllowedTeamIDs) + len(p.AllowedCDHashes); n > 0 {
		kv.Add("exemptions", fmt.Sprintf("%d", n))
	}
	fmt.Print(kv.Render())
	return nil
}

// checkViaAgent probes the running agent. A missing or unreachable agent is
// not an error here; the caller falls back to a local lookup.
func checkViaAgent(cmd *cobra.Command, path string) (*agent.CheckResult, bool) {
	client := agent.New(socketPathFromConfig(cmd))
	defer client.Close()
	if !client.IsRunning() {
		return nil, false
	}

	result, err := client.Check(cmd.Context(), path)
	if err != nil {
		cli.GetLogger(cmd).WithError(err).Debug("Agent probe failed, falling back to local lookup")
		return nil, false
	}
	return result, true
}

func checkLocally(cmd *cobra.Command, path, rulesFile string) (*agent.CheckResult, error) {
	var args []string
	if rulesFile != "" {
		args = []string{rulesFile}
	}
	source, err := resolveRulesSource(cmd, args)
	if err != nil {
		return nil, err
	}

	raw, err := source.Load()
	if err != nil {
		return nil, err
	}
	policies, err := watch.ParseConfig(raw)
	if err != nil {
		return nil, err
	}
	index, _, err := watch.BuildIndex(policies)
	if err != nil {
		return nil, err
	}

	result := &agent.CheckResult{Path: path}
	if policy, ok := index.Find(path); ok {
		result.Matched = true
		result.Policy = policy
	}
	return result, nil
}
