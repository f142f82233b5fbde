package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wardentools/core/cli"
	"github.com/wardentools/core/watch"
)

// NewValidateCmd creates the `validate` command.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [rules-file]",
		Short: "Check a watch rules document without applying it",
		Long: `Parses and compiles a rules document exactly the way the agent does on
reload, reporting the first problem found. With no argument the rules source
configured in warden.yml is validated.

Examples:
  # Validate the configured rules source
  warden validate

  # Validate a candidate document before deploying it
  warden validate /tmp/rules.yml
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := resolveRulesSource(cmd, args)
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
			index, monitored, err := watch.BuildIndex(policies)
			if err != nil {
				return err
			}

			version, _ := raw["version"].(string)
			fmt.Println(cli.StatusLine("success", fmt.Sprintf("%s is valid", source.Locator())))
			fmt.Print(cli.NewKeyValues().
				Add("version", version).
				Add("rules", fmt.Sprintf("%d", index.Len())).
				Add("monitored paths", fmt.Sprintf("%d", len(monitored))).
				Render())
			return nil
		},
	}
	return cmd
}

// resolveRulesSource picks the rules source for offline commands: an explicit
// file argument wins, otherwise the source configured in warden.yml.
func resolveRulesSource(cmd *cobra.Command, args []string) (watch.RulesSource, error) {
	if len(args) > 0 {
		return watch.NewFileSource(args[0])
	}

	cfg, _, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Watch.RulesPath != "" {
		return watch.NewFileSource(cfg.Watch.RulesPath)
	}
	return watch.NewStaticSource(cfg.Watch.Rules), nil
}
