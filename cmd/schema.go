package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wardentools/core/config"
	"github.com/wardentools/core/watch"
)

// NewSchemaCmd creates the `schema` command.
func NewSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "schema [config|rules]",
		Short:     "Print a JSON schema for warden documents",
		ValidArgs: []string{"config", "rules"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		Long: `Prints the JSON schema that warden validates documents against.
Point your editor's YAML language server at it for completion and
inline validation.

Examples:
  # Schema for the rules document (default)
  warden schema rules

  # Schema for warden.yml
  warden schema config > warden.schema.json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			which := "rules"
			if len(args) == 1 {
				which = args[0]
			}

			var (
				data []byte
				err  error
			)
			switch which {
			case "config":
				data, err = config.GenerateSchema()
			default:
				data, err = watch.GenerateRulesSchema()
			}
			if err != nil {
				return fmt.Errorf("failed to generate %s schema: %w", which, err)
			}
			fmt.Println(string(data))
			return nil
		},
	}
	return cmd
}
