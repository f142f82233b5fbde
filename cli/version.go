package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wardentools/core/tui/theme"
	"github.com/wardentools/core/version"
)

// SetVersionTemplate wires the build info into cobra's --version output.
func SetVersionTemplate(cmd *cobra.Command) {
	info := version.GetInfo()
	cmd.Version = info.Version
	cmd.SetVersionTemplate(fmt.Sprintf(`{{.Name}} {{.Version}}
  Commit:    %s
  Built:     %s
  Platform:  %s
`, info.Commit, info.BuildDate, info.Platform))
}

// NewVersionCommand creates a standard version command
func NewVersionCommand(componentName string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: fmt.Sprintf("Print the version of %s", componentName),
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.GetInfo()

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			t := theme.DefaultTheme
			fmt.Printf("%s %s\n", t.Bold.Render(componentName), t.Highlight.Render(info.Version))
			fmt.Println(t.Muted.Render(fmt.Sprintf("commit %s (%s), built %s", info.Commit, info.Branch, info.BuildDate)))
			fmt.Println(t.Muted.Render(fmt.Sprintf("%s %s", info.GoVersion, info.Platform)))
			return nil
		},
	}
	return cmd
}
