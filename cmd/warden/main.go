package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/wardentools/core/cli"
	"github.com/wardentools/core/cmd"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"warden",
		"File access watch rules for the warden agent",
	)
	rootCmd.Long = `Warden guards sensitive files and directories. The agent compiles a
document of watch rules into a lookup index, keeps it hot-reloaded, and
answers policy queries over a unix socket. This CLI manages the agent
and inspects its state.`
	cli.SetVersionTemplate(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(cmd.NewWardendCmd())
	rootCmd.AddCommand(cmd.NewValidateCmd())
	rootCmd.AddCommand(cmd.NewCheckCmd())
	rootCmd.AddCommand(cmd.NewRulesCmd())
	rootCmd.AddCommand(cmd.NewMonitoredCmd())
	rootCmd.AddCommand(cmd.NewStatusCmd())
	rootCmd.AddCommand(cmd.NewLogsCmd())
	rootCmd.AddCommand(cmd.NewSchemaCmd())
	rootCmd.AddCommand(cmd.NewPathsCmd())
	rootCmd.AddCommand(cli.NewVersionCommand("warden"))
	cli.ApplyStyledHelpRecursive(rootCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		cli.NewErrorHandler(verbose).Handle(err)
		os.Exit(cli.ExitCode(err))
	}
}
