package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/wardentools/core/cli"
	"github.com/wardentools/core/internal/agent"
	"github.com/wardentools/core/internal/agent/pidfile"
	"github.com/wardentools/core/internal/agent/server"
	"github.com/wardentools/core/logging"
	"github.com/wardentools/core/pkg/paths"
	"github.com/wardentools/core/pkg/process"
	"github.com/wardentools/core/pkg/profiling"
)

// NewWardendCmd returns the wardend daemon command with subcommands.
func NewWardendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wardend",
		Short: "Warden agent daemon",
		Long: `Runs the warden agent: loads the watch rules, keeps them reloaded on a
periodic schedule and on rules-file changes, and serves the policy API on a
unix socket for interceptors and the warden CLI.`,
	}

	profiler := profiling.NewCobraProfiler()
	profiler.AddFlags(cmd)
	cmd.PersistentPreRunE = profiler.PreRun
	cmd.PersistentPostRun = profiler.PostRun

	cmd.AddCommand(newWardendStartCmd())
	cmd.AddCommand(newWardendStopCmd())
	cmd.AddCommand(newWardendStatusCmd())

	return cmd
}

func newWardendStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the agent",
		Long:  "Start the warden agent in foreground mode.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger("wardend")
			ulog := logging.NewUnifiedLogger("wardend")

			cfg, configFile, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			pidPath := cfg.Daemon.PidPath
			if pidPath == "" {
				pidPath = paths.PidFilePath()
			}
			sockPath := cfg.Daemon.SocketPath
			if sockPath == "" {
				sockPath = paths.SocketPath()
			}

			// 1. Acquire the pidfile lock
			if err := pidfile.Acquire(pidPath); err != nil {
				return err
			}
			defer func() {
				if err := pidfile.Release(pidPath); err != nil {
					logger.Errorf("Failed to release pidfile: %v", err)
				}
			}()

			// 2. Build the agent around the configured rules source
			ag, err := agent.New(cfg, configFile)
			if err != nil {
				return err
			}

			srv := server.New(ag, logger)

			// 3. Handle signals
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			go func() {
				<-stop
				ulog.Status("Stopping warden agent").Log()
				cancel()

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()

				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Errorf("Server shutdown error: %v", err)
				}
				if err := ag.Close(); err != nil {
					logger.Errorf("Agent shutdown error: %v", err)
				}

				// Explicitly release pidfile before exit in signal handler
				_ = pidfile.Release(pidPath)
				os.Exit(0)
			}()

			// 4. Compile the rules once before the API comes up. A rejected
			// document is not fatal: the agent starts with no active rules
			// and picks the document up once it is fixed.
			if err := ag.Store().Reload(); err != nil {
				ulog.Warn("Watch rules rejected, starting with no active rules").Err(err).Log()
			} else {
				ulog.Success("Watch rules active").
					Field("rules", ag.Store().RuleCount()).
					Field("source", ag.Store().Source().Locator()).
					Log()
			}

			// 5. Start the reload schedule and rules watcher
			if err := ag.Start(ctx); err != nil {
				return err
			}

			// 6. Serve the policy API (blocking)
			ulog.Progress("Starting warden agent").
				Field("pid", os.Getpid()).
				Field("socket", sockPath).
				Log()
			if err := srv.ListenAndServe(sockPath); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
}

func newWardendStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			pidPath := paths.PidFilePath()

			running, pid, err := pidfile.IsRunning(pidPath)
			if err != nil {
				return fmt.Errorf("error checking status: %w", err)
			}

			if !running {
				fmt.Println("Agent is not running")
				return nil
			}

			if err := process.Terminate(pid); err != nil {
				return fmt.Errorf("failed to send stop signal: %w", err)
			}

			fmt.Printf("Sent SIGTERM to process %d\n", pid)
			return nil
		},
	}
}

func newWardendStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check agent liveness",
		RunE: func(cmd *cobra.Command, args []string) error {
			pidPath := paths.PidFilePath()
			running, pid, err := pidfile.IsRunning(pidPath)

			if err != nil {
				return fmt.Errorf("error: %w", err)
			}

			if running {
				fmt.Printf("Running (PID: %d)\nSocket: %s\n", pid, paths.SocketPath())
			} else {
				fmt.Println("Stopped")
				os.Exit(1) // Non-zero for stopped state (useful for scripts)
			}
			return nil
		},
	}
}
