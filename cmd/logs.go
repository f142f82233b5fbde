package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"
	"github.com/wardentools/core/cli"
	"github.com/wardentools/core/logging"
	"github.com/wardentools/core/pkg/logging/logutil"
	"github.com/wardentools/core/tui/theme"
)

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs [component]",
		Short: "Display and follow warden log files",
		Long: `Shows log output from warden components. Without an argument the most
recent log file is used; name a component (for example "wardend") to
read its logs specifically.

Examples:
  # Follow the daemon's log
  warden logs wardend -f

  # Last 100 lines from the newest log file
  warden logs --tail 100

  # Which components have logs?
  warden logs --list
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLogsE,
	}

	cmd.Flags().BoolP("follow", "f", false, "Follow log output")
	cmd.Flags().Int("tail", -1, "Number of lines to show from the end of the log (default: all)")
	cmd.Flags().Bool("list", false, "List components that have log files")

	return cmd
}

func runLogsE(cmd *cobra.Command, args []string) error {
	logger := cli.GetLogger(cmd)
	opts := cli.GetOptions(cmd)

	// The logging extension of warden.yml can point the sink somewhere else.
	var logCfg logging.Config
	if cfg, _, err := cli.LoadConfig(cmd); err == nil {
		_ = cfg.UnmarshalExtension("logging", &logCfg)
	}

	dir, err := logutil.LogDir(logCfg)
	if err != nil {
		return err
	}

	if list, _ := cmd.Flags().GetBool("list"); list {
		return listComponents(cmd, dir)
	}

	var logFile string
	if len(args) == 1 {
		logFile, err = logutil.FindComponentLog(dir, args[0])
	} else {
		logFile, err = logutil.FindLatestLogFile(dir)
	}
	if err != nil {
		return err
	}
	logger.WithField("log_file", logFile).Debug("Reading log file")

	follow, _ := cmd.Flags().GetBool("follow")
	tailLines, _ := cmd.Flags().GetInt("tail")
	jsonOutput := opts.JSONOutput

	// A limited backlog is printed directly; tailing then resumes from the end.
	startAt := &tail.SeekInfo{Offset: 0, Whence: io.SeekStart}
	if tailLines >= 0 {
		if err := printLastLines(logFile, tailLines, jsonOutput); err != nil {
			return err
		}
		if !follow {
			return nil
		}
		startAt = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(logFile, tail.Config{
		Follow:   follow,
		ReOpen:   follow, // survive rotation while following
		Location: startAt,
		Logger:   stdlog.New(io.Discard, "", 0),
	})
	if err != nil {
		return fmt.Errorf("cannot tail %s: %w", logFile, err)
	}
	defer t.Cleanup()

	go func() {
		<-cmd.Context().Done()
		_ = t.Stop()
	}()

	for line := range t.Lines {
		if line.Err != nil {
			logger.WithError(line.Err).Debug("Error reading log line")
			continue
		}
		printLogLine(line.Text, jsonOutput)
	}
	return nil
}

// listComponents prints the components that have log files in dir.
func listComponents(cmd *cobra.Command, dir string) error {
	components, err := logutil.Components(dir)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		data, err := json.MarshalIndent(components, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(components) == 0 {
		fmt.Println(cli.StatusLine("info", "No log files found in "+dir))
		return nil
	}
	for _, c := range components {
		fmt.Println(c)
	}
	return nil
}

// printLastLines prints the final n lines of a file.
func printLastLines(path string, n int, jsonOutput bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if n < len(lines) {
		lines = lines[len(lines)-n:]
	}
	for _, line := range lines {
		if line != "" {
			printLogLine(line, jsonOutput)
		}
	}
	return nil
}

// printLogLine prints one log line. JSON-formatted records (the "json"
// format preset) are pretty-printed for humans or passed through with
// --json; text records go out as-is.
func printLogLine(line string, jsonOutput bool) {
	var record map[string]interface{}
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		if jsonOutput {
			wrapped, _ := json.Marshal(map[string]interface{}{"raw_line": line})
			fmt.Println(string(wrapped))
			return
		}
		fmt.Println(line)
		return
	}

	if jsonOutput {
		fmt.Println(line)
		return
	}

	ts, _ := record["time"].(string)
	level, _ := record["level"].(string)
	msg, _ := record["msg"].(string)
	component, _ := record["component"].(string)

	parsedTime, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		parsedTime, _ = time.Parse(time.RFC3339, ts)
	}
	timeStr := parsedTime.Format("15:04:05")

	var levelStyle lipgloss.Style
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		levelStyle = theme.DefaultTheme.Error
	case "warning":
		levelStyle = theme.DefaultTheme.Warning
	case "info":
		levelStyle = theme.DefaultTheme.Info
	default:
		levelStyle = theme.DefaultTheme.Muted
	}

	var extraKeys []string
	for k := range record {
		switch k {
		case "time", "level", "msg", "component":
		default:
			extraKeys = append(extraKeys, k)
		}
	}
	sort.Strings(extraKeys)

	extras := make([]string, 0, len(extraKeys))
	for _, k := range extraKeys {
		extras = append(extras, fmt.Sprintf("%s=%v", theme.DefaultTheme.Muted.Render(k), record[k]))
	}

	fmt.Printf("%s %s [%s] %s %s\n",
		timeStr,
		levelStyle.Render(strings.ToUpper(level)),
		theme.DefaultTheme.Accent.Render(component),
		msg,
		strings.Join(extras, " "),
	)
}
