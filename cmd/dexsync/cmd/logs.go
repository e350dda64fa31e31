package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/dexsync/internal/logging"
)

func newLogsCmd() *cobra.Command {
	var (
		lines    int
		level    string
		logFile  string
		pathOnly bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent entries from the debug log",
		Long: `Display the tail of the log file that --debug runs write to
(~/.dexsync/logs/dexsync.log by default).

Examples:
  dexsync logs                 # last 50 entries
  dexsync logs -n 200          # last 200 entries
  dexsync logs --level error   # errors only
  dexsync logs --path          # print the log file location`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogs(cmd, lines, level, logFile, pathOnly)
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of entries to show")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level to show (debug|info|warn|error)")
	cmd.Flags().StringVar(&logFile, "file", "", "Log file path (default ~/.dexsync/logs/dexsync.log)")
	cmd.Flags().BoolVar(&pathOnly, "path", false, "Print the log file path and exit")

	return cmd
}

func runLogs(cmd *cobra.Command, lines int, level, logFile string, pathOnly bool) error {
	out := cmd.OutOrStdout()

	if pathOnly {
		if logFile != "" {
			fmt.Fprintln(out, logFile)
			return nil
		}
		fmt.Fprintln(out, logging.DefaultLogPath())
		return nil
	}

	path, err := logging.FindLogFile(logFile)
	if err != nil {
		return err
	}

	entries, err := logging.Tail(path, lines, level)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Log file: %s\n---\n", path)
	for _, entry := range entries {
		fmt.Fprintln(out, entry.Format())
	}
	return nil
}
