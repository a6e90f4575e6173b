package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	appconfig "github.com/Iron-Ham/padlog/internal/config"
	"github.com/Iron-Ham/padlog/internal/session"
	"github.com/Iron-Ham/padlog/internal/util"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved recordings",
	Long: `List the CSV and Parquet files in capture.save_dir, newest first.

With --inspect each file is opened to count its rows and columns.
Also reports whether a recording is currently in progress.`,
	Args: cobra.NoArgs,
	RunE: runSessions,
}

var (
	sessionsDir     string
	sessionsInspect bool
)

func init() {
	sessionsCmd.Flags().StringVar(&sessionsDir, "dir", "", "directory to list (default from capture.save_dir)")
	sessionsCmd.Flags().BoolVar(&sessionsInspect, "inspect", false, "read each file to count rows and columns")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if lock, locked := session.IsLocked(appconfig.ConfigDir()); locked {
		fmt.Fprintf(out, "Recording in progress: PID %d on %s since %s",
			lock.PID, lock.Hostname, lock.StartedAt.Format(time.Kitchen))
		if lock.Device != "" {
			fmt.Fprintf(out, " (%s)", lock.Device)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out)
	}

	dir := sessionsDir
	if dir == "" {
		dir = appconfig.Get().Capture.SaveDir
	}

	infos, err := session.ListSessions(dir)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintf(out, "No recordings in %s\n", dir)
		return nil
	}

	fmt.Fprintf(out, "%-32s %-8s %10s  %-16s", "NAME", "FORMAT", "SIZE", "MODIFIED")
	if sessionsInspect {
		fmt.Fprintf(out, " %8s %8s", "ROWS", "COLUMNS")
	}
	fmt.Fprintln(out)

	for _, info := range infos {
		fmt.Fprintf(out, "%s %-8s %10s  %-16s",
			util.FitANSI(info.Name, 32), info.Format, util.HumanBytes(info.Size), info.ModTime.Format("2006-01-02 15:04"))
		if sessionsInspect {
			if err := session.Inspect(info); err != nil {
				fmt.Fprintf(out, " unreadable: %v", err)
			} else {
				fmt.Fprintf(out, " %8d %8d", info.Rows, len(info.Columns))
			}
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "\n%d recording(s) in %s\n", len(infos), dir)
	return nil
}
