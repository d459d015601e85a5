package cli

import (
	"errors"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/idelchi/sharestat/internal/sharestat"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Execute runs the CLI with the provided arguments.
func (c CLI) Execute() error {
	root := &cobra.Command{
		Use:   "sharestat",
		Short: "Enumerate host shares and report per-share tree statistics",
		Long: heredoc.Doc(`
			sharestat enumerates the file shares a host exposes and reports
			aggregate tree statistics for each one.

			The snapshot command queries the host's share table and persists
			the surviving {Name, Path} pairs as JSON. The report command reads
			a snapshot back, walks each share's tree in order, and exports
			total size, file count and folder count per share to CSV, with
			any per-share failures collected into a timestamped error log.
		`),
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSnapshotCommand(), newReportCommand())

	return root.Execute()
}

var snapshotArgs struct {
	Excludes []string
}

func newSnapshotCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "snapshot [dir]",
		Short: "Enumerate host shares and write a JSON snapshot",
		Long: heredoc.Doc(`
			Snapshot queries the host's share table, drops any share whose
			name is on the exclude list, and writes the remaining
			{Name, Path} pairs to shares_<hostname>.json in the target
			directory, creating it if absent. An existing snapshot for the
			same host is overwritten.
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: snapshotCmdRun,
	}

	command.Flags().StringSliceVarP(
		&snapshotArgs.Excludes,
		"exclude",
		"e",
		sharestat.DefaultExcludes,
		"Share names to exclude (case-insensitive)",
	)

	return command
}

func snapshotCmdRun(_ *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	path, err := sharestat.CreateSnapshot(sharestat.HostLister(), dir, snapshotArgs.Excludes)
	if err != nil {
		return err
	}

	log.WithField("path", path).Info("snapshot complete")

	return nil
}

var reportArgs struct {
	OutputDir     string
	BaseName      string
	Excludes      []string
	First         int
	Pause         time.Duration
	Strict        bool
	SkipLongPaths bool
	Debug         bool
}

func newReportCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "report <snapshot>",
		Short: "Walk the snapshotted shares and export statistics to CSV",
		Long: heredoc.Doc(`
			Report reads a snapshot file, walks each listed share's tree and
			aggregates total byte size, file count and folder count per
			share. Results go to <name>.csv in the output directory;
			failures go to a timestamped <name>_errors_<timestamp>.json so
			repeated runs never clobber earlier logs. A transcript of the
			run's log output is written alongside them.

			By default unreadable subtrees are simply absent from the
			counts. With --strict a single unreadable entry fails that
			share's walk and routes it to the error log; the remaining
			shares still complete.

			With --first N only the first N shares of the snapshot are
			walked, with a pause between shares.
		`),
		Args: cobra.ExactArgs(1),
		RunE: reportCmdRun,
	}

	command.Flags().StringVarP(&reportArgs.OutputDir, "output-dir", "o", ".", "Directory for the report, error log and transcript")
	command.Flags().StringVarP(&reportArgs.BaseName, "name", "n", sharestat.DefaultBaseName, "Base name for output files")
	command.Flags().StringSliceVarP(&reportArgs.Excludes, "exclude", "e", sharestat.DefaultExcludes, "Share names to exclude (case-insensitive)")
	command.Flags().IntVarP(&reportArgs.First, "first", "f", 0, "Walk only the first N shares (0=all)")
	command.Flags().DurationVar(&reportArgs.Pause, "pause", sharestat.DefaultPause, "Pause between shares in first-N mode")
	command.Flags().BoolVar(&reportArgs.Strict, "strict", false, "Fail a share's walk on the first unreadable entry")
	command.Flags().BoolVar(&reportArgs.SkipLongPaths, "skip-long-paths", false, "Skip shares whose path meets the long-path limit instead of walking them")
	command.Flags().BoolVar(&reportArgs.Debug, "debug", false, "Enable debug output")

	return command
}

func reportCmdRun(cmd *cobra.Command, args []string) error {
	if reportArgs.First < 0 {
		return errors.New("first cannot be negative")
	}

	opts := sharestat.Options{
		SnapshotPath:  args[0],
		OutputDir:     reportArgs.OutputDir,
		BaseName:      reportArgs.BaseName,
		Excludes:      reportArgs.Excludes,
		First:         reportArgs.First,
		Pause:         reportArgs.Pause,
		SkipLongPaths: reportArgs.SkipLongPaths,
	}

	if reportArgs.Strict {
		opts.Policy = sharestat.PolicyAbortOnUnreadable
	}

	return logic(cmd.Context(), opts, reportArgs.Debug)
}
