package cli

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/logwindow/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database   string
	LogPath    string
	FailedOnly bool
	Limit      int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded log windows",
		Long: `List windows recorded by "run --db", oldest first.

Examples:
  logwindow history --db windows.db
  logwindow history --db windows.db --failed
  logwindow history --db windows.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.LogPath, "log", "", "only windows over this log file")
	cmd.Flags().BoolVar(&opts.FailedOnly, "failed", false, "only windows that failed")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of windows (0 = all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	records, err := st.ListWindows(ctx, store.Filter{
		LogPath:    opts.LogPath,
		FailedOnly: opts.FailedOnly,
		Limit:      opts.Limit,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list windows", err)
	}

	out := opts.formatter(cmd)
	if opts.Format == "json" {
		return out.Success(records)
	}
	if len(records) == 0 {
		return out.Success("No windows recorded.")
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.FormatInt(r.Seq, 10),
			r.ClosedAt.Format(time.RFC3339),
			strconv.FormatInt(r.StartOffset, 10) + "-" + strconv.FormatInt(r.EndOffset, 10),
			r.Outcome,
			r.Pattern,
			strings.Join(r.Expected, ", "),
			strings.Join(r.Unexpected, ", "),
		})
	}
	return out.Table([]string{"seq", "closed", "bytes", "outcome", "pattern", "expected", "unexpected"}, rows)
}
