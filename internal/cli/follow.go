package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/logwindow/internal/logwatch"
)

// FollowOptions holds flags for the follow command.
type FollowOptions struct {
	*RootOptions
	From int64
}

// NewFollowCommand creates the follow command.
func NewFollowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FollowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Stream lines appended to the debug log",
		Long: `Print every line appended to the debug log until interrupted.

With --from, lines already in the log after that offset are printed first.
Without it, following starts at the current end.

Examples:
  logwindow follow
  logwindow follow --from 0`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFollow(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.From, "from", -1, "start offset (default: current end)")

	return cmd
}

func runFollow(opts *FollowOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	path := cfg.LogPath()

	from := opts.From
	if from < 0 {
		from, err = logwatch.Offset(path)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read log offset", err)
		}
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts.formatter(cmd).VerboseLog("following %s from offset %d", path, from)

	w := cmd.OutOrStdout()
	err = logwatch.Follow(ctx, path, from, func(line string) {
		fmt.Fprintln(w, line)
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "follow failed", err)
	}
	return nil
}
