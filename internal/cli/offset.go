package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/logwindow/internal/logwatch"
)

// OffsetResult is the output of the offset command.
type OffsetResult struct {
	Path   string `json:"path"`
	Offset int64  `json:"offset"`
}

// NewOffsetCommand creates the offset command.
func NewOffsetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "offset",
		Short: "Print the current end offset of the debug log",
		Long: `Print the current size of the debug log in bytes.

Pass the value to "check --from" after running an action to check the window
the action produced.

Examples:
  logwindow offset
  logwindow offset --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOffset(rootOpts, cmd)
		},
	}
}

func runOffset(opts *RootOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	path := cfg.LogPath()
	offset, err := logwatch.Offset(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read log offset", err)
	}

	out := opts.formatter(cmd)
	if opts.Format == "json" {
		return out.Success(OffsetResult{Path: path, Offset: offset})
	}
	return out.Success(offset)
}
