package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/logwindow/internal/logwatch"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	From       int64
	Expected   []string
	Unexpected []string
}

// CheckResult is the output of the check command.
type CheckResult struct {
	Path        string `json:"path"`
	StartOffset int64  `json:"start_offset"`
	EndOffset   int64  `json:"end_offset"`
	Pass        bool   `json:"pass"`
	Kind        string `json:"kind,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check expectations against a log window",
		Long: `Check the debug log from --from to its current end.

Every --expect message must occur in the window and no --unexpect message may.
Messages are literal text. The first violation is reported together with the
window contents.

Exit codes:
  0 - window satisfied all expectations
  1 - assertion failed
  2 - command error (unreadable log, bad config)

Examples:
  logwindow check --from 1024 --expect "Added connection"
  logwindow check --from 1024 --unexpect Misbehaving --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.From, "from", 0, "window start offset (required)")
	_ = cmd.MarkFlagRequired("from")
	cmd.Flags().StringArrayVar(&opts.Expected, "expect", nil, "message that must appear (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Unexpected, "unexpect", nil, "message that must not appear (repeatable)")

	return cmd
}

func runCheck(opts *CheckOptions, cmd *cobra.Command) error {
	if opts.From < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--from must be non-negative, got %d", opts.From))
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	path := cfg.LogPath()
	data, err := logwatch.ReadFrom(path, opts.From)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read log window", err)
	}

	result := CheckResult{
		Path:        path,
		StartOffset: opts.From,
		EndOffset:   opts.From + int64(len(data)),
		Pass:        true,
	}

	out := opts.formatter(cmd)
	out.VerboseLog("checking %s [%d, %d)", path, result.StartOffset, result.EndOffset)

	checkErr := logwatch.Check(string(data), logwatch.Expectations{
		Expected:   opts.Expected,
		Unexpected: opts.Unexpected,
	})
	var assertErr *logwatch.AssertionError
	if errors.As(checkErr, &assertErr) {
		result.Pass = false
		result.Kind = assertErr.Kind
		result.Pattern = assertErr.Pattern
		if err := out.Error(CodeAssertion, assertErr.Error(), result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "log window assertion failed")
	}

	if opts.Format == "json" {
		return out.Success(result)
	}
	return out.Success(fmt.Sprintf("ok: %d bytes checked", result.EndOffset-result.StartOffset))
}
