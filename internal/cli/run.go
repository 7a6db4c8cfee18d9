package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/logwindow/internal/harness"
	"github.com/roach88/logwindow/internal/node"
	"github.com/roach88/logwindow/internal/rpc"
	"github.com/roach88/logwindow/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// Caller overrides the JSON-RPC client built from config (for testing).
	Caller rpc.Caller
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// RunResult holds the overall run result.
type RunResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>...",
		Short: "Run scenarios against a node",
		Long: `Run scenario files against the node configured in the config file.

Each step's RPC call runs inside its own debug log window. A failing step does
not stop the scenario; all failures are reported at the end.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid scenario, unreadable log, etc.)

Examples:
  logwindow run scenarios/addnode.yaml
  logwindow run --db windows.db scenarios/*.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record windows into this SQLite database (overrides config store)")

	return cmd
}

func runScenarios(opts *RunOptions, files []string, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := opts.logger(cmd.ErrOrStderr())

	scenarios := make([]*harness.Scenario, 0, len(files))
	for _, file := range files {
		s, err := harness.LoadScenario(file)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to load scenario %s", file), err)
		}
		scenarios = append(scenarios, s)
	}

	caller := opts.Caller
	if caller == nil {
		caller = rpc.NewClient(cfg.RPC.URL, cfg.RPC.User, cfg.RPC.Password)
	}
	n := node.New(caller, cfg.Datadir, node.WithNetwork(cfg.Network), node.WithLogger(logger))

	runOpts := []harness.Option{harness.WithLogger(logger)}
	dbPath := opts.Database
	if dbPath == "" {
		dbPath = cfg.Store
	}
	if dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		runOpts = append(runOpts, harness.WithRecorder(st))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result := RunResult{Scenarios: []ScenarioResult{}}
	for i, s := range scenarios {
		logger.Debug("running scenario", "name", s.Name, "file", files[i])
		res, err := harness.Run(ctx, n, s, runOpts...)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("scenario %s", s.Name), err)
		}
		result.Scenarios = append(result.Scenarios, ScenarioResult{
			Name:   s.Name,
			File:   files[i],
			Pass:   res.Pass,
			Errors: res.Errors,
		})
		result.Total++
		if res.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if err := writeRunResult(opts, cmd, result, logger); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", result.Failed, result.Total))
	}
	return nil
}

func writeRunResult(opts *RunOptions, cmd *cobra.Command, result RunResult, logger *slog.Logger) error {
	out := opts.formatter(cmd)
	if opts.Format == "json" {
		if result.Failed > 0 {
			return out.Error(CodeScenario, "scenarios failed", result)
		}
		return out.Success(result)
	}

	w := cmd.OutOrStdout()
	for _, s := range result.Scenarios {
		status := "PASS"
		if !s.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s  %s (%s)\n", status, s.Name, s.File)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "    %s\n", strings.ReplaceAll(strings.TrimRight(e, "\n"), "\n", "\n    "))
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	logger.Debug("run finished", "passed", result.Passed, "failed", result.Failed)
	return nil
}
