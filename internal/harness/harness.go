package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/logwindow/internal/logwatch"
	"github.com/roach88/logwindow/internal/node"
	"github.com/roach88/logwindow/internal/rpc"
	"github.com/roach88/logwindow/internal/testutil"
)

// Option configures a scenario run.
type Option func(*Harness)

// WithLogger sets the run logger. Runs are silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// WithRecorder records every window of the run, e.g. into a store.Store.
func WithRecorder(r logwatch.Recorder) Option {
	return func(h *Harness) {
		h.recorder = r
	}
}

// Harness executes one scenario against one node.
type Harness struct {
	node     *node.TestNode
	watcher  *logwatch.Watcher
	clock    *testutil.DeterministicClock
	logger   *slog.Logger
	recorder logwatch.Recorder
}

// Run executes scenario against n and returns the result.
//
// A returned error means the run itself could not proceed (for example the
// debug log is unreadable). Window violations, unexpected RPC outcomes and
// failed trace assertions are reported in Result.Errors instead.
func Run(ctx context.Context, n *node.TestNode, scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{
		node:   n,
		clock:  testutil.NewDeterministicClock(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}

	network := scenario.Network
	if network == "" {
		network = n.Network
	}
	watcherOpts := []logwatch.Option{logwatch.WithLogger(h.logger)}
	if h.recorder != nil {
		watcherOpts = append(watcherOpts, logwatch.WithRecorder(h.recorder))
	}
	h.watcher = logwatch.NewWatcher(logwatch.DebugLogPath(n.Datadir, network), watcherOpts...)

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Call, err)
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	h.logger.Info("scenario finished",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"errors", len(result.Errors),
	)
	return result, nil
}

// executeStep runs one call inside its log window. The RPC error is captured
// outside the window and checked separately from the log.
func (h *Harness) executeStep(ctx context.Context, i int, step Step, result *Result) error {
	var callErr error
	windowErr := h.watcher.Watch(step.Log, func() error {
		_, callErr = h.node.Call(ctx, step.Call, step.Params...)
		return nil
	})

	var assertErr *logwatch.AssertionError
	if windowErr != nil && !errors.As(windowErr, &assertErr) {
		return windowErr
	}

	callMsg := ""
	if callErr != nil {
		callMsg = callErr.Error()
	}
	result.AddCallTrace(step.Call, step.Params, callMsg, h.clock.Next())

	if msg := checkCallOutcome(step, callErr); msg != "" {
		result.AddError(fmt.Sprintf("step %d (%s): %s", i, step.Call, msg))
	}

	if assertErr != nil {
		result.AddWindowTrace(step.Call, assertErr.Kind, assertErr.Pattern, h.clock.Next())
		result.AddError(fmt.Sprintf("step %d (%s): %s", i, step.Call, assertErr.Error()))
	} else {
		result.AddWindowTrace(step.Call, logwatch.OutcomePass, "", h.clock.Next())
	}

	h.logger.Info("step completed",
		"step", i,
		"call", step.Call,
		"call_error", callMsg,
		"window_ok", assertErr == nil,
	)
	return nil
}

// checkCallOutcome compares the remote result with the step's expectation and
// returns a failure message, or "".
func checkCallOutcome(step Step, callErr error) string {
	if !step.ExpectError {
		if callErr != nil {
			return fmt.Sprintf("unexpected rpc error: %v", callErr)
		}
		return ""
	}

	if callErr == nil {
		return "expected rpc error, call succeeded"
	}
	var remoteErr *rpc.RemoteError
	if !errors.As(callErr, &remoteErr) {
		return fmt.Sprintf("expected remote error, got transport error: %v", callErr)
	}
	if step.ErrorCode != 0 && remoteErr.Code != step.ErrorCode {
		return fmt.Sprintf("expected error code %d, got %d (%s)", step.ErrorCode, remoteErr.Code, remoteErr.Message)
	}
	return ""
}
