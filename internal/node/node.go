// Package node models one process under test: its data directory, its debug
// log and the RPC caller used to drive it.
package node

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/roach88/logwindow/internal/logwatch"
	"github.com/roach88/logwindow/internal/rpc"
)

// Option configures a TestNode.
type Option func(*TestNode)

// WithNetwork sets the network subdirectory holding the debug log.
func WithNetwork(network string) Option {
	return func(n *TestNode) {
		n.Network = network
	}
}

// WithWatcherOptions passes options to the node's log watcher.
func WithWatcherOptions(opts ...logwatch.Option) Option {
	return func(n *TestNode) {
		n.watcherOpts = append(n.watcherOpts, opts...)
	}
}

// WithLogger sets the logger of the node's log watcher.
func WithLogger(logger *slog.Logger) Option {
	return func(n *TestNode) {
		n.watcherOpts = append(n.watcherOpts, logwatch.WithLogger(logger))
	}
}

// TestNode is a process under test. RPCs are forwarded explicitly to the
// wrapped caller; log assertions go through a logwatch.Watcher on the node's
// debug log.
type TestNode struct {
	Datadir string
	Network string

	rpc         rpc.Caller
	watcher     *logwatch.Watcher
	watcherOpts []logwatch.Option
}

// New creates a TestNode for the process whose data directory is datadir.
func New(caller rpc.Caller, datadir string, opts ...Option) *TestNode {
	n := &TestNode{
		Datadir: datadir,
		Network: logwatch.DefaultNetwork,
		rpc:     caller,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.watcher = logwatch.NewWatcher(n.DebugLogPath(), n.watcherOpts...)
	return n
}

// RPC returns the caller the node forwards to.
func (n *TestNode) RPC() rpc.Caller {
	return n.rpc
}

// Call forwards a remote procedure call to the process under test.
func (n *TestNode) Call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	return n.rpc.Call(ctx, method, params...)
}

// DebugLogPath returns <datadir>/<network>/debug.log.
func (n *TestNode) DebugLogPath() string {
	return logwatch.DebugLogPath(n.Datadir, n.Network)
}

// Watcher returns the watcher on the node's debug log.
func (n *TestNode) Watcher() *logwatch.Watcher {
	return n.watcher
}

// AssertDebugLog runs fn and fails t unless the node logged every expected
// message and none of the unexpected ones while fn ran.
func (n *TestNode) AssertDebugLog(t logwatch.TB, exp logwatch.Expectations, fn func()) {
	t.Helper()
	n.watcher.AssertLog(t, exp, fn)
}

// WatchDebugLog is AssertDebugLog for callers outside a test: violations are
// returned as *logwatch.AssertionError.
func (n *TestNode) WatchDebugLog(exp logwatch.Expectations, fn func() error) error {
	return n.watcher.Watch(exp, fn)
}
