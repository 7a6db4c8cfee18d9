package node

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/logwindow/internal/logwatch"
	"github.com/roach88/logwindow/internal/rpc"
	"github.com/roach88/logwindow/internal/testutil"
)

func TestNode_DebugLogPath(t *testing.T) {
	n := New(testutil.NewFakeCaller(nil), "/data")
	assert.Equal(t, "/data/regtest/debug.log", n.DebugLogPath())

	n = New(testutil.NewFakeCaller(nil), "/data", WithNetwork("signet"))
	assert.Equal(t, "/data/signet/debug.log", n.DebugLogPath())
	assert.Equal(t, "/data/signet/debug.log", n.Watcher().Path())
}

func TestNode_CallForwards(t *testing.T) {
	caller := testutil.NewFakeCaller(nil).On("getblockcount", 12)
	n := New(caller, t.TempDir())

	raw, err := n.Call(context.Background(), "getblockcount")
	require.NoError(t, err)
	assert.JSONEq(t, "12", string(raw))
	assert.Same(t, caller, n.RPC())
}

func TestNode_AssertDebugLog(t *testing.T) {
	datadir, log := testutil.NewDebugLog(t, "regtest")
	log.Println("startup noise", "Misbehaving peer=0")

	caller := testutil.NewFakeCaller(log).
		On("addnode", nil, "Added connection to 127.0.0.1:18444 peer=1")
	n := New(caller, datadir)

	n.AssertDebugLog(t, logwatch.Expectations{
		Expected:   []string{"Added connection to 127.0.0.1:18444"},
		Unexpected: []string{"Misbehaving"},
	}, func() {
		_, err := n.Call(context.Background(), "addnode", "127.0.0.1:18444", "onetry")
		require.NoError(t, err)
	})
}

func TestNode_WatchDebugLog_RPCErrorVersusAssertion(t *testing.T) {
	datadir, log := testutil.NewDebugLog(t, "regtest")
	caller := testutil.NewFakeCaller(log).
		On("sendrawtransaction", "txid", "AcceptToMemoryPool: mempool-full")
	n := New(caller, datadir)

	// Remote failure with a clean window: only the RPC error.
	err := n.WatchDebugLog(logwatch.Expectations{}, func() error {
		_, err := n.Call(context.Background(), "nosuchmethod")
		return err
	})
	var remoteErr *rpc.RemoteError
	assert.True(t, errors.As(err, &remoteErr))
	assert.False(t, logwatch.IsAssertion(err))

	// Successful call whose log violates the window: assertion only.
	err = n.WatchDebugLog(logwatch.Expectations{Unexpected: []string{"mempool-full"}}, func() error {
		_, err := n.Call(context.Background(), "sendrawtransaction", "00")
		return err
	})
	assert.True(t, logwatch.IsAssertion(err))
	assert.False(t, errors.As(err, &remoteErr))
}
