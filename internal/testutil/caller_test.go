package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/logwindow/internal/rpc"
)

func TestFakeCaller_WritesLogAndReturnsResult(t *testing.T) {
	_, log := NewDebugLog(t, "regtest")
	caller := NewFakeCaller(log).On("getblockcount", 7, "getblockcount served")

	var count int
	err := rpc.CallInto(context.Background(), caller, "getblockcount", &count)
	require.NoError(t, err)
	assert.Equal(t, 7, count)

	data, err := os.ReadFile(log.Path)
	require.NoError(t, err)
	assert.Equal(t, "getblockcount served\n", string(data))
	assert.Equal(t, []RecordedCall{{Method: "getblockcount"}}, caller.Calls())
}

func TestFakeCaller_Fail(t *testing.T) {
	_, log := NewDebugLog(t, "regtest")
	boom := errors.New("boom")
	caller := NewFakeCaller(log).Fail("stop", boom, "Shutdown requested")

	_, err := caller.Call(context.Background(), "stop")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(len("Shutdown requested\n")), log.Size())
}

func TestFakeCaller_UnknownMethod(t *testing.T) {
	caller := NewFakeCaller(nil)

	_, err := caller.Call(context.Background(), "nosuch", 1)
	var remoteErr *rpc.RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, -32601, remoteErr.Code)
}

func TestDebugLog_Layout(t *testing.T) {
	datadir, log := NewDebugLog(t, "regtest")
	assert.Equal(t, filepath.Join(datadir, "regtest", "debug.log"), log.Path)
	assert.Equal(t, int64(0), log.Size())

	log.Write("partial")
	log.Println("-line")
	assert.Equal(t, int64(len("partial-line\n")), log.Size())
}
