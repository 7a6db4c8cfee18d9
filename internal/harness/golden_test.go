package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/logwindow/internal/logwatch"
	"github.com/roach88/logwindow/internal/node"
	"github.com/roach88/logwindow/internal/rpc"
	"github.com/roach88/logwindow/internal/testutil"
)

func TestRunWithGolden_NodeRPCWindows(t *testing.T) {
	datadir, log := testutil.NewDebugLog(t, "regtest")
	caller := testutil.NewFakeCaller(log).
		On("getblockcount", 0).
		On("addnode", nil, "Added connection peer=0").
		Fail("submitblock",
			&rpc.RemoteError{Method: "submitblock", Code: -22, Message: "Block decode failed"},
			"ERROR: block decode failed")

	scenario := &Scenario{
		Name:        "node_rpc_windows",
		Description: "calls with passing windows",
		Steps: []Step{
			{Call: "getblockcount"},
			{
				Call:   "addnode",
				Params: []any{"127.0.0.1:18444", "onetry"},
				Log:    logwatch.Expectations{Expected: []string{"Added connection"}},
			},
			{
				Call:        "submitblock",
				Params:      []any{"00"},
				ExpectError: true,
				ErrorCode:   -22,
				Log:         logwatch.Expectations{Unexpected: []string{"Misbehaving"}},
			},
		},
	}

	// Regenerate with: go test ./internal/harness -run TestRunWithGolden -update
	result, err := RunWithGolden(t, node.New(caller, datadir), scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}
