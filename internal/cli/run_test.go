package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/logwindow/internal/logwatch"
	"github.com/roach88/logwindow/internal/store"
	"github.com/roach88/logwindow/internal/testutil"
)

const passingScenario = `name: ping_logs_pong
description: ping writes pong to the log
steps:
  - call: ping
    log:
      expected_msgs: ["pong"]
`

const failingScenario = `name: ping_quiet
description: ping must not log pong
steps:
  - call: ping
    log:
      unexpected_msgs: ["pong"]
  - call: getblockcount
`

func writeScenario(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// runScenarioFiles executes the run command against a scripted node.
func runScenarioFiles(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	datadir, log := testutil.NewDebugLog(t, "regtest")
	caller := testutil.NewFakeCaller(log).
		On("ping", nil, "pong").
		On("getblockcount", 7)

	cmd := newRunCommand(&RunOptions{
		RootOptions: &RootOptions{Format: format, ConfigPath: writeConfig(t, datadir, "")},
		Caller:      caller,
	})
	return executeCmd(t, cmd, args...)
}

func TestRunCommand_Pass(t *testing.T) {
	file := writeScenario(t, "pass.yaml", passingScenario)

	out, err := runScenarioFiles(t, "text", file)
	require.NoError(t, err)
	assert.Contains(t, out, "PASS  ping_logs_pong")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestRunCommand_Failure(t *testing.T) {
	pass := writeScenario(t, "pass.yaml", passingScenario)
	fail := writeScenario(t, "fail.yaml", failingScenario)

	out, err := runScenarioFiles(t, "text", pass, fail)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL  ping_quiet")
	assert.Contains(t, out, `step 0 (ping): Unexpected message "pong" matched log`)
	assert.Contains(t, out, "1 passed, 1 failed, 2 total")
}

func TestRunCommand_JSONFailure(t *testing.T) {
	fail := writeScenario(t, "fail.yaml", failingScenario)

	out, err := runScenarioFiles(t, "json", fail)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, `"status":"error"`)
	assert.Contains(t, out, `"code":"E002"`)
}

func TestRunCommand_InvalidScenario(t *testing.T) {
	bad := writeScenario(t, "bad.yaml", "name: x\n")

	_, err := runScenarioFiles(t, "text", bad)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load scenario")
}

func TestRunCommand_RecordsWindows(t *testing.T) {
	db := filepath.Join(t.TempDir(), "windows.db")
	file := writeScenario(t, "fail.yaml", failingScenario)

	_, err := runScenarioFiles(t, "text", "--db", db, file)
	require.Error(t, err)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	records, err := st.ListWindows(context.Background(), store.Filter{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, logwatch.KindUnexpectedFound, records[0].Outcome)
	assert.True(t, records[1].Passed())
}
