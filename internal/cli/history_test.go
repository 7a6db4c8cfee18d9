package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/logwindow/internal/logwatch"
	"github.com/roach88/logwindow/internal/store"
)

func seedHistory(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "windows.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	closed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	windows := []logwatch.Window{
		{
			SessionID:    "s1",
			Path:         "/d/regtest/debug.log",
			StartOffset:  0,
			EndOffset:    10,
			Expectations: logwatch.Expectations{Expected: []string{"Added connection"}},
			Outcome:      logwatch.OutcomePass,
			ClosedAt:     closed,
		},
		{
			SessionID:    "s2",
			Path:         "/d/regtest/debug.log",
			StartOffset:  10,
			EndOffset:    30,
			Expectations: logwatch.Expectations{Unexpected: []string{"Misbehaving"}},
			Outcome:      logwatch.KindUnexpectedFound,
			Pattern:      "Misbehaving",
			ClosedAt:     closed.Add(time.Second),
		},
	}
	for _, w := range windows {
		require.NoError(t, st.RecordWindow(context.Background(), w))
	}
	return path
}

func TestHistoryCommand_Table(t *testing.T) {
	db := seedHistory(t)

	out, err := execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "OUTCOME")
	assert.Contains(t, out, "0-10")
	assert.Contains(t, out, "unexpected_message_found")
	assert.Contains(t, out, "Added connection")
}

func TestHistoryCommand_FailedJSON(t *testing.T) {
	db := seedHistory(t)

	out, err := execute(t, "--format", "json", "history", "--db", db, "--failed")
	require.NoError(t, err)

	var resp struct {
		Status string                `json:"status"`
		Data   []store.WindowRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Misbehaving", resp.Data[0].Pattern)
	assert.Equal(t, int64(2), resp.Data[0].Seq)
}

func TestHistoryCommand_Empty(t *testing.T) {
	out, err := execute(t, "history", "--db", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No windows recorded.")
}

func TestHistoryCommand_RequiresDB(t *testing.T) {
	_, err := execute(t, "history")
	require.Error(t, err)
}
