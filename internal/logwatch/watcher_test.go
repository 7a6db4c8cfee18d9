package logwatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/logwindow/internal/testutil"
)

func newLog(t *testing.T) *testutil.DebugLog {
	t.Helper()
	_, log := testutil.NewDebugLog(t, DefaultNetwork)
	return log
}

func TestWatch_NoOpWindowIgnoresPriorContent(t *testing.T) {
	log := newLog(t)
	log.Println("Misbehaving peer=1", "old line")

	err := Watch(log.Path, Expectations{}, func() error { return nil })
	assert.NoError(t, err)

	err = Watch(log.Path, Expectations{Unexpected: []string{"Misbehaving"}}, func() error { return nil })
	assert.NoError(t, err)
}

func TestWatch_ExpectedFound(t *testing.T) {
	log := newLog(t)

	err := Watch(log.Path, Expectations{Expected: []string{"Added connection peer=0"}}, func() error {
		log.Println("Added connection peer=0")
		return nil
	})
	assert.NoError(t, err)
}

func TestWatch_ExpectedMissing(t *testing.T) {
	log := newLog(t)

	err := Watch(log.Path, Expectations{Expected: []string{"Added connection peer=0"}}, func() error {
		log.Println("something else")
		return nil
	})
	require.Error(t, err)

	var assertErr *AssertionError
	require.True(t, errors.As(err, &assertErr))
	assert.Equal(t, KindExpectedMissing, assertErr.Kind)
	assert.Contains(t, err.Error(), "Added connection peer=0")
	assert.Contains(t, err.Error(), " - something else")
}

func TestWatch_UnexpectedAbsent(t *testing.T) {
	log := newLog(t)

	err := Watch(log.Path, Expectations{Unexpected: []string{"Misbehaving"}}, func() error {
		log.Println("all good")
		return nil
	})
	assert.NoError(t, err)
}

func TestWatch_UnexpectedPresent(t *testing.T) {
	log := newLog(t)

	err := Watch(log.Path, Expectations{Unexpected: []string{"Misbehaving"}}, func() error {
		log.Println("peer=3 Misbehaving: score 100")
		return nil
	})
	require.Error(t, err)

	var assertErr *AssertionError
	require.True(t, errors.As(err, &assertErr))
	assert.Equal(t, KindUnexpectedFound, assertErr.Kind)
	assert.Equal(t, "Misbehaving", assertErr.Pattern)
	assert.Contains(t, err.Error(), `Unexpected message "Misbehaving" matched log`)
}

func TestWatch_PreWindowIsolation(t *testing.T) {
	log := newLog(t)
	log.Write("foo")
	log.Println(strings.Repeat("x", 46))
	require.Equal(t, int64(50), log.Size())

	s, err := Begin(log.Path, Expectations{Expected: []string{"foo"}})
	require.NoError(t, err)
	assert.Equal(t, int64(50), s.StartOffset)

	err = s.End()
	require.Error(t, err)
	assert.True(t, IsAssertion(err))
}

func TestWatch_EscapesPatternCharacters(t *testing.T) {
	log := newLog(t)

	err := Watch(log.Path, Expectations{Expected: []string{"value (1.5)"}}, func() error {
		log.Println("computed value (1.5) for block")
		return nil
	})
	assert.NoError(t, err)

	// "." and "*" must not act as wildcards.
	err = Watch(log.Path, Expectations{Expected: []string{"value (1.5)", "a.*z"}}, func() error {
		log.Println("value (105)", "abcz")
		return nil
	})
	require.Error(t, err)
	var assertErr *AssertionError
	require.True(t, errors.As(err, &assertErr))
	assert.Equal(t, "value (1.5)", assertErr.Pattern)
}

func TestWatch_MultilineSpan(t *testing.T) {
	log := newLog(t)

	err := Watch(log.Path, Expectations{Expected: []string{"first line\nsecond line"}}, func() error {
		log.Println("first line", "second line", "third line")
		return nil
	})
	assert.NoError(t, err)
}

func TestWatch_CaseSensitive(t *testing.T) {
	log := newLog(t)

	err := Watch(log.Path, Expectations{Expected: []string{"ERROR"}}, func() error {
		log.Println("error: lower case only")
		return nil
	})
	assert.True(t, IsAssertion(err))
}

func TestWatch_ExpectedReportedBeforeUnexpected(t *testing.T) {
	log := newLog(t)

	err := Watch(log.Path, Expectations{
		Expected:   []string{"never written"},
		Unexpected: []string{"Misbehaving"},
	}, func() error {
		log.Println("Misbehaving peer=1")
		return nil
	})

	var assertErr *AssertionError
	require.True(t, errors.As(err, &assertErr))
	assert.Equal(t, KindExpectedMissing, assertErr.Kind)
	assert.Equal(t, "never written", assertErr.Pattern)
}

func TestWatch_ExitRunsWhenActionFails(t *testing.T) {
	log := newLog(t)
	actionErr := errors.New("rpc failed")

	err := Watch(log.Path, Expectations{Expected: []string{"never written"}}, func() error {
		log.Println("handling request")
		return actionErr
	})

	require.Error(t, err)
	assert.True(t, IsAssertion(err), "assertion from the exit check must surface")
	assert.ErrorIs(t, err, actionErr, "original error must not be lost")
}

func TestWatch_ActionErrorPassesThroughWhenWindowOK(t *testing.T) {
	log := newLog(t)
	actionErr := errors.New("rpc failed")

	err := Watch(log.Path, Expectations{Expected: []string{"handling"}}, func() error {
		log.Println("handling request")
		return actionErr
	})

	assert.ErrorIs(t, err, actionErr)
	assert.False(t, IsAssertion(err))
}

func TestWatch_PanicStillChecksWindow(t *testing.T) {
	log := newLog(t)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, IsAssertion(err))
		assert.Contains(t, err.Error(), "guarded action panicked: kaboom")
	}()

	_ = Watch(log.Path, Expectations{Expected: []string{"never written"}}, func() error {
		panic("kaboom")
	})
}

func TestWatch_NestedWindowsNarrow(t *testing.T) {
	log := newLog(t)

	err := Watch(log.Path, Expectations{Expected: []string{"outer", "inner"}}, func() error {
		log.Println("outer")
		return Watch(log.Path, Expectations{Unexpected: []string{"outer"}}, func() error {
			log.Println("inner")
			return nil
		})
	})
	assert.NoError(t, err)
}

func TestWatch_MissingLogFile(t *testing.T) {
	err := Watch(t.TempDir()+"/missing/debug.log", Expectations{}, func() error {
		t.Fatal("action must not run when the window cannot open")
		return nil
	})
	require.Error(t, err)
	assert.False(t, IsAssertion(err))
}

func TestSession_EndTwice(t *testing.T) {
	log := newLog(t)

	s, err := Begin(log.Path, Expectations{})
	require.NoError(t, err)
	require.NoError(t, s.End())
	assert.ErrorIs(t, s.End(), ErrSessionClosed)
}

func TestSession_ReadDelta(t *testing.T) {
	log := newLog(t)
	log.Println("before")

	s, err := Begin(log.Path, Expectations{})
	require.NoError(t, err)
	log.Println("during one", "during two")

	delta, err := s.ReadDelta()
	require.NoError(t, err)
	assert.Equal(t, "during one\nduring two\n", delta.Text)
	assert.Equal(t, int64(len("before\n")), delta.Start)
	assert.Equal(t, log.Size(), delta.End)
	assert.Equal(t, int64(len(delta.Text)), delta.Len())
}

type memRecorder struct {
	mu      sync.Mutex
	windows []Window
	err     error
}

func (r *memRecorder) RecordWindow(_ context.Context, w Window) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.windows = append(r.windows, w)
	return r.err
}

func TestWatcher_RecordsOutcome(t *testing.T) {
	log := newLog(t)
	rec := &memRecorder{}
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	w := NewWatcher(log.Path, WithRecorder(rec), WithClock(func() time.Time { return fixed }))

	require.NoError(t, w.Watch(Expectations{Expected: []string{"ok"}}, func() error {
		log.Println("ok")
		return nil
	}))
	require.Error(t, w.Watch(Expectations{Unexpected: []string{"bad"}}, func() error {
		log.Println("bad")
		return nil
	}))

	require.Len(t, rec.windows, 2)
	assert.Equal(t, OutcomePass, rec.windows[0].Outcome)
	assert.Equal(t, int64(0), rec.windows[0].StartOffset)
	assert.Equal(t, int64(3), rec.windows[0].EndOffset)
	assert.Equal(t, fixed, rec.windows[0].ClosedAt)

	assert.Equal(t, KindUnexpectedFound, rec.windows[1].Outcome)
	assert.Equal(t, "bad", rec.windows[1].Pattern)
	assert.Equal(t, int64(3), rec.windows[1].StartOffset)
	assert.NotEqual(t, rec.windows[0].SessionID, rec.windows[1].SessionID)
}

func TestWatcher_RecorderFailureDoesNotMaskOutcome(t *testing.T) {
	log := newLog(t)
	rec := &memRecorder{err: errors.New("disk full")}
	w := NewWatcher(log.Path, WithRecorder(rec))

	err := w.Watch(Expectations{}, func() error { return nil })
	assert.NoError(t, err)
	assert.Len(t, rec.windows, 1)
}

func TestDebugLogPath(t *testing.T) {
	assert.Equal(t, "/data/regtest/debug.log", DebugLogPath("/data", ""))
	assert.Equal(t, "/data/testnet3/debug.log", DebugLogPath("/data", "testnet3"))
}

func ExampleWatch() {
	err := Watch("/nonexistent/regtest/debug.log", Expectations{}, func() error { return nil })
	fmt.Println(IsAssertion(err))
	// Output: false
}
