package logwatch

// Delta is the text appended to a log during one window, with the byte range
// it was read from.
type Delta struct {
	Text  string
	Start int64
	End   int64
}

// Len returns the number of bytes in the window.
func (d Delta) Len() int64 {
	return d.End - d.Start
}

// TB is the subset of testing.TB used to report window failures.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
}

// AssertLog runs fn inside a watch window and fails t if the window violates exp.
//
// If fn returns normally, a violation stops the test with Fatalf. If fn stops
// the goroutine early (t.FailNow, panic) the window is still checked and any
// violation is reported with Errorf.
func (w *Watcher) AssertLog(t TB, exp Expectations, fn func()) {
	t.Helper()

	s, err := w.Begin(exp)
	if err != nil {
		t.Fatalf("log window: %v", err)
		return
	}

	completed := false
	defer func() {
		if completed {
			return
		}
		t.Helper()
		if err := s.End(); err != nil {
			t.Errorf("%v", err)
		}
	}()

	fn()
	completed = true

	if err := s.End(); err != nil {
		if IsAssertion(err) {
			t.Fatalf("%v", err)
		} else {
			t.Fatalf("log window: %v", err)
		}
	}
}

// AssertLog runs fn inside a window on the log at path and fails t on violation.
func AssertLog(t TB, path string, exp Expectations, fn func()) {
	t.Helper()
	NewWatcher(path).AssertLog(t, exp, fn)
}
