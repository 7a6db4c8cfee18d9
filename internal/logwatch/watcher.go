package logwatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Outcome of a window that had no violation.
const OutcomePass = "pass"

// Window is the record of one completed watch window.
type Window struct {
	SessionID    string
	Path         string
	StartOffset  int64
	EndOffset    int64
	Expectations Expectations
	Outcome      string // OutcomePass or the AssertionError kind
	Pattern      string // offending message, empty on pass
	ClosedAt     time.Time
}

// Recorder receives every completed window.
type Recorder interface {
	RecordWindow(ctx context.Context, w Window) error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger used for window diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithRecorder sets a Recorder that is told about every completed window.
func WithRecorder(r Recorder) Option {
	return func(w *Watcher) {
		w.recorder = r
	}
}

// WithClock overrides the wall clock used to stamp recorded windows.
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) {
		w.now = now
	}
}

// Watcher opens watch windows on one debug log.
// It holds no file handle between calls and keeps no per-window state.
type Watcher struct {
	path     string
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time
}

// NewWatcher creates a Watcher for the log at path.
func NewWatcher(path string, opts ...Option) *Watcher {
	w := &Watcher{
		path:   path,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns the log path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Offset returns the current end of the watched log.
func (w *Watcher) Offset() (int64, error) {
	return Offset(w.path)
}

// Session is a single open watch window. It is created by Begin and consumed
// by End; it cannot be reused for a second action.
type Session struct {
	ID           string
	Path         string
	StartOffset  int64
	Expectations Expectations

	watcher *Watcher
	closed  bool
}

// Begin records the current end of the log as the start of a new window.
//
// The open and the seek are not atomic with respect to the writing process,
// so a line written at the same moment may fall before or after the offset.
func (w *Watcher) Begin(exp Expectations) (*Session, error) {
	start, err := w.Offset()
	if err != nil {
		return nil, fmt.Errorf("begin log window: %w", err)
	}

	s := &Session{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Path:         w.path,
		StartOffset:  start,
		Expectations: exp,
		watcher:      w,
	}
	w.logger.Debug("log window opened",
		"session", s.ID,
		"path", w.path,
		"start_offset", start,
	)
	return s, nil
}

// ReadDelta returns everything appended to the log since StartOffset.
func (s *Session) ReadDelta() (Delta, error) {
	data, err := ReadFrom(s.Path, s.StartOffset)
	if err != nil {
		return Delta{}, err
	}
	return Delta{
		Text:  string(data),
		Start: s.StartOffset,
		End:   s.StartOffset + int64(len(data)),
	}, nil
}

// End closes the window: it reads the delta and checks the expectations.
// A violation is returned as *AssertionError; read failures are returned as-is.
func (s *Session) End() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true

	delta, err := s.ReadDelta()
	if err != nil {
		return fmt.Errorf("end log window: %w", err)
	}

	checkErr := Check(delta.Text, s.Expectations)
	s.watcher.finish(s, delta, checkErr)
	return checkErr
}

func (w *Watcher) finish(s *Session, delta Delta, checkErr error) {
	win := Window{
		SessionID:    s.ID,
		Path:         s.Path,
		StartOffset:  delta.Start,
		EndOffset:    delta.End,
		Expectations: s.Expectations,
		Outcome:      OutcomePass,
		ClosedAt:     w.now(),
	}

	var assertErr *AssertionError
	if errors.As(checkErr, &assertErr) {
		win.Outcome = assertErr.Kind
		win.Pattern = assertErr.Pattern
		w.logger.Info("log window failed",
			"session", s.ID,
			"kind", assertErr.Kind,
			"pattern", assertErr.Pattern,
			"bytes", delta.Len(),
		)
	} else {
		w.logger.Debug("log window passed",
			"session", s.ID,
			"bytes", delta.Len(),
		)
	}

	if w.recorder == nil {
		return
	}
	if err := w.recorder.RecordWindow(context.Background(), win); err != nil {
		w.logger.Warn("failed to record log window", "session", s.ID, "error", err)
	}
}

// Watch runs fn inside a watch window. The exit check always runs, including
// when fn returns an error or panics.
//
// When the exit check fails it wins: the returned error is the *AssertionError
// joined with fn's error, if any. When fn panics and the check also fails, the
// panic continues with both joined as its value.
func (w *Watcher) Watch(exp Expectations, fn func() error) (err error) {
	s, err := w.Begin(exp)
	if err != nil {
		return err
	}

	defer func() {
		endErr := s.End()
		if endErr == nil {
			return
		}
		if r := recover(); r != nil {
			panic(errors.Join(endErr, fmt.Errorf("guarded action panicked: %v", r)))
		}
		err = errors.Join(endErr, err)
	}()

	return fn()
}

// Begin opens a window on the log at path.
func Begin(path string, exp Expectations) (*Session, error) {
	return NewWatcher(path).Begin(exp)
}

// Watch runs fn inside a window on the log at path.
func Watch(path string, exp Expectations, fn func() error) error {
	return NewWatcher(path).Watch(exp, fn)
}
