package logwatch

import (
	"errors"
	"fmt"
)

// Failure kinds reported by AssertionError.
const (
	KindExpectedMissing = "expected_message_missing"
	KindUnexpectedFound = "unexpected_message_found"
)

// ErrSessionClosed is returned when End is called on a session that already ended.
var ErrSessionClosed = errors.New("log window already closed")

// AssertionError is the failure signal of a watch window. It is never used for
// I/O or RPC failures, so callers can tell "the log did not say what the test
// expected" apart from "the operation under test failed".
type AssertionError struct {
	Kind    string // KindExpectedMissing or KindUnexpectedFound
	Pattern string // the message as declared by the test
	Delta   string // everything appended to the log during the window
}

// Error renders the offending message and the whole window, one line per
// log line, so the failure can be diagnosed without re-running the test.
func (e *AssertionError) Error() string {
	switch e.Kind {
	case KindUnexpectedFound:
		return fmt.Sprintf("Unexpected message \"%s\" matched log:\n\n%s\n\n", e.Pattern, FormatDelta(e.Delta))
	default:
		return fmt.Sprintf("Expected message \"%s\" does not partially match log:\n\n%s\n\n", e.Pattern, FormatDelta(e.Delta))
	}
}

// IsAssertion reports whether err carries an AssertionError.
func IsAssertion(err error) bool {
	var assertErr *AssertionError
	return errors.As(err, &assertErr)
}
