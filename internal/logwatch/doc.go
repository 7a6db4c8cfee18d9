// Package logwatch asserts on what a process under test writes to its debug log
// while a guarded action runs.
//
// A watch window is bracketed by two phases:
//
//   - Begin opens the log, seeks to its current end and records that byte offset.
//   - End reads everything appended since that offset (the delta) and checks it
//     against the expected and unexpected messages.
//
// Messages are literal substrings. They are escaped before matching, matched
// case-sensitively and may span lines, because the delta is searched as a single
// string in multiline mode.
//
// # Usage
//
//	logwatch.AssertLog(t, node.DebugLogPath(), logwatch.Expectations{
//	    Expected:   []string{"Added connection peer=0"},
//	    Unexpected: []string{"Misbehaving"},
//	}, func() {
//	    _, err := node.Call(ctx, "addnode", "127.0.0.1:18444", "onetry")
//	    require.NoError(t, err)
//	})
//
// # Check Order
//
// Expected messages are checked first, in declaration order, then unexpected
// messages in declaration order. The first violation ends the check; later
// violations in the same window are not reported.
//
// # Known Race
//
// Opening the log and seeking to its end are two separate steps and the writer
// is not cooperating with any lock. A line written concurrently with Begin may
// land on either side of the recorded offset. Log rotation and truncation are
// not supported: the offset must stay valid for the life of the window.
package logwatch
