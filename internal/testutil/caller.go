package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/roach88/logwindow/internal/rpc"
)

// RecordedCall is one call received by a FakeCaller.
type RecordedCall struct {
	Method string
	Params []any
}

type fakeMethod struct {
	result any
	err    error
	logs   []string
}

// FakeCaller is a scripted rpc.Caller modelling a process under test: each
// method returns a canned result or error and may append lines to the debug
// log as a side effect, the way a real node logs while serving a call.
type FakeCaller struct {
	mu      sync.Mutex
	log     *DebugLog
	methods map[string]fakeMethod
	calls   []RecordedCall
}

// NewFakeCaller returns a FakeCaller writing to log. log may be nil when no
// method logs anything.
func NewFakeCaller(log *DebugLog) *FakeCaller {
	return &FakeCaller{log: log, methods: make(map[string]fakeMethod)}
}

// On makes method return result and append logLines to the debug log.
func (f *FakeCaller) On(method string, result any, logLines ...string) *FakeCaller {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.methods[method] = fakeMethod{result: result, logs: logLines}
	return f
}

// Fail makes method return err after appending logLines to the debug log.
func (f *FakeCaller) Fail(method string, err error, logLines ...string) *FakeCaller {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.methods[method] = fakeMethod{err: err, logs: logLines}
	return f
}

// Call implements rpc.Caller. Unscripted methods fail with a "Method not found"
// remote error.
func (f *FakeCaller) Call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	f.mu.Lock()
	m, ok := f.methods[method]
	f.calls = append(f.calls, RecordedCall{Method: method, Params: params})
	f.mu.Unlock()

	if !ok {
		return nil, &rpc.RemoteError{Method: method, Code: -32601, Message: "Method not found"}
	}
	if len(m.logs) > 0 && f.log != nil {
		f.log.Println(m.logs...)
	}
	if m.err != nil {
		return nil, m.err
	}
	return json.Marshal(m.result)
}

// Calls returns the calls received so far, in order.
func (f *FakeCaller) Calls() []RecordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedCall, len(f.calls))
	copy(out, f.calls)
	return out
}
