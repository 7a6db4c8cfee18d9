package harness

// Trace event types.
const (
	EventCall   = "call"
	EventWindow = "window"
)

// TraceEvent is one entry in a scenario trace: either an RPC call or the log
// window that guarded it.
type TraceEvent struct {
	Type    string `json:"type"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
	Error   string `json:"error,omitempty"`   // remote error message (call)
	Outcome string `json:"outcome,omitempty"` // window outcome (window)
	Pattern string `json:"pattern,omitempty"` // offending message (window)
	Seq     int64  `json:"seq"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every window and every assertion held.
	Pass bool `json:"pass"`

	// Trace lists calls and windows in execution order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds one message per failed window, call or assertion.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result with an empty trace.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddCallTrace appends an RPC call to the trace.
func (r *Result) AddCallTrace(method string, params []any, callErr string, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:   EventCall,
		Method: method,
		Params: params,
		Error:  callErr,
		Seq:    seq,
	})
}

// AddWindowTrace appends a log window outcome to the trace.
func (r *Result) AddWindowTrace(method, outcome, pattern string, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:    EventWindow,
		Method:  method,
		Outcome: outcome,
		Pattern: pattern,
		Seq:     seq,
	})
}
