package harness

import (
	"fmt"
	"reflect"
	"strings"
)

// TraceAssertionError is returned when a trace assertion fails.
type TraceAssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error renders the expectation, what was seen and the list of calls made.
func (e *TraceAssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nCalls:\n")
	n := 0
	for _, event := range e.Trace {
		if event.Type == EventCall {
			n++
			fmt.Fprintf(&buf, "  [%d] %s %v\n", n, event.Method, event.Params)
		}
	}
	return buf.String()
}

func calls(trace []TraceEvent) []TraceEvent {
	var out []TraceEvent
	for _, event := range trace {
		if event.Type == EventCall {
			out = append(out, event)
		}
	}
	return out
}

func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, event := range calls(trace) {
		if event.Method != a.Method {
			continue
		}
		if a.Params == nil || reflect.DeepEqual(event.Params, a.Params) {
			return nil
		}
	}

	expected := "call " + a.Method
	if a.Params != nil {
		expected += fmt.Sprintf(" with params %v", a.Params)
	}
	return &TraceAssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the first call of each method appears in the
// given order. Other calls may be interleaved.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for i, event := range calls(trace) {
		if _, seen := positions[event.Method]; !seen {
			positions[event.Method] = i + 1
		}
	}

	for _, method := range a.Methods {
		if positions[method] == 0 {
			return &TraceAssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all methods called: %v", a.Methods),
				Actual:   "missing call: " + method,
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Methods); i++ {
		prev, curr := a.Methods[i-1], a.Methods[i]
		if positions[prev] >= positions[curr] {
			return &TraceAssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("calls in order: %v", a.Methods),
				Actual: fmt.Sprintf("%s (call %d) should be before %s (call %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range calls(trace) {
		if event.Method == a.Method {
			count++
		}
	}

	if count != a.Count {
		return &TraceAssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d calls of %s", a.Count, a.Method),
			Actual:   fmt.Sprintf("%d calls", count),
			Trace:    trace,
		}
	}
	return nil
}

// EvaluateAssertions checks every assertion against the result trace and
// returns one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string

	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}
