// Package harness runs log-window scenarios against a process under test.
//
// A scenario is a list of RPC calls. Each call runs inside its own log window
// with the expected and unexpected debug-log messages declared on the step.
//
// # Scenario Format
//
//	name: addnode_logs_connection
//	description: "addnode logs the new outbound connection"
//	network: regtest
//	steps:
//	  - call: addnode
//	    params: ["127.0.0.1:18444", "onetry"]
//	    log:
//	      expected_msgs:
//	        - "Added connection"
//	      unexpected_msgs:
//	        - "Misbehaving"
//	  - call: submitblock
//	    params: ["00"]
//	    expect_error: true
//	    error_code: -22
//	assertions:
//	  - type: trace_count
//	    method: addnode
//	    count: 1
//
// # Failure Reporting
//
// Each window is fail-fast: it reports only the first violated message. The
// runner itself keeps going after a failed window so one run reports every
// failing step; all failures end up in Result.Errors.
//
// # Assertion Types
//
//   - trace_contains: the method was called (optionally with matching params)
//   - trace_order: the methods were called in this order
//   - trace_count: the method was called exactly N times
//
// # Deterministic Traces
//
// Trace sequence numbers come from testutil.DeterministicClock and trace
// events carry no offsets or session IDs, so the same scenario against the
// same node behavior produces byte-identical golden files.
package harness
