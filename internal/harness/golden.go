package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/logwindow/internal/canon"
	"github.com/roach88/logwindow/internal/node"
)

// TraceSnapshot is the golden-file form of a scenario trace.
type TraceSnapshot struct {
	ScenarioName string
	Trace        []TraceEvent
}

func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	events := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		m := map[string]any{
			"type":   event.Type,
			"method": event.Method,
			"seq":    event.Seq,
		}
		if len(event.Params) > 0 {
			m["params"] = event.Params
		}
		if event.Error != "" {
			m["error"] = event.Error
		}
		if event.Outcome != "" {
			m["outcome"] = event.Outcome
		}
		if event.Pattern != "" {
			m["pattern"] = event.Pattern
		}
		events[i] = m
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         events,
	}
}

// AssertGolden compares result's trace with testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{ScenarioName: name, Trace: result.Trace}
	data, err := canon.Marshal(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

// RunWithGolden runs scenario against n and compares the trace with the
// scenario's golden file.
func RunWithGolden(t *testing.T, n *node.TestNode, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), n, scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}
