package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/logwindow/internal/canon"
	"github.com/roach88/logwindow/internal/logwatch"
)

// WindowRecord is a stored window.
type WindowRecord struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	LogPath     string    `json:"log_path"`
	StartOffset int64     `json:"start_offset"`
	EndOffset   int64     `json:"end_offset"`
	Expected    []string  `json:"expected_msgs"`
	Unexpected  []string  `json:"unexpected_msgs"`
	Outcome     string    `json:"outcome"`
	Pattern     string    `json:"pattern,omitempty"`
	ClosedAt    time.Time `json:"closed_at"`
	Seq         int64     `json:"seq"`
}

// Passed reports whether the window had no violation.
func (r WindowRecord) Passed() bool {
	return r.Outcome == logwatch.OutcomePass
}

// Filter narrows ListWindows. Zero values match everything.
type Filter struct {
	LogPath    string
	FailedOnly bool
	Limit      int
}

// RecordWindow stores a completed window. It implements logwatch.Recorder.
// Writing the same window twice is silently ignored.
func (s *Store) RecordWindow(ctx context.Context, w logwatch.Window) error {
	id, err := canon.WindowID(w.SessionID, w.Path, w.StartOffset, w.EndOffset, w.Outcome, w.Pattern)
	if err != nil {
		return fmt.Errorf("record window: %w", err)
	}
	expected, err := json.Marshal(w.Expectations.Expected)
	if err != nil {
		return fmt.Errorf("record window: %w", err)
	}
	unexpected, err := json.Marshal(w.Expectations.Unexpected)
	if err != nil {
		return fmt.Errorf("record window: %w", err)
	}

	// seq is the next logical position; the single connection serializes inserts.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO windows
		(id, session_id, log_path, start_offset, end_offset, expected, unexpected, outcome, pattern, closed_at, seq)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, COALESCE(MAX(seq), 0) + 1 FROM windows WHERE true
		ON CONFLICT(id) DO NOTHING
	`,
		id,
		w.SessionID,
		w.Path,
		w.StartOffset,
		w.EndOffset,
		string(expected),
		string(unexpected),
		w.Outcome,
		w.Pattern,
		w.ClosedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record window: %w", err)
	}
	return nil
}

// ListWindows returns stored windows matching f in seq order.
// Returns an empty slice, not nil, when nothing matches.
func (s *Store) ListWindows(ctx context.Context, f Filter) ([]WindowRecord, error) {
	var (
		clauses []string
		args    []any
	)
	if f.LogPath != "" {
		clauses = append(clauses, "log_path = ?")
		args = append(args, f.LogPath)
	}
	if f.FailedOnly {
		clauses = append(clauses, "outcome != ?")
		args = append(args, logwatch.OutcomePass)
	}

	query := `SELECT id, session_id, log_path, start_offset, end_offset, expected, unexpected, outcome, pattern, closed_at, seq FROM windows`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY seq ASC, id COLLATE BINARY ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query windows: %w", err)
	}
	defer rows.Close()

	records := []WindowRecord{}
	for rows.Next() {
		var (
			rec                  WindowRecord
			expected, unexpected string
			closedAt             string
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.SessionID,
			&rec.LogPath,
			&rec.StartOffset,
			&rec.EndOffset,
			&expected,
			&unexpected,
			&rec.Outcome,
			&rec.Pattern,
			&closedAt,
			&rec.Seq,
		); err != nil {
			return nil, fmt.Errorf("scan window: %w", err)
		}
		if err := json.Unmarshal([]byte(expected), &rec.Expected); err != nil {
			return nil, fmt.Errorf("window %s: decode expected: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(unexpected), &rec.Unexpected); err != nil {
			return nil, fmt.Errorf("window %s: decode unexpected: %w", rec.ID, err)
		}
		rec.ClosedAt, err = time.Parse(time.RFC3339Nano, closedAt)
		if err != nil {
			return nil, fmt.Errorf("window %s: parse closed_at: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate windows: %w", err)
	}
	return records, nil
}
