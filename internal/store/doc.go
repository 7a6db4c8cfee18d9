// Package store keeps a SQLite history of completed log watch windows.
//
// Each row records which byte range of which debug log was checked, what the
// window expected and how it ended. Rows are content-addressed through
// canon.WindowID, so recording the same window twice is a no-op.
//
// # Ordering
//
// Rows carry a logical seq assigned at insert time. Queries order by
// seq ASC, id ASC COLLATE BINARY so listings are stable across runs;
// wall-clock time is stored for display only.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - a single open connection, SQLite allows one writer at a time
package store
