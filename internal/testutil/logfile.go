package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// DebugLog is an append-only log file standing in for a node's debug.log.
type DebugLog struct {
	t    testing.TB
	mu   sync.Mutex
	Path string
}

// NewDebugLog creates an empty <datadir>/<network>/debug.log under a fresh
// temp directory and returns the data directory and the log.
func NewDebugLog(t testing.TB, network string) (string, *DebugLog) {
	t.Helper()
	datadir := t.TempDir()
	path := filepath.Join(datadir, network, "debug.log")
	return datadir, OpenDebugLog(t, path)
}

// OpenDebugLog creates the log at path (and its parent directories) if needed.
func OpenDebugLog(t testing.TB, path string) *DebugLog {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create log dir: %v", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("create log: %v", err)
	}
	f.Close()
	return &DebugLog{t: t, Path: path}
}

// Println appends each line followed by a newline.
func (l *DebugLog) Println(lines ...string) {
	l.t.Helper()
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	l.Write(b.String())
}

// Write appends s verbatim.
func (l *DebugLog) Write(s string) {
	l.t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		l.t.Fatalf("open log for append: %v", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(s); err != nil {
		l.t.Fatalf("append to log: %v", err)
	}
}

// Size returns the current size of the log in bytes.
func (l *DebugLog) Size() int64 {
	l.t.Helper()
	info, err := os.Stat(l.Path)
	if err != nil {
		l.t.Fatalf("stat log: %v", err)
		return 0
	}
	return info.Size()
}
