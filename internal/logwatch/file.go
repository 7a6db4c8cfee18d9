package logwatch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Default location of the debug log inside a node's data directory.
const (
	DefaultNetwork     = "regtest"
	DefaultLogFileName = "debug.log"
)

// DebugLogPath returns <datadir>/<network>/debug.log.
// An empty network falls back to DefaultNetwork.
func DebugLogPath(datadir, network string) string {
	if network == "" {
		network = DefaultNetwork
	}
	return filepath.Join(datadir, network, DefaultLogFileName)
}

// Offset returns the current end of the log at path.
// The file is opened read-only and closed before returning.
func Offset(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("seek log end: %w", err)
	}
	return end, nil
}

// ReadFrom returns everything in the log at path from offset to the current end.
func ReadFrom(path string, offset int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek log to %d: %w", offset, err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return data, nil
}
