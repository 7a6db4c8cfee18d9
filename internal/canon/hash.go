package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainWindow separates window identifiers from any other hash in the system.
const DomainWindow = "logwindow/window/v1"

// hashWithDomain returns hex(SHA256(domain || 0x00 || data)).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// WindowID returns the content-addressed identifier of a recorded window.
// The same session, range and outcome always produce the same ID.
func WindowID(sessionID, logPath string, start, end int64, outcome, pattern string) (string, error) {
	data, err := Marshal(map[string]any{
		"session_id":   sessionID,
		"log_path":     logPath,
		"start_offset": start,
		"end_offset":   end,
		"outcome":      outcome,
		"pattern":      pattern,
	})
	if err != nil {
		return "", fmt.Errorf("window id: %w", err)
	}
	return hashWithDomain(DomainWindow, data), nil
}
