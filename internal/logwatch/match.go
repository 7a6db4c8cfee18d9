package logwatch

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Expectations lists the messages a window must and must not contain.
// Order is declaration order and duplicates are allowed.
type Expectations struct {
	Expected   []string `yaml:"expected_msgs,omitempty" json:"expected_msgs,omitempty"`
	Unexpected []string `yaml:"unexpected_msgs,omitempty" json:"unexpected_msgs,omitempty"`
}

// IsEmpty reports whether there is nothing to check.
func (e Expectations) IsEmpty() bool {
	return len(e.Expected) == 0 && len(e.Unexpected) == 0
}

// Check evaluates exp against delta and returns the first violation as an
// *AssertionError, or nil. Expected messages are checked before unexpected ones.
func Check(delta string, exp Expectations) error {
	for _, msg := range exp.Expected {
		if !Matches(delta, msg) {
			return &AssertionError{Kind: KindExpectedMissing, Pattern: msg, Delta: delta}
		}
	}
	for _, msg := range exp.Unexpected {
		if Matches(delta, msg) {
			return &AssertionError{Kind: KindUnexpectedFound, Pattern: msg, Delta: delta}
		}
	}
	return nil
}

// Matches reports whether msg occurs anywhere in delta. msg is taken literally:
// regexp metacharacters are escaped before the multiline search.
func Matches(delta, msg string) bool {
	if !utf8.ValidString(msg) {
		// regexp rejects invalid UTF-8 patterns; a byte search is the literal equivalent.
		return strings.Contains(delta, msg)
	}
	return literalPattern(msg).MatchString(delta)
}

func literalPattern(msg string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)` + regexp.QuoteMeta(msg))
}

// FormatDelta renders delta one log line per row, each prefixed with " - ".
// An empty delta renders as a single " - ".
func FormatDelta(delta string) string {
	return " - " + strings.Join(splitLines(delta), "\n - ")
}

// splitLines breaks s on "\n", "\r\n" and "\r". A trailing line break does not
// produce an empty final line.
func splitLines(s string) []string {
	var lines []string
	for len(s) > 0 {
		i := strings.IndexAny(s, "\r\n")
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i])
		if s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
			i++
		}
		s = s[i+1:]
	}
	return lines
}
