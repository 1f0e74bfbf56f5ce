// Package stringutil provides UTF-8 safe string manipulation utilities.
package stringutil

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// whitespaceRegex matches one or more whitespace characters (including newlines)
var whitespaceRegex = regexp.MustCompile(`\s+`)

// CollapseWhitespace replaces sequences of whitespace (including newlines,
// tabs) with a single space and trims leading/trailing whitespace. Used to
// prepare multi-line message text for single-line display.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// TruncateRunes truncates a string to at most maxRunes runes, appending
// suffix if truncated. Safe for multi-byte UTF-8 characters unlike
// byte-based slicing.
func TruncateRunes(s string, maxRunes int, suffix string) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	// Leave room for the suffix
	suffixRunes := []rune(suffix)
	truncateAt := maxRunes - len(suffixRunes)
	if truncateAt < 0 {
		truncateAt = 0
	}
	return string(runes[:truncateAt]) + suffix
}

// Preview collapses s to a single line and truncates it to maxRunes runes.
// Session lists and search results use this for one-line summaries.
func Preview(s string, maxRunes int) string {
	return TruncateRunes(CollapseWhitespace(s), maxRunes, "...")
}

// FirstLine returns the text before the first newline, trimmed.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// ValidUTF8 replaces invalid UTF-8 sequences with the replacement rune so
// terminal output never emits raw invalid bytes.
func ValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}
