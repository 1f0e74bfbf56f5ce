package classify

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Text detectors. These recognize the string sub-protocols that appear in
// tool output: error prefixes, embedded JSONL transcripts, line-numbered
// file content, and file search listings.

// errorPrefix is the literal marker on error result strings.
const errorPrefix = "Error: "

// gutterRegex matches a line-number gutter like "   12→". The arrow is the
// single U+2192 glyph, not "->".
var gutterRegex = regexp.MustCompile(`^(\s*)(\d+)→`)

// foundFilesRegex matches the search header line, e.g. "Found 3 files".
var foundFilesRegex = regexp.MustCompile(`(?i)^found \d+ files?`)

// sourcePathRegex matches a path separator followed by a file name with a
// recognized source extension.
var sourcePathRegex = regexp.MustCompile(`[/\\]\S*\.(?:tsx|ts|jsx|js|py|java|rs|go|php|rb|vue|svelte)\b`)

func isErrorText(text string) bool {
	return strings.HasPrefix(text, errorPrefix)
}

// isSessionHistory recognizes text that is itself a JSONL chat transcript.
// The check is strict: at least two non-blank lines, every non-blank line
// must parse as JSON (a single bad line disqualifies the whole text), at
// least two parsed lines must be user/assistant records carrying a message
// or content field, and such records must make up at least half of the
// parsed lines.
func isSessionHistory(text string) bool {
	lines := nonBlankLines(text)
	if len(lines) < 2 {
		return false
	}

	validChat := 0
	for _, line := range lines {
		var v any
		if err := json.Unmarshal([]byte(line), &v); err != nil {
			return false
		}
		obj, ok := v.(map[string]any)
		if !ok {
			continue
		}
		t, _ := stringField(obj, "type")
		if t != "user" && t != "assistant" {
			continue
		}
		if !hasKey(obj, "message") && !hasKey(obj, "content") {
			continue
		}
		validChat++
	}

	if validChat < 2 {
		return false
	}
	return float64(validChat)/float64(len(lines)) >= 0.5
}

// isNumberedContent recognizes file content rendered with line-number
// gutters. Single-line text is rejected, as is text with only one gutter
// line, so stray references like "42→" in prose don't trigger it.
func isNumberedContent(text string) bool {
	if !strings.Contains(text, "\n") {
		return false
	}
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if gutterRegex.MatchString(line) {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

// isFileSearchOutput recognizes search result listings: either a
// "Found N file(s)" header on the first line, or at least three lines
// where a later line holds a path to a recognized source file.
func isFileSearchOutput(text string) bool {
	lines := strings.Split(text, "\n")
	if foundFilesRegex.MatchString(lines[0]) {
		return true
	}
	if len(lines) < 3 {
		return false
	}
	for _, line := range lines[1:] {
		if sourcePathRegex.MatchString(line) {
			return true
		}
	}
	return false
}

func nonBlankLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
