// Package textutil removes agent-injected markup from user-facing text.
package textutil

import (
	"regexp"
	"strings"
)

// ideContextTagRegex matches IDE-injected context tags like
// <ide_opened_file>...</ide_opened_file> and <ide_selection>...</ide_selection>.
var ideContextTagRegex = regexp.MustCompile(`(?s)<ide_[^>]*>.*?</ide_[^>]*>`)

// systemTagRegexes matches system-injected tags that should not appear in
// rendered conversation text. Each tag type needs its own regex since Go's
// regexp doesn't support backreferences.
var systemTagRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(?s)<system-reminder[^>]*>.*?</system-reminder>`),
	regexp.MustCompile(`(?s)<local-command-caveat[^>]*>.*?</local-command-caveat>`),
	regexp.MustCompile(`(?s)<command-name[^>]*>.*?</command-name>`),
	regexp.MustCompile(`(?s)<command-message[^>]*>.*?</command-message>`),
	regexp.MustCompile(`(?s)<command-args[^>]*>.*?</command-args>`),
	regexp.MustCompile(`(?s)<local-command-stdout[^>]*>.*?</local-command-stdout>`),
}

// StripSystemTags removes system-injected context tags from message text.
// Stripping is independent of how the surrounding payload was classified:
// a system-reminder embedded in otherwise plain text is removed without
// changing the text's category.
func StripSystemTags(text string) string {
	result := ideContextTagRegex.ReplaceAllString(text, "")
	for _, re := range systemTagRegexes {
		result = re.ReplaceAllString(result, "")
	}
	return strings.TrimSpace(result)
}

// HasSystemTags reports whether text contains any strippable tag.
func HasSystemTags(text string) bool {
	return StripSystemTags(text) != strings.TrimSpace(text)
}
