package redact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Suffix is appended (before the extension) to redacted session files.
const Suffix = ".redacted"

// OutputPath returns the sibling path a redacted copy is written to:
// session.jsonl becomes session.redacted.jsonl.
func OutputPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + Suffix + ext
}

// File redacts a session JSONL file and writes the result next to the
// original. The original is never modified. Returns the output path.
func File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read session file: %w", err)
	}

	redacted, err := JSONLContent(string(data))
	if err != nil {
		return "", fmt.Errorf("failed to redact %s: %w", path, err)
	}

	out := OutputPath(path)
	if err := os.WriteFile(out, []byte(redacted), 0o600); err != nil {
		return "", fmt.Errorf("failed to write redacted file: %w", err)
	}
	return out, nil
}
