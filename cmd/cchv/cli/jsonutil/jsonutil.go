// Package jsonutil provides small JSON encoding helpers shared across the CLI.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalIndentWithNewline marshals v with two-space indentation and a
// trailing newline, the format used for files and terminal dumps.
func MarshalIndentWithNewline(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// EncodeLine marshals v as a single JSONL line without HTML escaping.
// Session files must round-trip characters like < and & untouched.
func EncodeLine(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode JSONL line: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeAny unmarshals data into the generic any form (map[string]any,
// []any, string, float64, bool, nil) that the classifier consumes.
func DecodeAny(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	return v, nil
}
