package classify

import (
	"encoding/json"
	"strings"
)

// Object detectors. Each is a pure predicate over a decoded JSON object.
// Signatures are structural: payloads carry no type discriminant, so a
// category is recognized by the presence of a small set of keys with the
// right types. Several signatures overlap; Classify resolves overlap by
// evaluation order, so detectors stay independent of each other except
// where noted.

func isMCPToolResult(obj map[string]any) bool {
	if !hasKey(obj, "isError") {
		return false
	}
	blocks, ok := arrayField(obj, "content")
	if !ok || len(blocks) == 0 {
		return false
	}
	for _, b := range blocks {
		m, ok := b.(map[string]any)
		if !ok {
			return false
		}
		if t, _ := stringField(m, "type"); t == "" {
			return false
		}
	}
	return true
}

func isCodebaseContext(obj map[string]any) bool {
	blocks, ok := arrayField(obj, "content")
	if !ok || len(blocks) == 0 {
		return false
	}
	for _, key := range []string{"totalDurationMs", "totalTokens", "totalToolUseCount"} {
		if _, ok := numberField(obj, key); ok {
			return true
		}
	}
	return false
}

func isTerminalStream(obj map[string]any) bool {
	if s, ok := stringField(obj, "stdout"); ok && s != "" {
		return true
	}
	if s, ok := stringField(obj, "stderr"); ok && s != "" {
		return true
	}
	return false
}

func isGitWorkflow(obj map[string]any) bool {
	cmd, ok := stringField(obj, "command")
	if !ok {
		return false
	}
	return cmd == "git" || strings.HasPrefix(cmd, "git ")
}

func isWebSearch(obj map[string]any) bool {
	if _, ok := stringField(obj, "query"); !ok {
		return false
	}
	results, ok := arrayField(obj, "results")
	return ok && len(results) > 0
}

// isTodoUpdate keys on presence alone: an explicit null newTodos still
// marks a todo update.
func isTodoUpdate(obj map[string]any) bool {
	return hasKey(obj, "newTodos") || hasKey(obj, "oldTodos")
}

func isFileList(obj map[string]any) bool {
	if _, ok := arrayField(obj, "filenames"); !ok {
		return false
	}
	_, ok := numberField(obj, "numFiles")
	return ok
}

// isFileObject matches a nested file record, or the flat filePath+content
// shape. The flat variant yields to structured patches: a payload carrying
// patch hunks must reach the structured-patch rule further down the chain.
func isFileObject(obj map[string]any) bool {
	if _, ok := mapField(obj, "file"); ok {
		return true
	}
	if _, ok := stringField(obj, "filePath"); !ok {
		return false
	}
	if !hasKey(obj, "content") {
		return false
	}
	if _, ok := arrayField(obj, "structuredPatch"); ok {
		return false
	}
	return true
}

func isFileEdit(obj map[string]any) bool {
	if _, ok := stringField(obj, "filePath"); !ok {
		return false
	}
	return hasKey(obj, "oldString") || hasKey(obj, "newString") || hasKey(obj, "originalFile")
}

func isStructuredPatch(obj map[string]any) bool {
	if _, ok := stringField(obj, "filePath"); !ok {
		return false
	}
	_, ok := arrayField(obj, "structuredPatch")
	return ok
}

// genericFieldKeys are the common metadata fields recognized by the
// generic tail of the chain.
var genericFieldKeys = []string{"stdout", "stderr", "filePath", "interrupted", "isImage"}

func hasGenericFields(obj map[string]any) bool {
	for _, key := range genericFieldKeys {
		if hasKey(obj, key) {
			return true
		}
	}
	return false
}

// Field coercion helpers. Payloads decoded by encoding/json carry float64
// numbers, but payloads built in Go may use int variants; both are
// accepted.

func hasKey(obj map[string]any, key string) bool {
	_, ok := obj[key]
	return ok
}

func stringField(obj map[string]any, key string) (string, bool) {
	s, ok := obj[key].(string)
	return s, ok
}

func mapField(obj map[string]any, key string) (map[string]any, bool) {
	m, ok := obj[key].(map[string]any)
	return m, ok
}

func arrayField(obj map[string]any, key string) ([]any, bool) {
	a, ok := obj[key].([]any)
	return a, ok
}

func numberField(obj map[string]any, key string) (float64, bool) {
	return toNumber(obj[key])
}

func boolField(obj map[string]any, key string) bool {
	b, _ := obj[key].(bool)
	return b
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
