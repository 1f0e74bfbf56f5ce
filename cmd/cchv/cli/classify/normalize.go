package classify

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Normalizers extract a category's fields into its Value type. They are
// total: absent optional fields default to zero values, malformed embedded
// JSON falls back to the original string, and unrecognized sub-content is
// preserved rather than dropped. Normalizers never modify the payload;
// every returned structure is freshly built.

func normalizeErrorText(text string) Value {
	return ErrorText{Message: strings.TrimPrefix(text, errorPrefix)}
}

func normalizeSessionHistory(text string) Value {
	var lines []HistoryLine
	for _, line := range nonBlankLines(text) {
		var v any
		if err := json.Unmarshal([]byte(line), &v); err != nil {
			continue
		}
		obj, ok := v.(map[string]any)
		if !ok {
			continue
		}
		t, _ := stringField(obj, "type")
		lines = append(lines, HistoryLine{Type: t, Text: historyLineText(obj)})
	}
	return SessionHistory{Lines: lines, Raw: text}
}

// historyLineText pulls a display string out of one chat record, looking
// at message.content first, then the record's own content field.
func historyLineText(obj map[string]any) string {
	if m, ok := mapField(obj, "message"); ok {
		return contentText(m["content"])
	}
	if s, ok := stringField(obj, "message"); ok {
		return s
	}
	return contentText(obj["content"])
}

// contentText flattens a content value (string, block array, or anything
// else) into plain text.
func contentText(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case []any:
		var parts []string
		for _, e := range c {
			switch b := e.(type) {
			case map[string]any:
				if t, _ := stringField(b, "text"); t != "" {
					parts = append(parts, t)
				}
			case string:
				parts = append(parts, b)
			}
		}
		return strings.Join(parts, "\n")
	case nil:
		return ""
	default:
		return compactJSON(v)
	}
}

func normalizeNumberedContent(text string) Value {
	lines := strings.Split(text, "\n")
	code := make([]string, 0, len(lines))
	first, last := int64(0), int64(0)
	for _, line := range lines {
		m := gutterRegex.FindStringSubmatch(line)
		if m == nil {
			code = append(code, line)
			continue
		}
		if n, err := strconv.ParseInt(m[2], 10, 64); err == nil {
			if first == 0 {
				first = n
			}
			last = n
		}
		code = append(code, line[len(m[0]):])
	}

	desc := ""
	switch {
	case first != 0 && first == last:
		desc = fmt.Sprintf("line %d", first)
	case first != 0:
		desc = fmt.Sprintf("lines %d-%d", first, last)
	}
	return NumberedFile{Code: strings.Join(code, "\n"), Description: desc}
}

func normalizeFileSearch(text string) Value {
	lines := strings.Split(text, "\n")
	out := FileMatches{Raw: text}
	if foundFilesRegex.MatchString(lines[0]) {
		out.Header = strings.TrimSpace(lines[0])
		for _, line := range lines[1:] {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				out.Files = append(out.Files, trimmed)
			}
		}
		return out
	}
	for _, line := range lines {
		if sourcePathRegex.MatchString(line) {
			out.Files = append(out.Files, strings.TrimSpace(line))
		}
	}
	return out
}

func normalizeMCP(obj map[string]any) Value {
	blocks, _ := arrayField(obj, "content")
	return MCPResult{
		Blocks:  blocksFrom(blocks),
		IsError: boolField(obj, "isError"),
	}
}

func normalizeCodebaseContext(obj map[string]any) Value {
	blocks, _ := arrayField(obj, "content")
	return CodebaseContext{
		Blocks:       blocksFrom(blocks),
		DurationMs:   intField(obj, "totalDurationMs"),
		Tokens:       intField(obj, "totalTokens"),
		ToolUseCount: intField(obj, "totalToolUseCount"),
		Interrupted:  boolField(obj, "wasInterrupted"),
	}
}

func normalizeTerminalStream(obj map[string]any) Value {
	stdout, _ := stringField(obj, "stdout")
	stderr, _ := stringField(obj, "stderr")
	interp, _ := stringField(obj, "returnCodeInterpretation")
	return TerminalStream{
		Stdout:         stdout,
		Stderr:         stderr,
		Interrupted:    boolField(obj, "interrupted"),
		IsImage:        boolField(obj, "isImage"),
		Interpretation: interp,
	}
}

func normalizeGitWorkflow(obj map[string]any) Value {
	cmd, _ := stringField(obj, "command")
	out := GitWorkflow{Command: cmd}
	for _, key := range []string{"output", "stdout", "result"} {
		if s, ok := stringField(obj, key); ok && s != "" {
			out.Output = s
			break
		}
	}
	if n, ok := numberField(obj, "exitCode"); ok {
		out.ExitCode = int64(n)
	} else if n, ok := numberField(obj, "code"); ok {
		out.ExitCode = int64(n)
	}
	return out
}

func normalizeWebSearch(obj map[string]any) Value {
	query, _ := stringField(obj, "query")
	raw, _ := arrayField(obj, "results")
	results := make([]any, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			results = append(results, decodeJSONOrKeep(s))
			continue
		}
		results = append(results, r)
	}
	duration, _ := numberField(obj, "durationSeconds")
	return WebSearch{Query: query, Results: results, DurationSeconds: duration}
}

// decodeJSONOrKeep tries to decode a string that looks like a JSON record.
// On any parse failure the original string passes through unmodified.
func decodeJSONOrKeep(s string) any {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return s
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return s
	}
	return v
}

func normalizeTodoUpdate(obj map[string]any) Value {
	return TodoUpdate{
		New: todosFrom(obj["newTodos"]),
		Old: todosFrom(obj["oldTodos"]),
	}
}

func todosFrom(v any) []Todo {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	todos := make([]Todo, 0, len(arr))
	for _, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		todo := Todo{}
		todo.Content, _ = stringField(m, "content")
		todo.Status, _ = stringField(m, "status")
		todo.Priority, _ = stringField(m, "priority")
		todo.ActiveForm, _ = stringField(m, "activeForm")
		if id, ok := stringField(m, "id"); ok {
			todo.ID = id
		} else if n, ok := numberField(m, "id"); ok {
			todo.ID = strconv.FormatInt(int64(n), 10)
		}
		todos = append(todos, todo)
	}
	return todos
}

func normalizeFileList(obj map[string]any) Value {
	raw, _ := arrayField(obj, "filenames")
	return FileList{
		Filenames:  stringsFrom(raw),
		NumFiles:   intField(obj, "numFiles"),
		DurationMs: intField(obj, "durationMs"),
		Truncated:  boolField(obj, "truncated"),
	}
}

func normalizeFileObject(obj map[string]any) Value {
	info := FileInfo{}
	if f, ok := mapField(obj, "file"); ok {
		info = fileInfoFrom(f)
	} else {
		info = fileInfoFrom(obj)
	}

	out := FileObject{File: info}
	if info.Content != "" {
		inner := classifyText(info.Content)
		// Numbered content inherits its language from the file path,
		// which the bare text cannot know on its own.
		if nf, ok := inner.Value.(NumberedFile); ok && nf.Language == "" {
			nf.Language = languageForPath(info.FilePath)
			inner.Value = nf
		}
		out.Inner = &inner
	}
	return out
}

func fileInfoFrom(obj map[string]any) FileInfo {
	info := FileInfo{}
	info.FilePath, _ = stringField(obj, "filePath")
	info.Content = contentText(obj["content"])
	info.NumLines = intField(obj, "numLines")
	info.StartLine = intField(obj, "startLine")
	info.TotalLines = intField(obj, "totalLines")
	return info
}

func normalizeFileEdit(obj map[string]any) Value {
	edit := FileEdit{}
	edit.FilePath, _ = stringField(obj, "filePath")
	edit.OldString, _ = stringField(obj, "oldString")
	edit.NewString, _ = stringField(obj, "newString")
	edit.OriginalFile, _ = stringField(obj, "originalFile")
	edit.ReplaceAll = boolField(obj, "replaceAll")
	edit.UserModified = boolField(obj, "userModified")
	if hunks, ok := arrayField(obj, "structuredPatch"); ok {
		edit.Patch = hunksFrom(hunks)
	}
	return edit
}

func normalizeStructuredPatch(obj map[string]any) Value {
	patch := StructuredPatch{}
	patch.FilePath, _ = stringField(obj, "filePath")
	patch.UserModified = boolField(obj, "userModified")
	hunks, _ := arrayField(obj, "structuredPatch")
	patch.Hunks = hunksFrom(hunks)
	return patch
}

func hunksFrom(arr []any) []PatchHunk {
	hunks := make([]PatchHunk, 0, len(arr))
	for _, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		lines, _ := arrayField(m, "lines")
		hunks = append(hunks, PatchHunk{
			OldStart: intField(m, "oldStart"),
			OldLines: intField(m, "oldLines"),
			NewStart: intField(m, "newStart"),
			NewLines: intField(m, "newLines"),
			Lines:    stringsFrom(lines),
		})
	}
	return hunks
}

func normalizeGeneric(obj map[string]any) Value {
	g := Generic{Raw: obj}
	g.Stdout, _ = stringField(obj, "stdout")
	g.Stderr, _ = stringField(obj, "stderr")
	g.FilePath, _ = stringField(obj, "filePath")
	g.Interrupted = boolField(obj, "interrupted")
	g.IsImage = boolField(obj, "isImage")
	return g
}

func blocksFrom(arr []any) []Block {
	blocks := make([]Block, 0, len(arr))
	for _, e := range arr {
		switch b := e.(type) {
		case map[string]any:
			block := Block{Raw: b}
			block.Type, _ = stringField(b, "type")
			block.Text, _ = stringField(b, "text")
			blocks = append(blocks, block)
		case string:
			blocks = append(blocks, Block{Type: "text", Text: b})
		default:
			blocks = append(blocks, Block{Text: compactJSON(e)})
		}
	}
	return blocks
}

func stringsFrom(arr []any) []string {
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, compactJSON(e))
	}
	return out
}

func intField(obj map[string]any, key string) int64 {
	n, _ := numberField(obj, key)
	return int64(n)
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// languageForPath maps a file extension to the language tag used for
// syntax-highlighted display.
func languageForPath(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "ts", "tsx":
		return "typescript"
	case "js", "jsx":
		return "javascript"
	case "py":
		return "python"
	case "java":
		return "java"
	case "rs":
		return "rust"
	case "go":
		return "go"
	case "php":
		return "php"
	case "rb":
		return "ruby"
	case "vue":
		return "vue"
	case "svelte":
		return "svelte"
	default:
		return ""
	}
}
