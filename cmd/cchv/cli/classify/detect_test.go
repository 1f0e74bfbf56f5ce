package classify

import "testing"

func TestObjectDetectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		detect  func(map[string]any) bool
		payload map[string]any
		want    bool
	}{
		{
			name:   "mcp_result_with_typed_blocks",
			detect: isMCPToolResult,
			payload: map[string]any{
				"isError": false,
				"content": []any{map[string]any{"type": "text", "text": "ok"}},
			},
			want: true,
		},
		{
			name:   "mcp_requires_error_flag_key",
			detect: isMCPToolResult,
			payload: map[string]any{
				"content": []any{map[string]any{"type": "text", "text": "ok"}},
			},
			want: false,
		},
		{
			name:   "mcp_rejects_untyped_block",
			detect: isMCPToolResult,
			payload: map[string]any{
				"isError": true,
				"content": []any{map[string]any{"text": "ok"}},
			},
			want: false,
		},
		{
			name:   "mcp_rejects_empty_content",
			detect: isMCPToolResult,
			payload: map[string]any{"isError": false, "content": []any{}},
			want:    false,
		},
		{
			name:   "agent_summary_with_totals",
			detect: isCodebaseContext,
			payload: map[string]any{
				"content":         []any{map[string]any{"type": "text", "text": "done"}},
				"totalDurationMs": float64(1200),
			},
			want: true,
		},
		{
			name:   "agent_summary_requires_a_total",
			detect: isCodebaseContext,
			payload: map[string]any{
				"content": []any{map[string]any{"type": "text"}},
			},
			want: false,
		},
		{
			name:    "terminal_stream_with_stdout",
			detect:  isTerminalStream,
			payload: map[string]any{"stdout": "hello", "stderr": ""},
			want:    true,
		},
		{
			name:    "terminal_stream_with_stderr_only",
			detect:  isTerminalStream,
			payload: map[string]any{"stdout": "", "stderr": "boom"},
			want:    true,
		},
		{
			name:    "terminal_stream_rejects_all_empty",
			detect:  isTerminalStream,
			payload: map[string]any{"stdout": "", "stderr": ""},
			want:    false,
		},
		{
			name:    "git_command",
			detect:  isGitWorkflow,
			payload: map[string]any{"command": "git status", "output": "clean"},
			want:    true,
		},
		{
			name:    "git_bare_command",
			detect:  isGitWorkflow,
			payload: map[string]any{"command": "git"},
			want:    true,
		},
		{
			name:    "git_prefix_needs_word_break",
			detect:  isGitWorkflow,
			payload: map[string]any{"command": "github-backup run"},
			want:    false,
		},
		{
			name:    "web_search",
			detect:  isWebSearch,
			payload: map[string]any{"query": "foo", "results": []any{"bar"}},
			want:    true,
		},
		{
			name:    "web_search_rejects_empty_results",
			detect:  isWebSearch,
			payload: map[string]any{"query": "foo", "results": []any{}},
			want:    false,
		},
		{
			name:    "web_search_requires_string_query",
			detect:  isWebSearch,
			payload: map[string]any{"query": float64(1), "results": []any{"bar"}},
			want:    false,
		},
		{
			name:    "todo_update_new_key",
			detect:  isTodoUpdate,
			payload: map[string]any{"newTodos": []any{}},
			want:    true,
		},
		{
			name:    "todo_update_null_value_still_counts",
			detect:  isTodoUpdate,
			payload: map[string]any{"oldTodos": nil},
			want:    true,
		},
		{
			name:    "todo_update_absent_keys",
			detect:  isTodoUpdate,
			payload: map[string]any{"todos": []any{}},
			want:    false,
		},
		{
			name:    "file_list",
			detect:  isFileList,
			payload: map[string]any{"filenames": []any{"a.go"}, "numFiles": float64(1)},
			want:    true,
		},
		{
			name:    "file_list_requires_numeric_count",
			detect:  isFileList,
			payload: map[string]any{"filenames": []any{"a.go"}, "numFiles": "1"},
			want:    false,
		},
		{
			name:   "file_object_nested",
			detect: isFileObject,
			payload: map[string]any{
				"type": "text",
				"file": map[string]any{"filePath": "a.go", "content": "x"},
			},
			want: true,
		},
		{
			name:    "file_object_flat",
			detect:  isFileObject,
			payload: map[string]any{"filePath": "a.go", "content": "x"},
			want:    true,
		},
		{
			name:   "file_object_flat_yields_to_patch",
			detect: isFileObject,
			payload: map[string]any{
				"filePath":        "a.go",
				"content":         "x",
				"structuredPatch": []any{},
			},
			want: false,
		},
		{
			name:    "file_edit_old_string",
			detect:  isFileEdit,
			payload: map[string]any{"filePath": "a.ts", "oldString": "x"},
			want:    true,
		},
		{
			name:    "file_edit_original_file_alone",
			detect:  isFileEdit,
			payload: map[string]any{"filePath": "a.ts", "originalFile": "body"},
			want:    true,
		},
		{
			name:    "file_edit_requires_edit_field",
			detect:  isFileEdit,
			payload: map[string]any{"filePath": "a.ts"},
			want:    false,
		},
		{
			name:   "structured_patch",
			detect: isStructuredPatch,
			payload: map[string]any{
				"filePath":        "a.ts",
				"structuredPatch": []any{map[string]any{"oldStart": float64(1)}},
			},
			want: true,
		},
		{
			name:    "structured_patch_requires_array",
			detect:  isStructuredPatch,
			payload: map[string]any{"filePath": "a.ts", "structuredPatch": "diff"},
			want:    false,
		},
		{
			name:    "generic_fields_interrupted",
			detect:  hasGenericFields,
			payload: map[string]any{"interrupted": true},
			want:    true,
		},
		{
			name:    "generic_fields_none",
			detect:  hasGenericFields,
			payload: map[string]any{"weird": float64(1)},
			want:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.detect(tt.payload); got != tt.want {
				t.Errorf("detector returned %v, want %v for %v", got, tt.want, tt.payload)
			}
		})
	}
}

func TestToNumber(t *testing.T) {
	t.Parallel()

	if n, ok := toNumber(float64(3.5)); !ok || n != 3.5 {
		t.Errorf("toNumber(float64) = %v, %v", n, ok)
	}
	if n, ok := toNumber(int(7)); !ok || n != 7 {
		t.Errorf("toNumber(int) = %v, %v", n, ok)
	}
	if n, ok := toNumber(int64(9)); !ok || n != 9 {
		t.Errorf("toNumber(int64) = %v, %v", n, ok)
	}
	if _, ok := toNumber("12"); ok {
		t.Error("strings are not numbers")
	}
	if _, ok := toNumber(nil); ok {
		t.Error("nil is not a number")
	}
}
