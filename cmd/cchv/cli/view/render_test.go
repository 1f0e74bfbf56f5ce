package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/classify"
)

func renderPlain(t *testing.T, payload any) string {
	t.Helper()
	reg := NewRegistry(NewPalette(ColorNever, nil))
	var buf bytes.Buffer
	require.NoError(t, reg.Render(&buf, classify.Classify(payload)))
	return buf.String()
}

func TestRender_Error(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, "Error: file not found")
	assert.Equal(t, "Error: file not found\n", got)
}

func TestRender_TerminalStream(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, map[string]any{
		"stdout":      "PASS\nok",
		"stderr":      "warning: slow test",
		"interrupted": true,
	})
	assert.Equal(t, "PASS\nok\nwarning: slow test\n[interrupted]\n", got)
}

func TestRender_GitWorkflow(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, map[string]any{
		"command":  "git",
		"output":   "On branch main",
		"exitCode": float64(1),
	})
	assert.Equal(t, "$ git\nOn branch main\nexit 1\n", got)
}

func TestRender_TodoUpdate(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, map[string]any{
		"newTodos": []any{
			map[string]any{"content": "write parser", "status": "completed"},
			map[string]any{"content": "write renderer", "status": "in_progress"},
			map[string]any{"content": "write docs", "status": "pending"},
		},
	})
	want := "todos (3)\n" +
		"  [x] write parser\n" +
		"  [~] write renderer\n" +
		"  [ ] write docs\n"
	assert.Equal(t, want, got)
}

func TestRender_FileList(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, map[string]any{
		"filenames": []any{"a.go", "b.go"},
		"numFiles":  float64(2),
	})
	assert.Equal(t, "2 files\n  a.go\n  b.go\n", got)
}

func TestRender_FileEdit_Diff(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, map[string]any{
		"filePath":  "/src/main.go",
		"oldString": "a\nb\nc",
		"newString": "a\nB\nc",
	})
	assert.Contains(t, got, "edit /src/main.go")
	assert.Contains(t, got, "- b")
	assert.Contains(t, got, "+ B")
	assert.Contains(t, got, "  a")
	assert.Contains(t, got, "  c")
}

func TestRender_StructuredPatch(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, map[string]any{
		"filePath": "/src/util.go",
		"structuredPatch": []any{
			map[string]any{
				"oldStart": float64(3), "oldLines": float64(2),
				"newStart": float64(3), "newLines": float64(2),
				"lines": []any{" ctx", "-old line", "+new line"},
			},
		},
	})
	want := "patch /src/util.go\n" +
		"@@ -3,2 +3,2 @@\n" +
		" ctx\n" +
		"-old line\n" +
		"+new line\n"
	assert.Equal(t, want, got)
}

func TestRender_NumberedFile(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, "     1→package main\n     2→func main() {}")
	assert.Equal(t, "lines 1-2\npackage main\nfunc main() {}\n", got)
}

func TestRender_FileSearch(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, "Found 2 files\nsrc/a.go\nsrc/b.go")
	assert.Equal(t, "Found 2 files\n  src/a.go\n  src/b.go\n", got)
}

func TestRender_ContentArray_Recurses(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, map[string]any{
		"content": []any{
			"plain text item",
			"Error: nested failure",
		},
	})
	assert.Equal(t, "plain text item\nError: nested failure\n", got)
}

func TestRender_FileObject_NestedNumberedContent(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, map[string]any{
		"file": map[string]any{
			"filePath": "/src/x.go",
			"content":  "     1→package x\n     2→var y int",
			"numLines": float64(2),
		},
	})
	assert.Contains(t, got, "/src/x.go (2 lines)")
	assert.Contains(t, got, "package x")
	assert.NotContains(t, got, "→")
}

func TestRender_MCPResult_ErrorFlag(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, map[string]any{
		"isError": true,
		"content": []any{
			map[string]any{"type": "text", "text": "tool exploded"},
		},
	})
	assert.Contains(t, got, "mcp result (error)")
	assert.Contains(t, got, "  tool exploded")
}

func TestRender_Fallback_DumpsJSON(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, map[string]any{"unrecognized": "shape"})
	assert.Contains(t, got, `"unrecognized"`)
	assert.Contains(t, got, `"shape"`)
}

func TestRender_SessionHistory(t *testing.T) {
	t.Parallel()

	payload := `{"type":"user","message":{"role":"user","content":"hi"}}` + "\n" +
		`{"type":"assistant","message":{"role":"assistant","content":"hello"}}`
	got := renderPlain(t, payload)
	assert.Contains(t, got, "embedded transcript (2 lines)")
	assert.Contains(t, got, "user")
	assert.Contains(t, got, "assistant")
}

func TestRender_ColorAlways_EmitsANSI(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(NewPalette(ColorAlways, nil))
	var buf bytes.Buffer
	require.NoError(t, reg.Render(&buf, classify.Classify("Error: boom")))
	assert.True(t, strings.Contains(buf.String(), "\x1b["))
}

func TestPalette_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	pal := NewPalette(ColorAuto, nil)
	assert.False(t, pal.Enabled())
	assert.Equal(t, "plain", pal.Error("plain"))
}
