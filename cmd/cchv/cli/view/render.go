package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/classify"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/jsonutil"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/stringutil"
)

// renderFunc adapts a function to the classify.Renderer interface.
type renderFunc func(w io.Writer, res classify.Result) error

func (f renderFunc) Render(w io.Writer, res classify.Result) error {
	return f(w, res)
}

// renderer holds the palette and the registry it is wired into, so the
// content-array renderer can recurse through the same dispatch.
type renderer struct {
	pal Palette
	reg *classify.Registry
}

// NewRegistry builds the category-to-renderer registry for terminal
// output. Every classification category gets a renderer; the fallback
// dumps raw JSON so unknown shapes still display.
func NewRegistry(pal Palette) *classify.Registry {
	r := &renderer{pal: pal}
	reg := classify.NewRegistry(renderFunc(r.renderRawValue))
	r.reg = reg

	reg.Register(classify.CategoryError, renderFunc(r.renderError))
	reg.Register(classify.CategorySessionHistory, renderFunc(r.renderSessionHistory))
	reg.Register(classify.CategoryMCPToolCall, renderFunc(r.renderMCP))
	reg.Register(classify.CategoryCodebaseContext, renderFunc(r.renderCodebaseContext))
	reg.Register(classify.CategoryTerminalStream, renderFunc(r.renderTerminalStream))
	reg.Register(classify.CategoryGitWorkflow, renderFunc(r.renderGitWorkflow))
	reg.Register(classify.CategoryWebSearch, renderFunc(r.renderWebSearch))
	reg.Register(classify.CategoryTodoUpdate, renderFunc(r.renderTodoUpdate))
	reg.Register(classify.CategoryFileList, renderFunc(r.renderFileList))
	reg.Register(classify.CategoryFileObject, renderFunc(r.renderFileObject))
	reg.Register(classify.CategoryFileEdit, renderFunc(r.renderFileEdit))
	reg.Register(classify.CategoryStructuredPatch, renderFunc(r.renderStructuredPatch))
	reg.Register(classify.CategoryNumberedFile, renderFunc(r.renderNumberedFile))
	reg.Register(classify.CategoryFileSearch, renderFunc(r.renderFileSearch))
	reg.Register(classify.CategoryContentArray, renderFunc(r.renderContentArray))
	reg.Register(classify.CategoryPlainString, renderFunc(r.renderPlainString))
	reg.Register(classify.CategoryGeneric, renderFunc(r.renderGeneric))
	reg.Register(classify.CategoryEmptyFallback, renderFunc(r.renderRawValue))
	return reg
}

func (r *renderer) renderError(w io.Writer, res classify.Result) error {
	v, ok := res.Value.(classify.ErrorText)
	if !ok {
		return r.renderRawValue(w, res)
	}
	_, err := fmt.Fprintln(w, r.pal.Error("Error: "+v.Message))
	return err
}

func (r *renderer) renderSessionHistory(w io.Writer, res classify.Result) error {
	v, ok := res.Value.(classify.SessionHistory)
	if !ok {
		return r.renderRawValue(w, res)
	}
	if _, err := fmt.Fprintln(w, r.pal.Heading(fmt.Sprintf("embedded transcript (%d lines)", len(v.Lines)))); err != nil {
		return err
	}
	for _, line := range v.Lines {
		label := line.Type
		if label == "user" {
			label = r.pal.User(label)
		} else {
			label = r.pal.Assistant(label)
		}
		if _, err := fmt.Fprintf(w, "  %s %s\n", label, stringutil.Preview(line.Text, 100)); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderMCP(w io.Writer, res classify.Result) error {
	v, ok := res.Value.(classify.MCPResult)
	if !ok {
		return r.renderRawValue(w, res)
	}
	header := "mcp result"
	if v.IsError {
		header = r.pal.Error("mcp result (error)")
	} else {
		header = r.pal.Heading(header)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	return r.writeBlocks(w, v.Blocks)
}

func (r *renderer) renderCodebaseContext(w io.Writer, res classify.Result) error {
	v, ok := res.Value.(classify.CodebaseContext)
	if !ok {
		return r.renderRawValue(w, res)
	}
	summary := fmt.Sprintf("agent exploration: %d tool uses, %d tokens, %dms",
		v.ToolUseCount, v.Tokens, v.DurationMs)
	if v.Interrupted {
		summary += " (interrupted)"
	}
	if _, err := fmt.Fprintln(w, r.pal.Heading(summary)); err != nil {
		return err
	}
	return r.writeBlocks(w, v.Blocks)
}

func (r *renderer) writeBlocks(w io.Writer, blocks []classify.Block) error {
	for _, b := range blocks {
		text := b.Text
		if text == "" && b.Raw != nil {
			data, err := jsonutil.MarshalIndentWithNewline(b.Raw)
			if err == nil {
				text = strings.TrimSuffix(string(data), "\n")
			}
		}
		if _, err := fmt.Fprintln(w, indent(text, "  ")); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderTerminalStream(w io.Writer, res classify.Result) error {
	v, ok := res.Value.(classify.TerminalStream)
	if !ok {
		return r.renderRawValue(w, res)
	}
	if v.Stdout != "" {
		if _, err := fmt.Fprintln(w, strings.TrimRight(v.Stdout, "\n")); err != nil {
			return err
		}
	}
	if v.Stderr != "" {
		if _, err := fmt.Fprintln(w, r.pal.Error(strings.TrimRight(v.Stderr, "\n"))); err != nil {
			return err
		}
	}
	if v.Interrupted {
		if _, err := fmt.Fprintln(w, r.pal.Dim("[interrupted]")); err != nil {
			return err
		}
	}
	if v.Interpretation != "" {
		if _, err := fmt.Fprintln(w, r.pal.Dim(v.Interpretation)); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderGitWorkflow(w io.Writer, res classify.Result) error {
	v, ok := res.Value.(classify.GitWorkflow)
	if !ok {
		return r.renderRawValue(w, res)
	}
	if _, err := fmt.Fprintln(w, r.pal.Heading("$ "+v.Command)); err != nil {
		return err
	}
	if v.Output != "" {
		if _, err := fmt.Fprintln(w, strings.TrimRight(v.Output, "\n")); err != nil {
			return err
		}
	}
	if v.ExitCode != 0 {
		if _, err := fmt.Fprintln(w, r.pal.Error(fmt.Sprintf("exit %d", v.ExitCode))); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderWebSearch(w io.Writer, res classify.Result) error {
	v, ok := res.Value.(classify.WebSearch)
	if !ok {
		return r.renderRawValue(w, res)
	}
	if _, err := fmt.Fprintln(w, r.pal.Heading("web search: "+v.Query)); err != nil {
		return err
	}
	for _, item := range v.Results {
		switch it := item.(type) {
		case string:
			if _, err := fmt.Fprintln(w, "  "+stringutil.Preview(it, 120)); err != nil {
				return err
			}
		case map[string]any:
			title, _ := it["title"].(string)
			url, _ := it["url"].(string)
			line := strings.TrimSpace(title + " " + r.pal.Dim(url))
			if line == "" {
				line = previewJSON(it)
			}
			if _, err := fmt.Fprintln(w, "  "+line); err != nil {
				return err
			}
		default:
			if _, err := fmt.Fprintln(w, "  "+previewJSON(item)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *renderer) renderTodoUpdate(w io.Writer, res classify.Result) error {
	v, ok := res.Value.(classify.TodoUpdate)
	if !ok {
		return r.renderRawValue(w, res)
	}
	todos := v.New
	if len(todos) == 0 {
		todos = v.Old
	}
	if _, err := fmt.Fprintln(w, r.pal.Heading(fmt.Sprintf("todos (%d)", len(todos)))); err != nil {
		return err
	}
	for _, todo := range todos {
		mark := "[ ]"
		switch todo.Status {
		case "completed":
			mark = r.pal.Added("[x]")
		case "in_progress":
			mark = r.pal.User("[~]")
		}
		if _, err := fmt.Fprintf(w, "  %s %s\n", mark, todo.Content); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderFileList(w io.Writer, res classify.Result) error {
	v, ok := res.Value.(classify.FileList)
	if !ok {
		return r.renderRawValue(w, res)
	}
	header := fmt.Sprintf("%d files", v.NumFiles)
	if v.Truncated {
		header += " (truncated)"
	}
	if _, err := fmt.Fprintln(w, r.pal.Heading(header)); err != nil {
		return err
	}
	for _, name := range v.Filenames {
		if _, err := fmt.Fprintln(w, "  "+name); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderFileObject(w io.Writer, res classify.Result) error {
	v, ok := res.Value.(classify.FileObject)
	if !ok {
		return r.renderRawValue(w, res)
	}
	header := v.File.FilePath
	if header == "" {
		header = "file"
	}
	if v.File.NumLines > 0 {
		header += fmt.Sprintf(" (%d lines)", v.File.NumLines)
	}
	if _, err := fmt.Fprintln(w, r.pal.Heading(header)); err != nil {
		return err
	}
	// Nested content renders through the same dispatch as top-level
	// payloads.
	if v.Inner != nil {
		return r.reg.Render(w, *v.Inner)
	}
	if v.File.Content != "" {
		_, err := fmt.Fprintln(w, strings.TrimRight(v.File.Content, "\n"))
		return err
	}
	return nil
}

func (r *renderer) renderFileEdit(w io.Writer, res classify.Result) error {
	v, ok := res.Value.(classify.FileEdit)
	if !ok {
		return r.renderRawValue(w, res)
	}
	header := "edit " + v.FilePath
	if v.ReplaceAll {
		header += " (replace all)"
	}
	if v.UserModified {
		header += " (user modified)"
	}
	if _, err := fmt.Fprintln(w, r.pal.Heading(header)); err != nil {
		return err
	}
	if len(v.Patch) > 0 {
		return r.writeHunks(w, v.Patch)
	}
	return r.writeDiff(w, v.OldString, v.NewString)
}

func (r *renderer) renderStructuredPatch(w io.Writer, res classify.Result) error {
	v, ok := res.Value.(classify.StructuredPatch)
	if !ok {
		return r.renderRawValue(w, res)
	}
	header := "patch " + v.FilePath
	if v.UserModified {
		header += " (user modified)"
	}
	if _, err := fmt.Fprintln(w, r.pal.Heading(header)); err != nil {
		return err
	}
	return r.writeHunks(w, v.Hunks)
}

func (r *renderer) renderNumberedFile(w io.Writer, res classify.Result) error {
	v, ok := res.Value.(classify.NumberedFile)
	if !ok {
		return r.renderRawValue(w, res)
	}
	if v.Description != "" || v.Language != "" {
		header := strings.TrimSpace(v.Language + " " + v.Description)
		if _, err := fmt.Fprintln(w, r.pal.Dim(header)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(v.Code, "\n"))
	return err
}

func (r *renderer) renderFileSearch(w io.Writer, res classify.Result) error {
	v, ok := res.Value.(classify.FileMatches)
	if !ok {
		return r.renderRawValue(w, res)
	}
	if v.Header != "" {
		if _, err := fmt.Fprintln(w, r.pal.Heading(v.Header)); err != nil {
			return err
		}
	}
	for _, f := range v.Files {
		if _, err := fmt.Fprintln(w, "  "+f); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderContentArray(w io.Writer, res classify.Result) error {
	v, ok := res.Value.(classify.ContentArray)
	if !ok {
		return r.renderRawValue(w, res)
	}
	for _, item := range v.Items {
		if err := r.reg.Render(w, item); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderPlainString(w io.Writer, res classify.Result) error {
	v, ok := res.Value.(classify.PlainText)
	if !ok {
		return r.renderRawValue(w, res)
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(v.Text, "\n"))
	return err
}

func (r *renderer) renderGeneric(w io.Writer, res classify.Result) error {
	v, ok := res.Value.(classify.Generic)
	if !ok {
		return r.renderRawValue(w, res)
	}
	wrote := false
	if v.Stdout != "" {
		if _, err := fmt.Fprintln(w, strings.TrimRight(v.Stdout, "\n")); err != nil {
			return err
		}
		wrote = true
	}
	if v.Stderr != "" {
		if _, err := fmt.Fprintln(w, r.pal.Error(strings.TrimRight(v.Stderr, "\n"))); err != nil {
			return err
		}
		wrote = true
	}
	if v.Text != "" {
		if _, err := fmt.Fprintln(w, v.Text); err != nil {
			return err
		}
		wrote = true
	}
	if !wrote {
		if v.FilePath != "" {
			_, err := fmt.Fprintln(w, r.pal.Dim(v.FilePath))
			return err
		}
		_, err := fmt.Fprintln(w, r.pal.Dim("(no output)"))
		return err
	}
	return nil
}

// renderRawValue is the fallback: dump whatever normalized value we have
// as indented JSON so nothing is ever silently dropped.
func (r *renderer) renderRawValue(w io.Writer, res classify.Result) error {
	data, err := jsonutil.MarshalIndentWithNewline(res.Value)
	if err != nil {
		_, werr := fmt.Fprintf(w, "%v\n", res.Value)
		return werr
	}
	_, err = w.Write(data)
	return err
}

func previewJSON(v any) string {
	data, err := jsonutil.MarshalIndentWithNewline(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return stringutil.Preview(string(data), 120)
}

func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
