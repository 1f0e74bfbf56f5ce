// Package classify assigns tool result payloads to render categories.
//
// Tool results recorded in agent session files carry no type discriminant:
// a payload is either a bare string or a JSON object whose shape depends on
// the tool that produced it. This package inspects the structural signature
// of a payload and returns exactly one category plus a normalized view of
// the category's fields. Classification is pure and total: it never fails,
// never mutates its input, and identical inputs always produce identical
// results.
package classify

// Category is the semantic tag assigned to a classified payload.
type Category string

// Categories, in rough priority order. Overlapping signatures are resolved
// by the evaluation order in Classify, not by the detectors themselves.
const (
	CategoryError           Category = "error"
	CategorySessionHistory  Category = "claude-session-history"
	CategoryMCPToolCall     Category = "mcp-tool-call"
	CategoryCodebaseContext Category = "codebase-context"
	CategoryTerminalStream  Category = "terminal-stream"
	CategoryGitWorkflow     Category = "git-workflow"
	CategoryWebSearch       Category = "web-search"
	CategoryTodoUpdate      Category = "todo-update"
	CategoryFileList        Category = "file-list"
	CategoryFileObject      Category = "file-object"
	CategoryFileEdit        Category = "file-edit"
	CategoryStructuredPatch Category = "structured-patch"
	CategoryNumberedFile    Category = "numbered-file-content"
	CategoryFileSearch      Category = "file-search-result"
	CategoryContentArray    Category = "content-array"
	CategoryPlainString     Category = "plain-string"
	CategoryGeneric         Category = "generic-structured"
	CategoryEmptyFallback   Category = "empty-fallback"
)

// allCategories lists every category this package can produce.
var allCategories = []Category{
	CategoryError,
	CategorySessionHistory,
	CategoryMCPToolCall,
	CategoryCodebaseContext,
	CategoryTerminalStream,
	CategoryGitWorkflow,
	CategoryWebSearch,
	CategoryTodoUpdate,
	CategoryFileList,
	CategoryFileObject,
	CategoryFileEdit,
	CategoryStructuredPatch,
	CategoryNumberedFile,
	CategoryFileSearch,
	CategoryContentArray,
	CategoryPlainString,
	CategoryGeneric,
	CategoryEmptyFallback,
}

// Categories returns every category Classify can produce.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// Known reports whether c is a category this package produces.
func Known(c Category) bool {
	for _, k := range allCategories {
		if k == c {
			return true
		}
	}
	return false
}

// String returns the category tag.
func (c Category) String() string {
	return string(c)
}
