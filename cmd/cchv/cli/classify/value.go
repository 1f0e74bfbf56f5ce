package classify

// Value is the normalized form of a classified payload. Each category has
// exactly one concrete Value type. The unexported method keeps the set
// closed so renderers can type-switch exhaustively.
type Value interface {
	category() Category
}

// Result pairs a category with its normalized value. Classify returns a
// fresh Result on every call; results are never cached.
type Result struct {
	Category Category `json:"category"`
	Value    Value    `json:"value"`
}

// ErrorText is the normalized form of an "Error: "-prefixed string result.
type ErrorText struct {
	// Message is the error text with the "Error: " prefix removed.
	Message string `json:"message"`
}

// HistoryLine is one chat line extracted from embedded session history.
type HistoryLine struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SessionHistory is the normalized form of a payload whose text is itself
// a JSONL conversation transcript (one chat record per line).
type SessionHistory struct {
	Lines []HistoryLine `json:"lines"`
	Raw   string        `json:"raw"`
}

// Block is a single content block inside an MCP or agent result.
type Block struct {
	Type string         `json:"type"`
	Text string         `json:"text"`
	Raw  map[string]any `json:"raw,omitempty"`
}

// MCPResult is the normalized form of an MCP tool call result: content
// blocks plus the protocol's error flag.
type MCPResult struct {
	Blocks  []Block `json:"blocks"`
	IsError bool    `json:"isError"`
}

// CodebaseContext is the normalized form of a sub-agent exploration
// summary: content blocks plus the run totals the agent reports.
type CodebaseContext struct {
	Blocks       []Block `json:"blocks"`
	DurationMs   int64   `json:"durationMs"`
	Tokens       int64   `json:"tokens"`
	ToolUseCount int64   `json:"toolUseCount"`
	Interrupted  bool    `json:"interrupted"`
}

// TerminalStream is the normalized form of command output with live
// stdout or stderr content.
type TerminalStream struct {
	Stdout         string `json:"stdout"`
	Stderr         string `json:"stderr"`
	Interrupted    bool   `json:"interrupted"`
	IsImage        bool   `json:"isImage"`
	Interpretation string `json:"interpretation"`
}

// GitWorkflow is the normalized form of a recorded git command result.
type GitWorkflow struct {
	Command  string `json:"command"`
	Output   string `json:"output"`
	ExitCode int64  `json:"exitCode"`
}

// WebSearch is the normalized form of a web search result. Results keeps
// the original elements; string elements that decode as JSON are replaced
// by their decoded value, anything else passes through unchanged.
type WebSearch struct {
	Query           string  `json:"query"`
	Results         []any   `json:"results"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// Todo is a single checklist item from a todo update.
type Todo struct {
	Content    string `json:"content"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	ID         string `json:"id"`
	ActiveForm string `json:"activeForm"`
}

// TodoUpdate is the normalized form of a todo list change.
type TodoUpdate struct {
	New []Todo `json:"newTodos"`
	Old []Todo `json:"oldTodos"`
}

// FileList is the normalized form of a file enumeration result.
type FileList struct {
	Filenames  []string `json:"filenames"`
	NumFiles   int64    `json:"numFiles"`
	DurationMs int64    `json:"durationMs"`
	Truncated  bool     `json:"truncated"`
}

// FileInfo describes a file carried inside a file object payload.
type FileInfo struct {
	FilePath   string `json:"filePath"`
	Content    string `json:"content"`
	NumLines   int64  `json:"numLines"`
	StartLine  int64  `json:"startLine"`
	TotalLines int64  `json:"totalLines"`
}

// FileObject is the normalized form of a payload carrying file content.
// Inner is the recursive classification of the file's content string, so
// embedded transcripts or numbered listings render the same way nested as
// they would at top level.
type FileObject struct {
	File  FileInfo `json:"file"`
	Inner *Result  `json:"inner,omitempty"`
}

// PatchHunk is one hunk of a structured patch.
type PatchHunk struct {
	OldStart int64    `json:"oldStart"`
	OldLines int64    `json:"oldLines"`
	NewStart int64    `json:"newStart"`
	NewLines int64    `json:"newLines"`
	Lines    []string `json:"lines"`
}

// FileEdit is the normalized form of a string replacement edit.
type FileEdit struct {
	FilePath     string      `json:"filePath"`
	OldString    string      `json:"oldString"`
	NewString    string      `json:"newString"`
	OriginalFile string      `json:"originalFile"`
	ReplaceAll   bool        `json:"replaceAll"`
	UserModified bool        `json:"userModified"`
	Patch        []PatchHunk `json:"structuredPatch,omitempty"`
}

// StructuredPatch is the normalized form of a hunk-based file change.
type StructuredPatch struct {
	FilePath     string      `json:"filePath"`
	Hunks        []PatchHunk `json:"structuredPatch"`
	UserModified bool        `json:"userModified"`
}

// NumberedFile is the normalized form of file content with line number
// gutters. Code holds the text with gutter markers stripped. Language is
// filled in when the enclosing payload names the file, empty otherwise.
type NumberedFile struct {
	Code        string `json:"code"`
	Language    string `json:"language"`
	Description string `json:"description"`
}

// FileMatches is the normalized form of file search output.
type FileMatches struct {
	Header string   `json:"header"`
	Files  []string `json:"files"`
	Raw    string   `json:"raw"`
}

// ContentArray is the normalized form of a payload whose content is a
// sequence of sub-payloads, each classified independently.
type ContentArray struct {
	Items []Result `json:"items"`
}

// PlainText is the normalized form of an unmatched string payload.
type PlainText struct {
	Text string `json:"text"`
}

// Generic is the normalized form of payloads that only carry the common
// metadata fields, plus scalar and empty-object edge inputs. Raw holds the
// original object when there was one.
type Generic struct {
	Stdout      string         `json:"stdout"`
	Stderr      string         `json:"stderr"`
	FilePath    string         `json:"filePath"`
	Interrupted bool           `json:"interrupted"`
	IsImage     bool           `json:"isImage"`
	Text        string         `json:"text"`
	Raw         map[string]any `json:"raw,omitempty"`
}

// Fallback is the normalized form of an object that matched no category:
// the raw object, unchanged, so nothing is ever dropped.
type Fallback struct {
	Raw map[string]any `json:"raw"`
}

func (ErrorText) category() Category       { return CategoryError }
func (SessionHistory) category() Category  { return CategorySessionHistory }
func (MCPResult) category() Category       { return CategoryMCPToolCall }
func (CodebaseContext) category() Category { return CategoryCodebaseContext }
func (TerminalStream) category() Category  { return CategoryTerminalStream }
func (GitWorkflow) category() Category     { return CategoryGitWorkflow }
func (WebSearch) category() Category       { return CategoryWebSearch }
func (TodoUpdate) category() Category      { return CategoryTodoUpdate }
func (FileList) category() Category        { return CategoryFileList }
func (FileObject) category() Category      { return CategoryFileObject }
func (FileEdit) category() Category        { return CategoryFileEdit }
func (StructuredPatch) category() Category { return CategoryStructuredPatch }
func (NumberedFile) category() Category    { return CategoryNumberedFile }
func (FileMatches) category() Category     { return CategoryFileSearch }
func (ContentArray) category() Category    { return CategoryContentArray }
func (PlainText) category() Category       { return CategoryPlainString }
func (Generic) category() Category         { return CategoryGeneric }
func (Fallback) category() Category        { return CategoryEmptyFallback }
