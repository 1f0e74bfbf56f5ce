// Package transcript provides types and parsing for Claude Code JSONL
// session files. Each line of a session file is one Entry; tool results
// stay as raw JSON so the classify package can inspect them untyped.
package transcript

import "encoding/json"

// Entry type constants for transcript lines.
const (
	TypeUser      = "user"
	TypeAssistant = "assistant"
	TypeSummary   = "summary"
	TypeSystem    = "system"
)

// Content type constants for content blocks within messages.
const (
	ContentTypeText       = "text"
	ContentTypeToolUse    = "tool_use"
	ContentTypeToolResult = "tool_result"
	ContentTypeThinking   = "thinking"
	ContentTypeImage      = "image"
)

// Defaults applied when a line is missing identifying fields.
const (
	UnknownSessionID = "unknown-session"
)

// TokenUsage carries the token counts attached to an assistant message.
type TokenUsage struct {
	InputTokens         int64  `json:"input_tokens,omitempty"`
	OutputTokens        int64  `json:"output_tokens,omitempty"`
	CacheCreationTokens int64  `json:"cache_creation_input_tokens,omitempty"`
	CacheReadTokens     int64  `json:"cache_read_input_tokens,omitempty"`
	ServiceTier         string `json:"service_tier,omitempty"`
}

// Total returns the sum of all token counts.
func (u TokenUsage) Total() int64 {
	return u.InputTokens + u.OutputTokens + u.CacheCreationTokens + u.CacheReadTokens
}

// IsZero reports whether no counter is set.
func (u TokenUsage) IsZero() bool {
	return u.InputTokens == 0 && u.OutputTokens == 0 &&
		u.CacheCreationTokens == 0 && u.CacheReadTokens == 0
}

// MessageBody is the inner message record on user/assistant lines.
// Content stays raw: it may be a string or a content-block array, and the
// classifier handles both.
type MessageBody struct {
	Role       string          `json:"role,omitempty"`
	Content    json.RawMessage `json:"content,omitempty"`
	ID         string          `json:"id,omitempty"`
	Model      string          `json:"model,omitempty"`
	StopReason string          `json:"stop_reason,omitempty"`
	Usage      *TokenUsage     `json:"usage,omitempty"`
}

// Entry is one line of a session JSONL file, the raw envelope before
// flattening. Optional fields are pointers or omitempty so a re-encoded
// entry round-trips without inventing keys.
type Entry struct {
	UUID          string          `json:"uuid,omitempty"`
	ParentUUID    string          `json:"parentUuid,omitempty"`
	SessionID     string          `json:"sessionId,omitempty"`
	Timestamp     string          `json:"timestamp,omitempty"`
	Type          string          `json:"type"`
	Summary       string          `json:"summary,omitempty"`
	LeafUUID      string          `json:"leafUuid,omitempty"`
	Message       *MessageBody    `json:"message,omitempty"`
	ToolUse       json.RawMessage `json:"toolUse,omitempty"`
	ToolUseResult json.RawMessage `json:"toolUseResult,omitempty"`
	IsSidechain   bool            `json:"isSidechain,omitempty"`
	IsMeta        bool            `json:"isMeta,omitempty"`
	CWD           string          `json:"cwd,omitempty"`
	GitBranch     string          `json:"gitBranch,omitempty"`
	Version       string          `json:"version,omitempty"`
}

// IsSummary reports whether the entry is a session summary line. Only the
// type field decides; a conversation line that happens to carry a summary
// key is still a conversation line.
func (e *Entry) IsSummary() bool {
	return e.Type == TypeSummary
}

// ContentBlock is one block of an assistant or user message content array.
type ContentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	Name      string          `json:"name,omitempty"`
	ID        string          `json:"id,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
}

// ToolInput represents the input to various tools. Used to extract file
// paths and descriptions from tool calls for display and tool-usage stats.
type ToolInput struct {
	FilePath     string `json:"file_path,omitempty"`
	NotebookPath string `json:"notebook_path,omitempty"`
	Description  string `json:"description,omitempty"`
	Command      string `json:"command,omitempty"`
	Pattern      string `json:"pattern,omitempty"`
	URL          string `json:"url,omitempty"`
	Prompt       string `json:"prompt,omitempty"`
	Query        string `json:"query,omitempty"`
}

// Message is the flattened per-line view the session store and stats
// operate on: envelope fields resolved, defaults applied.
type Message struct {
	UUID          string          `json:"uuid"`
	ParentUUID    string          `json:"parentUuid,omitempty"`
	SessionID     string          `json:"sessionId"`
	Timestamp     string          `json:"timestamp"`
	Type          string          `json:"type"`
	Role          string          `json:"role,omitempty"`
	Model         string          `json:"model,omitempty"`
	StopReason    string          `json:"stopReason,omitempty"`
	Content       json.RawMessage `json:"content,omitempty"`
	ToolUse       json.RawMessage `json:"toolUse,omitempty"`
	ToolUseResult json.RawMessage `json:"toolUseResult,omitempty"`
	Usage         *TokenUsage     `json:"usage,omitempty"`
	IsSidechain   bool            `json:"isSidechain,omitempty"`
	IsMeta        bool            `json:"isMeta,omitempty"`
	CWD           string          `json:"cwd,omitempty"`
	GitBranch     string          `json:"gitBranch,omitempty"`
	Summary       string          `json:"summary,omitempty"`
}

// ContentBlocks decodes the message content as a block array. A plain
// string content becomes a single text block; undecodable content yields
// nil.
func (m *Message) ContentBlocks() []ContentBlock {
	return DecodeContentBlocks(m.Content)
}

// Text flattens the message content into display text: string content
// as-is, block arrays joined by their text fields.
func (m *Message) Text() string {
	return ContentText(m.Content)
}

// Todo is one checklist item from a TodoWrite tool result.
type Todo struct {
	Content    string `json:"content"`
	Status     string `json:"status"`
	Priority   string `json:"priority,omitempty"`
	ID         string `json:"id,omitempty"`
	ActiveForm string `json:"activeForm,omitempty"`
}
