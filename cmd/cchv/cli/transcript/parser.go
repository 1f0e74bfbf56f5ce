package transcript

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/logging"
)

// maxLineSize is the scanner buffer cap. Tool results can embed whole
// files, so lines run far past bufio's default.
const maxLineSize = 8 * 1024 * 1024

// ParseResult is the outcome of parsing one session file. Messages holds
// the conversation lines; SummaryMessages holds summary lines materialized
// as type "summary" messages with the summary text as content. Warnings
// record lines that were skipped or repaired; a bad line never aborts the
// file.
type ParseResult struct {
	Messages        []Message
	SummaryMessages []Message
	Summary         string
	Warnings        []string
}

// ParseFile parses a session JSONL file.
func ParseFile(ctx context.Context, path string) (*ParseResult, error) {
	f, err := os.Open(path) //nolint:gosec // Path comes from scanning the user's own session dir
	if err != nil {
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}
	defer f.Close()
	return Parse(ctx, f)
}

// ParseBytes parses session JSONL content held in memory.
func ParseBytes(ctx context.Context, content []byte) (*ParseResult, error) {
	return Parse(ctx, strings.NewReader(string(content)))
}

// Parse reads JSONL from r, one entry per line. Blank lines are skipped.
// Lines that fail to decode are reported as warnings and skipped. Lines
// missing both sessionId and timestamp are skipped (they are not session
// data). Missing uuid/sessionId/timestamp fields are defaulted with a
// warning so downstream code can rely on them. The first summary line
// wins; later ones are ignored.
func Parse(ctx context.Context, r io.Reader) (*ParseResult, error) {
	ctx = logging.WithComponent(ctx, "transcript")
	result := &ParseResult{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			warn := fmt.Sprintf("line %d: skipping undecodable entry: %v", lineNo, err)
			result.Warnings = append(result.Warnings, warn)
			logging.Warn(ctx, "skipping undecodable entry",
				slog.Int("line", lineNo), slog.String("error", err.Error()))
			continue
		}

		if entry.IsSummary() {
			if entry.Summary == "" {
				continue
			}
			if result.Summary == "" {
				result.Summary = entry.Summary
			}
			msg, warns := flatten(&entry, lineNo)
			msg.Content, _ = json.Marshal(entry.Summary)
			result.SummaryMessages = append(result.SummaryMessages, msg)
			result.Warnings = append(result.Warnings, warns...)
			continue
		}

		// Entries with neither a session ID nor a timestamp are not
		// session data (hook output, stray JSON); skip them.
		if entry.SessionID == "" && entry.Timestamp == "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("line %d: skipping entry without sessionId or timestamp", lineNo))
			continue
		}

		msg, warns := flatten(&entry, lineNo)
		result.Warnings = append(result.Warnings, warns...)
		result.Messages = append(result.Messages, msg)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan session file: %w", err)
	}
	return result, nil
}

// flatten resolves an Entry into a Message, defaulting missing identity
// fields and recording a warning for each repair.
func flatten(entry *Entry, lineNo int) (Message, []string) {
	var warns []string

	msg := Message{
		UUID:          entry.UUID,
		ParentUUID:    entry.ParentUUID,
		SessionID:     entry.SessionID,
		Timestamp:     entry.Timestamp,
		Type:          entry.Type,
		ToolUse:       entry.ToolUse,
		ToolUseResult: entry.ToolUseResult,
		IsSidechain:   entry.IsSidechain,
		IsMeta:        entry.IsMeta,
		CWD:           entry.CWD,
		GitBranch:     entry.GitBranch,
		Summary:       entry.Summary,
	}

	if entry.Message != nil {
		msg.Role = entry.Message.Role
		msg.Model = entry.Message.Model
		msg.StopReason = entry.Message.StopReason
		msg.Content = entry.Message.Content
		msg.Usage = entry.Message.Usage
	}

	if msg.UUID == "" {
		msg.UUID = uuid.NewString()
		warns = append(warns, fmt.Sprintf("line %d: missing uuid, generated %s", lineNo, msg.UUID))
	}
	if msg.SessionID == "" {
		msg.SessionID = UnknownSessionID
		warns = append(warns, fmt.Sprintf("line %d: missing sessionId, defaulted", lineNo))
	}
	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
		warns = append(warns, fmt.Sprintf("line %d: missing timestamp, defaulted", lineNo))
	}

	return msg, warns
}

// DecodeContentBlocks decodes raw message content into blocks. String
// content becomes a single text block. Undecodable content yields nil.
func DecodeContentBlocks(raw json.RawMessage) []ContentBlock {
	if len(raw) == 0 {
		return nil
	}
	var blocks []ContentBlock
	if err := json.Unmarshal(raw, &blocks); err == nil {
		return blocks
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []ContentBlock{{Type: ContentTypeText, Text: s}}
	}
	return nil
}

// ContentText flattens raw message content into plain text.
func ContentText(raw json.RawMessage) string {
	blocks := DecodeContentBlocks(raw)
	var parts []string
	for _, b := range blocks {
		if b.Type == ContentTypeText && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// ToolResultValue decodes a raw toolUseResult into the generic any form
// the classifier consumes. Undecodable payloads come back as their raw
// text, which the classifier treats as a plain string.
func ToolResultValue(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

// HasToolUse reports whether the message carries a tool call or result.
func HasToolUse(msg *Message) bool {
	if len(msg.ToolUse) > 0 || len(msg.ToolUseResult) > 0 {
		return true
	}
	if msg.Type != TypeAssistant {
		return false
	}
	for _, b := range msg.ContentBlocks() {
		if b.Type == ContentTypeToolUse {
			return true
		}
	}
	return false
}

// HasToolError reports whether the message's tool result carries a
// non-empty stderr.
func HasToolError(msg *Message) bool {
	if len(msg.ToolUseResult) == 0 {
		return false
	}
	obj, ok := ToolResultValue(msg.ToolUseResult).(map[string]any)
	if !ok {
		return false
	}
	stderr, _ := obj["stderr"].(string)
	return stderr != ""
}
