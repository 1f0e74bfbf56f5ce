// Package stats computes token usage and activity statistics over parsed
// sessions.
package stats

import (
	"encoding/json"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/transcript"
)

// ExtractUsage resolves the token usage for one message. Sessions recorded
// by different agent versions attach usage in different places, so the
// lookup falls through: message usage, then a usage object embedded in the
// content, then the tool result's usage, then the tool result's bare
// totalTokens counter (counted as output for assistant messages, input
// otherwise).
func ExtractUsage(msg *transcript.Message) transcript.TokenUsage {
	if msg.Usage != nil && !msg.Usage.IsZero() {
		return *msg.Usage
	}

	if usage, ok := usageFromRaw(msg.Content); ok {
		return usage
	}
	if usage, ok := usageFromRaw(msg.ToolUseResult); ok {
		return usage
	}

	if total, ok := totalTokensFromRaw(msg.ToolUseResult); ok {
		if msg.Type == transcript.TypeAssistant {
			return transcript.TokenUsage{OutputTokens: total}
		}
		return transcript.TokenUsage{InputTokens: total}
	}
	return transcript.TokenUsage{}
}

// usageFromRaw looks for a "usage" object inside a raw JSON value.
func usageFromRaw(raw json.RawMessage) (transcript.TokenUsage, bool) {
	if len(raw) == 0 {
		return transcript.TokenUsage{}, false
	}
	var holder struct {
		Usage *transcript.TokenUsage `json:"usage"`
	}
	if err := json.Unmarshal(raw, &holder); err != nil || holder.Usage == nil {
		return transcript.TokenUsage{}, false
	}
	if holder.Usage.IsZero() {
		return transcript.TokenUsage{}, false
	}
	return *holder.Usage, true
}

// totalTokensFromRaw looks for a bare "totalTokens" counter.
func totalTokensFromRaw(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var holder struct {
		TotalTokens *int64 `json:"totalTokens"`
	}
	if err := json.Unmarshal(raw, &holder); err != nil || holder.TotalTokens == nil {
		return 0, false
	}
	if *holder.TotalTokens <= 0 {
		return 0, false
	}
	return *holder.TotalTokens, true
}
