package view

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/classify"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/stringutil"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/textutil"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/transcript"
)

// Options controls conversation rendering.
type Options struct {
	ShowThinking   bool
	ShowToolCalls  bool
	ShowSidechains bool
	ShowMeta       bool
}

// DefaultOptions shows tool calls but hides thinking, sidechains and meta
// lines.
func DefaultOptions() Options {
	return Options{ShowToolCalls: true}
}

// Conversation renders a message sequence as a terminal transcript, with
// tool results classified and dispatched to their category renderers.
type Conversation struct {
	pal  Palette
	reg  *classify.Registry
	opts Options
}

// NewConversation builds a conversation renderer over a palette.
func NewConversation(pal Palette, opts Options) *Conversation {
	return &Conversation{
		pal:  pal,
		reg:  NewRegistry(pal),
		opts: opts,
	}
}

// Render writes the whole message list.
func (c *Conversation) Render(w io.Writer, msgs []transcript.Message) error {
	for i := range msgs {
		if err := c.RenderMessage(w, &msgs[i]); err != nil {
			return err
		}
	}
	return nil
}

// RenderMessage writes one message: a colored role header, the message
// body, and any tool result classified through the dispatch registry.
func (c *Conversation) RenderMessage(w io.Writer, msg *transcript.Message) error {
	if msg.IsSidechain && !c.opts.ShowSidechains {
		return nil
	}
	if msg.IsMeta && !c.opts.ShowMeta {
		return nil
	}
	if msg.Type == transcript.TypeSummary {
		_, err := fmt.Fprintf(w, "%s %s\n\n", c.pal.Heading("summary:"), msg.Summary)
		return err
	}

	if err := c.writeHeader(w, msg); err != nil {
		return err
	}
	if err := c.writeBody(w, msg); err != nil {
		return err
	}
	if len(msg.ToolUseResult) > 0 && c.opts.ShowToolCalls {
		res := classify.Classify(transcript.ToolResultValue(msg.ToolUseResult))
		if err := c.reg.Render(w, res); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func (c *Conversation) writeHeader(w io.Writer, msg *transcript.Message) error {
	var role string
	switch msg.Type {
	case transcript.TypeUser:
		role = c.pal.User("user")
	case transcript.TypeAssistant:
		role = c.pal.Assistant("assistant")
	default:
		role = c.pal.Dim(msg.Type)
	}
	ts := formatTimestamp(msg.Timestamp)
	if ts != "" {
		ts = " " + c.pal.Timestamp(ts)
	}
	model := ""
	if msg.Model != "" {
		model = " " + c.pal.Dim(msg.Model)
	}
	_, err := fmt.Fprintf(w, "%s%s%s\n", role, ts, model)
	return err
}

func (c *Conversation) writeBody(w io.Writer, msg *transcript.Message) error {
	blocks := msg.ContentBlocks()
	if blocks == nil {
		text := textutil.StripSystemTags(msg.Text())
		if text == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, text)
		return err
	}
	for _, b := range blocks {
		if err := c.writeBlock(w, b); err != nil {
			return err
		}
	}
	return nil
}

func (c *Conversation) writeBlock(w io.Writer, b transcript.ContentBlock) error {
	switch b.Type {
	case transcript.ContentTypeText:
		text := textutil.StripSystemTags(b.Text)
		if text == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, text)
		return err
	case transcript.ContentTypeThinking:
		if !c.opts.ShowThinking {
			return nil
		}
		_, err := fmt.Fprintln(w, c.pal.Dim(b.Text))
		return err
	case transcript.ContentTypeToolUse:
		if !c.opts.ShowToolCalls {
			return nil
		}
		line := c.pal.Tool("tool: " + b.Name)
		if detail := toolDetail(b); detail != "" {
			line += " " + c.pal.Dim(detail)
		}
		_, err := fmt.Fprintln(w, line)
		return err
	case transcript.ContentTypeToolResult:
		if !c.opts.ShowToolCalls {
			return nil
		}
		res := classify.Classify(transcript.ToolResultValue(b.Content))
		return c.reg.Render(w, res)
	case transcript.ContentTypeImage:
		_, err := fmt.Fprintln(w, c.pal.Dim("[image]"))
		return err
	default:
		if b.Text != "" {
			_, err := fmt.Fprintln(w, b.Text)
			return err
		}
		return nil
	}
}

// toolDetail extracts the most useful one-line argument of a tool call.
func toolDetail(b transcript.ContentBlock) string {
	var input transcript.ToolInput
	if len(b.Input) == 0 || json.Unmarshal(b.Input, &input) != nil {
		return ""
	}
	for _, cand := range []string{
		input.FilePath, input.NotebookPath, input.Command,
		input.Pattern, input.URL, input.Query, input.Description,
	} {
		if cand != "" {
			return stringutil.Preview(cand, 80)
		}
	}
	return ""
}

// formatTimestamp shortens an RFC3339 timestamp for display.
func formatTimestamp(ts string) string {
	if ts == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}
