package stats

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/session"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/transcript"
)

func TestExtractUsage(t *testing.T) {
	t.Parallel()

	t.Run("message_usage_wins", func(t *testing.T) {
		t.Parallel()
		msg := transcript.Message{
			Type:  transcript.TypeAssistant,
			Usage: &transcript.TokenUsage{InputTokens: 10, OutputTokens: 20},
			ToolUseResult: []byte(`{"usage":{"input_tokens":99}}`),
		}
		usage := ExtractUsage(&msg)
		assert.Equal(t, int64(10), usage.InputTokens)
		assert.Equal(t, int64(20), usage.OutputTokens)
	})

	t.Run("falls_back_to_content_usage", func(t *testing.T) {
		t.Parallel()
		msg := transcript.Message{
			Type:    transcript.TypeAssistant,
			Content: []byte(`{"usage":{"input_tokens":5,"output_tokens":7}}`),
		}
		usage := ExtractUsage(&msg)
		assert.Equal(t, int64(12), usage.Total())
	})

	t.Run("falls_back_to_tool_result_usage", func(t *testing.T) {
		t.Parallel()
		msg := transcript.Message{
			Type:          transcript.TypeUser,
			ToolUseResult: []byte(`{"usage":{"cache_read_input_tokens":42}}`),
		}
		usage := ExtractUsage(&msg)
		assert.Equal(t, int64(42), usage.CacheReadTokens)
	})

	t.Run("total_tokens_counts_as_output_for_assistant", func(t *testing.T) {
		t.Parallel()
		msg := transcript.Message{
			Type:          transcript.TypeAssistant,
			ToolUseResult: []byte(`{"totalTokens":33}`),
		}
		usage := ExtractUsage(&msg)
		assert.Equal(t, int64(33), usage.OutputTokens)
		assert.Zero(t, usage.InputTokens)
	})

	t.Run("total_tokens_counts_as_input_for_user", func(t *testing.T) {
		t.Parallel()
		msg := transcript.Message{
			Type:          transcript.TypeUser,
			ToolUseResult: []byte(`{"totalTokens":33}`),
		}
		usage := ExtractUsage(&msg)
		assert.Equal(t, int64(33), usage.InputTokens)
		assert.Zero(t, usage.OutputTokens)
	})

	t.Run("no_usage_anywhere_is_zero", func(t *testing.T) {
		t.Parallel()
		msg := transcript.Message{Type: transcript.TypeUser}
		assert.True(t, ExtractUsage(&msg).IsZero())
	})
}

func TestForSession(t *testing.T) {
	t.Parallel()

	msgs := []transcript.Message{
		{
			Type:      transcript.TypeUser,
			Timestamp: "2026-01-01T10:00:00Z",
		},
		{
			Type:      transcript.TypeAssistant,
			Timestamp: "2026-01-01T10:01:00Z",
			Usage: &transcript.TokenUsage{
				InputTokens:         100,
				OutputTokens:        50,
				CacheCreationTokens: 10,
				CacheReadTokens:     5,
			},
		},
	}

	st := ForSession("s1", "proj", msgs)
	assert.Equal(t, int64(100), st.TotalInputTokens)
	assert.Equal(t, int64(50), st.TotalOutputTokens)
	assert.Equal(t, int64(165), st.TotalTokens)
	assert.Equal(t, 2, st.MessageCount)
	assert.Equal(t, "2026-01-01T10:00:00Z", st.FirstMessageTime)
	assert.Equal(t, "2026-01-01T10:01:00Z", st.LastMessageTime)
}

func TestForSession_IgnoresSummaryMessages(t *testing.T) {
	t.Parallel()

	msgs := []transcript.Message{
		{
			Type:      transcript.TypeSummary,
			Summary:   "fix the build",
			Timestamp: "2026-01-01T09:59:59Z",
		},
		{
			Type:      transcript.TypeUser,
			Timestamp: "2026-01-01T10:00:00Z",
		},
		{
			Type:      transcript.TypeAssistant,
			Timestamp: "2026-01-01T10:01:00Z",
			Usage:     &transcript.TokenUsage{InputTokens: 10, OutputTokens: 5},
		},
	}

	st := ForSession("s1", "proj", msgs)
	assert.Equal(t, 2, st.MessageCount)
	assert.Equal(t, int64(15), st.TotalTokens)
	assert.Equal(t, "2026-01-01T10:00:00Z", st.FirstMessageTime)
}

func TestForProject(t *testing.T) {
	t.Parallel()
	projectDir := t.TempDir()

	lines := []string{
		`{"type":"user","uuid":"u1","sessionId":"s1","timestamp":"2026-01-05T09:00:00Z","message":{"role":"user","content":"do it"}}`,
		`{"type":"assistant","uuid":"a1","sessionId":"s1","timestamp":"2026-01-05T09:01:00Z","message":{"role":"assistant","content":[{"type":"tool_use","name":"Bash","id":"t1"},{"type":"tool_use","name":"Read","id":"t2"}],"usage":{"input_tokens":200,"output_tokens":100}}}`,
		`{"type":"assistant","uuid":"a2","sessionId":"s1","timestamp":"2026-01-06T14:00:00Z","message":{"role":"assistant","content":[{"type":"tool_use","name":"Bash","id":"t3"}],"usage":{"input_tokens":50,"output_tokens":25}}}`,
	}
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "s1.jsonl"), []byte(content), 0o600))

	store := session.NewStore()
	perSession, summary, err := ForProject(context.Background(), store, projectDir, "proj")
	require.NoError(t, err)
	require.Len(t, perSession, 1)

	assert.Equal(t, 1, summary.TotalSessions)
	assert.Equal(t, 3, summary.TotalMessages)
	assert.Equal(t, int64(375), summary.TotalTokens)
	assert.Equal(t, int64(250), summary.TokenDistribution.Input)
	assert.Equal(t, int64(125), summary.TokenDistribution.Output)

	require.Len(t, summary.DailyStats, 2)
	assert.Equal(t, "2026-01-05", summary.DailyStats[0].Date)
	assert.Equal(t, 2, summary.DailyStats[0].MessageCount)

	require.NotEmpty(t, summary.MostUsedTools)
	assert.Equal(t, "Bash", summary.MostUsedTools[0].ToolName)
	assert.Equal(t, 2, summary.MostUsedTools[0].UsageCount)

	assert.NotEmpty(t, summary.ActivityHeatmap)
}

func TestCompare(t *testing.T) {
	t.Parallel()

	perSession := []SessionTokenStats{
		{SessionID: "big", TotalTokens: 300, MessageCount: 30},
		{SessionID: "small", TotalTokens: 100, MessageCount: 10},
	}

	cmp, ok := Compare(perSession, "big")
	require.True(t, ok)
	assert.Equal(t, 1, cmp.RankByTokens)
	assert.InDelta(t, 75.0, cmp.PercentOfTokens, 0.01)
	assert.InDelta(t, 75.0, cmp.PercentOfMessages, 0.01)
	assert.True(t, cmp.IsAboveAverage)

	cmp, ok = Compare(perSession, "small")
	require.True(t, ok)
	assert.Equal(t, 2, cmp.RankByTokens)
	assert.False(t, cmp.IsAboveAverage)

	_, ok = Compare(perSession, "missing")
	assert.False(t, ok)
}
