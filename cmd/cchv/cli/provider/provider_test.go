package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilitiesFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		provider   string
		cliName    string
		resumeType ResumeType
		template   string
	}{
		{
			name:       "claude_code_direct_flag",
			provider:   "claude-code",
			cliName:    "claude",
			resumeType: ResumeDirectFlag,
			template:   "claude --resume {session_id}",
		},
		{
			name:       "codex_direct_flag",
			provider:   "codex",
			cliName:    "codex",
			resumeType: ResumeDirectFlag,
			template:   "codex resume {session_id}",
		},
		{
			name:       "gemini_interactive",
			provider:   "gemini",
			cliName:    "gemini",
			resumeType: ResumeInteractiveCommand,
			template:   "gemini",
		},
		{
			name:       "cursor_open_in_directory",
			provider:   "cursor",
			cliName:    "cursor",
			resumeType: ResumeOpenInDirectory,
			template:   "cursor .",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			caps, ok := CapabilitiesFor(tt.provider)
			require.True(t, ok)
			assert.True(t, caps.SupportsResume)
			assert.Equal(t, tt.cliName, caps.CLIName)
			assert.Equal(t, tt.resumeType, caps.ResumeType)
			assert.Equal(t, tt.template, caps.ResumeTemplate)
		})
	}

	_, ok := CapabilitiesFor("nope")
	assert.False(t, ok)
}

func TestResumeCommand(t *testing.T) {
	t.Parallel()

	t.Run("claude_expands_session_id", func(t *testing.T) {
		t.Parallel()
		argv, hint, err := ResumeCommand("claude-code", "abc-123")
		require.NoError(t, err)
		assert.Equal(t, []string{"claude", "--resume", "abc-123"}, argv)
		assert.Empty(t, hint)
	})

	t.Run("gemini_returns_interactive_hint", func(t *testing.T) {
		t.Parallel()
		argv, hint, err := ResumeCommand("gemini", "xyz")
		require.NoError(t, err)
		assert.Equal(t, []string{"gemini"}, argv)
		assert.Equal(t, "/chat resume xyz", hint)
	})

	t.Run("cursor_opens_directory", func(t *testing.T) {
		t.Parallel()
		argv, _, err := ResumeCommand("cursor", "ignored")
		require.NoError(t, err)
		assert.Equal(t, []string{"cursor", "."}, argv)
	})

	t.Run("unknown_provider_errors", func(t *testing.T) {
		t.Parallel()
		_, _, err := ResumeCommand("vim", "s")
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	assert.Equal(t, []string{"claude-code", "codex", "gemini", "cursor"}, r.Names())

	p, err := r.Get("codex")
	require.NoError(t, err)
	assert.Equal(t, "codex", p.Name())

	_, err = r.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
