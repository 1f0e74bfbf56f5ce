package provider

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRollout(t *testing.T, root string) string {
	t.Helper()
	dir := filepath.Join(root, "2026", "01", "15")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	lines := []string{
		`{"timestamp":"2026-01-15T10:00:00Z","type":"session_meta","payload":{"id":"sess-codex-1","cwd":"/home/user/repo"}}`,
		`{"timestamp":"2026-01-15T10:00:05Z","type":"response_item","payload":{"type":"message","role":"user","content":[{"type":"input_text","text":"write a test"}]}}`,
		`{"timestamp":"2026-01-15T10:00:30Z","type":"response_item","payload":{"type":"message","role":"assistant","content":[{"type":"output_text","text":"done"}]}}`,
		`{"timestamp":"2026-01-15T10:00:40Z","type":"response_item","payload":{"type":"function_call","name":"shell"}}`,
		`{"timestamp":"2026-01-15T10:00:50Z","type":"turn_context","payload":{}}`,
	}
	path := filepath.Join(dir, "rollout-2026-01-15T10-00-00-aaaa-bbbb.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return path
}

func TestCodexProvider_Validate(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	p := NewCodexProviderAt(root)

	assert.False(t, p.Validate(root))
	writeRollout(t, root)
	assert.True(t, p.Validate(root))
}

func TestCodexProvider_Messages(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	path := writeRollout(t, root)
	p := NewCodexProviderAt(root)

	msgs, err := p.Messages(context.Background(), path)
	require.NoError(t, err)
	// Only response_item lines whose payload type is "message" count.
	require.Len(t, msgs, 2)

	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "write a test", msgs[0].Text())
	assert.Equal(t, "sess-codex-1", msgs[0].SessionID)
	assert.Equal(t, "/home/user/repo", msgs[0].CWD)
	assert.Equal(t, "assistant", msgs[1].Role)
}

func TestCodexProvider_ProjectsAndSessions(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	path := writeRollout(t, root)
	p := NewCodexProviderAt(root)

	projects, err := p.Projects(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, path, projects[0].Path)

	sessions, err := p.Sessions(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "sess-codex-1", sessions[0].ActualSessionID)
	assert.Equal(t, 2, sessions[0].MessageCount)
	assert.Equal(t, "write a test", sessions[0].Summary)
}

func TestRolloutUUID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		want     string
	}{
		{"rollout-2026-01-15T10-00-00-aaaa-bbbb.jsonl", "aaaa-bbbb"},
		{"rollout-weird.jsonl", "weird"},
		{"plain.jsonl", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, rolloutUUID(tt.filename))
		})
	}
}
