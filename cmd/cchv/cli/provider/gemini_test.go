package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGeminiSession(t *testing.T, root, hash, body string) string {
	t.Helper()
	dir := filepath.Join(root, "tmp", hash, "chats")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "session-2026-01-10.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const geminiFixture = `{
  "sessionId": "gem-1",
  "startTime": "2026-01-10T08:00:00Z",
  "messages": [
    {"id": "m1", "role": "user", "timestamp": "2026-01-10T08:00:01Z", "parts": [{"text": "hello gemini"}]},
    {"id": "m2", "role": "model", "timestamp": "2026-01-10T08:00:05Z", "parts": [{"text": "hello"}, {"text": "there"}]}
  ]
}`

func TestGeminiProvider_Validate(t *testing.T) {
	t.Parallel()
	root := filepath.Join(t.TempDir(), ".gemini")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "tmp"), 0o755))

	p := NewGeminiProviderAt(root)
	assert.True(t, p.Validate(root))
	assert.True(t, p.Validate(filepath.Dir(root)))
	assert.False(t, p.Validate(t.TempDir()))
}

func TestGeminiProvider_Messages(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	path := writeGeminiSession(t, root, "abc123", geminiFixture)
	p := NewGeminiProviderAt(root)

	msgs, err := p.Messages(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "hello gemini", msgs[0].Text())
	assert.Equal(t, "gem-1", msgs[0].SessionID)
	assert.Equal(t, "assistant", msgs[1].Type)
	assert.Equal(t, "hello\nthere", msgs[1].Text())
}

func TestGeminiProvider_HistoryFallback(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	body := `{"history": [{"role": "user", "content": "legacy format"}]}`
	path := writeGeminiSession(t, root, "legacy", body)
	p := NewGeminiProviderAt(root)

	msgs, err := p.Messages(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "legacy format", msgs[0].Text())
	// Session ID falls back to the file name.
	assert.Equal(t, "session-2026-01-10", msgs[0].SessionID)
}

func TestGeminiProvider_ProjectsAndSessions(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	path := writeGeminiSession(t, root, "abc123", geminiFixture)
	p := NewGeminiProviderAt(root)

	projects, err := p.Projects(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "abc123", projects[0].Name)
	assert.Equal(t, 1, projects[0].SessionCount)

	sessions, err := p.Sessions(context.Background(), projects[0].Path)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, path, sessions[0].FilePath)
	assert.Equal(t, 2, sessions[0].MessageCount)
	assert.Equal(t, "hello gemini", sessions[0].Summary)
}
