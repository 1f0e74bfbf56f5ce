package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/transcript"
)

func writeSession(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return path
}

func chatLine(sessionID, uuid, typ, text, ts string) string {
	return `{"type":"` + typ + `","uuid":"` + uuid + `","sessionId":"` + sessionID +
		`","timestamp":"` + ts + `","message":{"role":"` + typ + `","content":"` + text + `"}}`
}

func TestScanProjects(t *testing.T) {
	t.Parallel()
	claudeDir := t.TempDir()
	projectDir := filepath.Join(claudeDir, "projects", "-home-user-myrepo")
	require.NoError(t, os.MkdirAll(projectDir, 0o755))
	writeSession(t, projectDir, "s1.jsonl",
		chatLine("s1", "u1", "user", "hello", "2026-01-01T00:00:00Z"))
	writeSession(t, projectDir, "s2.jsonl",
		chatLine("s2", "u2", "user", "world", "2026-01-02T00:00:00Z"))

	// An empty project dir is skipped entirely.
	require.NoError(t, os.MkdirAll(filepath.Join(claudeDir, "projects", "-home-user-empty"), 0o755))

	store := NewStore()
	projects, err := store.ScanProjects(context.Background(), claudeDir)
	require.NoError(t, err)
	require.Len(t, projects, 1)

	assert.Equal(t, "myrepo", projects[0].Name)
	assert.Equal(t, 2, projects[0].SessionCount)
	assert.GreaterOrEqual(t, projects[0].MessageCount, 2)
}

func TestListSessions(t *testing.T) {
	t.Parallel()
	projectDir := filepath.Join(t.TempDir(), "-home-user-proj")
	require.NoError(t, os.MkdirAll(projectDir, 0o755))

	writeSession(t, projectDir, "plain.jsonl",
		`{"type":"summary","summary":"fix login bug"}`,
		chatLine("abc-123", "u1", "user", "fix it", "2026-01-01T10:00:00Z"),
		chatLine("abc-123", "a1", "assistant", "done", "2026-01-01T10:01:00Z"))

	writeSession(t, projectDir, "tools.jsonl",
		`{"type":"assistant","uuid":"a2","sessionId":"def-456","timestamp":"2026-01-02T10:00:00Z","message":{"role":"assistant","content":[{"type":"tool_use","name":"Bash","id":"t1"}]}}`,
		`{"type":"user","uuid":"u2","sessionId":"def-456","timestamp":"2026-01-02T10:00:05Z","toolUseResult":{"stdout":"","stderr":"exploded"},"message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t1"}]}}`)

	store := NewStore()
	sessions, err := store.ListSessions(context.Background(), projectDir, false)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	byID := map[string]Info{}
	for _, s := range sessions {
		byID[s.ActualSessionID] = s
	}

	plain := byID["abc-123"]
	assert.Equal(t, "fix login bug", plain.Summary)
	assert.Equal(t, 2, plain.MessageCount)
	assert.Equal(t, "2026-01-01T10:00:00Z", plain.FirstMessageTime)
	assert.Equal(t, "2026-01-01T10:01:00Z", plain.LastMessageTime)
	assert.False(t, plain.HasToolUse)
	assert.False(t, plain.HasErrors)

	tools := byID["def-456"]
	assert.True(t, tools.HasToolUse)
	assert.True(t, tools.HasErrors)
	assert.Equal(t, "proj", tools.ProjectName)
}

func TestListSessions_ExcludeSidechain(t *testing.T) {
	t.Parallel()
	projectDir := t.TempDir()
	writeSession(t, projectDir, "s.jsonl",
		chatLine("s1", "u1", "user", "main", "2026-01-01T00:00:00Z"),
		`{"type":"assistant","uuid":"a1","sessionId":"s1","timestamp":"2026-01-01T00:00:01Z","isSidechain":true,"message":{"role":"assistant","content":"side"}}`)

	store := NewStore()
	sessions, err := store.ListSessions(context.Background(), projectDir, true)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 1, sessions[0].MessageCount)
}

func TestLoadMessagesPage(t *testing.T) {
	t.Parallel()
	projectDir := t.TempDir()
	lines := make([]string, 0, 5)
	for _, id := range []string{"u1", "u2", "u3", "u4", "u5"} {
		lines = append(lines, chatLine("s1", id, "user", "msg "+id, "2026-01-01T00:00:00Z"))
	}
	path := writeSession(t, projectDir, "s.jsonl", lines...)

	store := NewStore()

	page, err := store.LoadMessagesPage(context.Background(), path, 0, 2, false)
	require.NoError(t, err)
	assert.Len(t, page.Messages, 2)
	assert.Equal(t, 5, page.TotalCount)
	assert.True(t, page.HasMore)
	assert.Equal(t, 2, page.NextOffset)

	page, err = store.LoadMessagesPage(context.Background(), path, 4, 2, false)
	require.NoError(t, err)
	assert.Len(t, page.Messages, 1)
	assert.False(t, page.HasMore)
	assert.Equal(t, 5, page.NextOffset)

	// Offset past the end yields an empty page, not an error.
	page, err = store.LoadMessagesPage(context.Background(), path, 99, 2, false)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)
	assert.False(t, page.HasMore)
}

func TestLoadMessages_SummaryMaterialized(t *testing.T) {
	t.Parallel()
	projectDir := t.TempDir()
	path := writeSession(t, projectDir, "s.jsonl",
		`{"type":"summary","summary":"refactor the parser","leafUuid":"l1"}`,
		chatLine("abc-123", "u1", "user", "refactor it", "2026-01-01T00:00:00Z"),
		chatLine("abc-123", "a1", "assistant", "done", "2026-01-01T00:01:00Z"))

	store := NewStore()
	msgs, summary, _, err := store.LoadMessages(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "refactor the parser", summary)

	require.Len(t, msgs, 3)
	assert.Equal(t, transcript.TypeSummary, msgs[0].Type)
	assert.Equal(t, "refactor the parser", msgs[0].Summary)
	assert.Equal(t, "refactor the parser", msgs[0].Text())
	assert.NotEmpty(t, msgs[0].UUID)
	assert.Equal(t, transcript.TypeUser, msgs[1].Type)
	assert.Equal(t, transcript.TypeAssistant, msgs[2].Type)

	// Counting and pagination stay over conversation lines.
	count, err := store.CountMessages(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	page, err := store.LoadMessagesPage(context.Background(), path, 0, 10, false)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)
}

func TestActualSessionID(t *testing.T) {
	t.Parallel()

	msgs := []transcript.Message{
		{SessionID: transcript.UnknownSessionID},
		{SessionID: "abc-123"},
	}
	assert.Equal(t, "abc-123", ActualSessionID(msgs, "/tmp/proj/s.jsonl"))

	repaired := []transcript.Message{{SessionID: transcript.UnknownSessionID}}
	assert.Equal(t, "s", ActualSessionID(repaired, "/tmp/proj/s.jsonl"))
	assert.Equal(t, "s", ActualSessionID(nil, "/tmp/proj/s.jsonl"))
}

func TestParseCache_InvalidatedOnRewrite(t *testing.T) {
	t.Parallel()
	projectDir := t.TempDir()
	path := writeSession(t, projectDir, "s.jsonl",
		chatLine("s1", "u1", "user", "one", "2026-01-01T00:00:00Z"))

	store := NewStore()
	count, err := store.CountMessages(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Rewrite with more content; size change invalidates the cache even
	// when mtime granularity hides the update.
	writeSession(t, projectDir, "s.jsonl",
		chatLine("s1", "u1", "user", "one", "2026-01-01T00:00:00Z"),
		chatLine("s1", "u2", "user", "two", "2026-01-01T00:00:01Z"))

	count, err = store.CountMessages(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSearch(t *testing.T) {
	t.Parallel()
	claudeDir := t.TempDir()
	projectDir := filepath.Join(claudeDir, "projects", "-home-user-app")
	require.NoError(t, os.MkdirAll(projectDir, 0o755))
	writeSession(t, projectDir, "s.jsonl",
		chatLine("s1", "u1", "user", "please fix the LOGIN page", "2026-01-01T00:00:00Z"),
		chatLine("s1", "a1", "assistant", "done", "2026-01-01T00:01:00Z"))

	store := NewStore()

	hits, err := store.Search(context.Background(), claudeDir, "login")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "app", hits[0].ProjectName)
	assert.Equal(t, "u1", hits[0].MessageUUID)
	assert.Contains(t, hits[0].Snippet, "LOGIN")

	hits, err = store.Search(context.Background(), claudeDir, "nomatch-zzz")
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = store.Search(context.Background(), claudeDir, "   ")
	require.NoError(t, err)
	assert.Empty(t, hits)
}
