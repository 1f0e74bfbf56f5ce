package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/jsonutil"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/paths"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/transcript"
)

// ErrEmptyRange is returned when a range extraction selects no messages.
var ErrEmptyRange = errors.New("selected range contains no messages")

// CreateProject ensures the project directory for a repository path exists
// and returns it.
func CreateProject(claudeDir, repoPath string) (string, error) {
	dir := paths.ProjectDirFor(claudeDir, repoPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create project directory: %w", err)
	}
	return dir, nil
}

// CreateSession writes a new session file containing the given entries.
// The write is atomic (temp file + rename) so a watcher never sees a
// half-written session. Returns the session file path.
func CreateSession(projectDir, sessionID string, entries []transcript.Entry) (string, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	path := filepath.Join(projectDir, sessionID+".jsonl")
	if err := writeEntriesAtomic(path, entries); err != nil {
		return "", err
	}
	return path, nil
}

// AppendEntries appends entries to an existing session file, one JSONL
// line per entry.
func AppendEntries(sessionPath string, entries []transcript.Entry) error {
	f, err := os.OpenFile(sessionPath, os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // Session path comes from the user's own archive
	if err != nil {
		return fmt.Errorf("failed to open session file for append: %w", err)
	}
	defer f.Close()

	for i := range entries {
		line, err := jsonutil.EncodeLine(&entries[i])
		if err != nil {
			return err
		}
		if _, err := f.Write(line); err != nil {
			return fmt.Errorf("failed to append session entry: %w", err)
		}
	}
	return nil
}

// ExtractRange copies messages [start, end) of a session into a new
// session file at dstPath. The source summary, when present, is written
// first so the extracted session keeps its description. Extracted entries
// round-trip through the parser unchanged.
func ExtractRange(ctx context.Context, store *Store, srcPath, dstPath string, start, end int) error {
	parsed, err := store.parse(ctx, srcPath)
	if err != nil {
		return err
	}

	total := len(parsed.Messages)
	if start < 0 {
		start = 0
	}
	if end <= 0 || end > total {
		end = total
	}
	if start >= end {
		return ErrEmptyRange
	}

	entries := make([]transcript.Entry, 0, end-start+1)
	if parsed.Summary != "" {
		entries = append(entries, transcript.Entry{
			Type:    transcript.TypeSummary,
			Summary: parsed.Summary,
		})
	}
	for _, msg := range parsed.Messages[start:end] {
		entries = append(entries, entryFromMessage(msg))
	}
	return writeEntriesAtomic(dstPath, entries)
}

// entryFromMessage rebuilds the raw line envelope from a flattened message.
func entryFromMessage(msg transcript.Message) transcript.Entry {
	entry := transcript.Entry{
		UUID:          msg.UUID,
		ParentUUID:    msg.ParentUUID,
		SessionID:     msg.SessionID,
		Timestamp:     msg.Timestamp,
		Type:          msg.Type,
		ToolUse:       msg.ToolUse,
		ToolUseResult: msg.ToolUseResult,
		IsSidechain:   msg.IsSidechain,
		IsMeta:        msg.IsMeta,
		CWD:           msg.CWD,
		GitBranch:     msg.GitBranch,
	}
	if msg.Role != "" || len(msg.Content) > 0 || msg.Usage != nil {
		entry.Message = &transcript.MessageBody{
			Role:       msg.Role,
			Content:    msg.Content,
			Model:      msg.Model,
			StopReason: msg.StopReason,
			Usage:      msg.Usage,
		}
	}
	return entry
}

func writeEntriesAtomic(path string, entries []transcript.Entry) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cchv-session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // Best-effort cleanup on early return

	for i := range entries {
		line, err := jsonutil.EncodeLine(&entries[i])
		if err != nil {
			tmp.Close()
			return err
		}
		if _, err := tmp.Write(line); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write session entry: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp session file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to finalize session file: %w", err)
	}
	return nil
}
