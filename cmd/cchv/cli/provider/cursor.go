package provider

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // Registers the "sqlite" database/sql driver.

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/session"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/transcript"
)

// CursorProvider reads Cursor IDE chat history from the per-workspace
// state.vscdb SQLite databases. Chat bubbles live in the cursorDiskKV
// key-value table under bubbleId:* keys; each database is one session.
type CursorProvider struct {
	root string
}

var _ Provider = (*CursorProvider)(nil)

// NewCursorProvider creates the Cursor provider.
func NewCursorProvider() *CursorProvider {
	return &CursorProvider{}
}

// NewCursorProviderAt creates a Cursor provider rooted at a fixed directory.
func NewCursorProviderAt(root string) *CursorProvider {
	return &CursorProvider{root: root}
}

func (p *CursorProvider) Name() string {
	return "cursor"
}

func (p *CursorProvider) Detect() (string, error) {
	if p.root != "" {
		return p.root, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("HOME_DIRECTORY_NOT_FOUND: could not determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".cursor")
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("CURSOR_FOLDER_NOT_FOUND: Cursor folder not found at %s", dir)
	}
	return dir, nil
}

// Validate reports whether any state.vscdb exists under path.
func (p *CursorProvider) Validate(path string) bool {
	return len(findStateDatabases(path)) > 0
}

// Projects lists workspace databases that actually contain chat bubbles.
func (p *CursorProvider) Projects(ctx context.Context, root string) ([]session.Project, error) {
	var projects []session.Project
	for _, dbPath := range findStateDatabases(root) {
		count, err := countBubbles(ctx, dbPath)
		if err != nil || count == 0 {
			continue
		}
		stat, err := os.Stat(dbPath)
		if err != nil {
			continue
		}
		projects = append(projects, session.Project{
			Name:         filepath.Base(filepath.Dir(dbPath)),
			Path:         dbPath,
			SessionCount: 1,
			MessageCount: count,
			LastModified: stat.ModTime(),
		})
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].LastModified.After(projects[j].LastModified)
	})
	return projects, nil
}

func (p *CursorProvider) Sessions(ctx context.Context, projectPath string) ([]session.Info, error) {
	msgs, err := p.Messages(ctx, projectPath)
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(projectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat Cursor database: %w", err)
	}

	info := session.Info{
		SessionID:       projectPath,
		ActualSessionID: filepath.Base(filepath.Dir(projectPath)),
		FilePath:        projectPath,
		ProjectName:     filepath.Base(filepath.Dir(projectPath)),
		MessageCount:    len(msgs),
		LastModified:    stat.ModTime(),
	}
	for i := range msgs {
		if msgs[i].Type == transcript.TypeUser {
			info.Summary = msgs[i].Text()
			break
		}
	}
	return []session.Info{info}, nil
}

// cursorBubble is one chat bubble stored in cursorDiskKV. Type 1 is a
// user message, type 2 an assistant message.
type cursorBubble struct {
	Type int    `json:"type"`
	Text string `json:"text"`
}

func (p *CursorProvider) Messages(ctx context.Context, sessionPath string) ([]transcript.Message, error) {
	db, err := openStateDB(sessionPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		"SELECT rowid, key, value FROM cursorDiskKV WHERE key LIKE 'bubbleId:%' ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to query Cursor chat bubbles: %w", err)
	}
	defer rows.Close()

	sessionID := filepath.Base(filepath.Dir(sessionPath))
	var msgs []transcript.Message
	for rows.Next() {
		var rowid int64
		var key string
		var value []byte
		if err := rows.Scan(&rowid, &key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan Cursor chat row: %w", err)
		}

		var bubble cursorBubble
		if err := json.Unmarshal(value, &bubble); err != nil || bubble.Text == "" {
			continue
		}

		msgType := transcript.TypeAssistant
		role := "assistant"
		if bubble.Type == 1 {
			msgType = transcript.TypeUser
			role = "user"
		}
		msg := transcript.Message{
			UUID:      strings.TrimPrefix(key, "bubbleId:"),
			SessionID: sessionID,
			Type:      msgType,
			Role:      role,
		}
		if content, err := json.Marshal(bubble.Text); err == nil {
			msg.Content = content
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate Cursor chat rows: %w", err)
	}
	return msgs, nil
}

func countBubbles(ctx context.Context, dbPath string) (int, error) {
	db, err := openStateDB(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var count int
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM cursorDiskKV WHERE key LIKE 'bubbleId:%'").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count Cursor chat bubbles: %w", err)
	}
	return count, nil
}

func openStateDB(path string) (*sql.DB, error) {
	// Read-only: the IDE owns these databases.
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open Cursor database: %w", err)
	}
	return db, nil
}

// findStateDatabases collects state.vscdb files under root, covering both
// chat layouts Cursor has used (workspaceStorage and chats).
func findStateDatabases(root string) []string {
	var dbs []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error { //nolint:errcheck // Unreadable subdirs are skipped
		if err != nil || d.IsDir() {
			return nil
		}
		if d.Name() == "state.vscdb" || strings.HasSuffix(d.Name(), ".db") {
			dbs = append(dbs, path)
		}
		return nil
	})
	return dbs
}
