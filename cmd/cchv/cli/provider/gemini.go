package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/session"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/transcript"
)

// GeminiProvider reads Gemini CLI chats under ~/.gemini/tmp. Each project
// hash directory holds session-*.json files; a session file is one JSON
// document with a messages (or legacy history) array of role/parts records.
type GeminiProvider struct {
	root string
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates the Gemini provider.
func NewGeminiProvider() *GeminiProvider {
	return &GeminiProvider{}
}

// NewGeminiProviderAt creates a Gemini provider rooted at a fixed directory.
func NewGeminiProviderAt(root string) *GeminiProvider {
	return &GeminiProvider{root: root}
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) Detect() (string, error) {
	if p.root != "" {
		return p.root, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("HOME_DIRECTORY_NOT_FOUND: could not determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".gemini")
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("GEMINI_FOLDER_NOT_FOUND: Gemini folder not found at %s", dir)
	}
	return dir, nil
}

// Validate accepts the .gemini directory itself or a parent containing it,
// as long as the tmp/ session area exists.
func (p *GeminiProvider) Validate(path string) bool {
	if path == "" {
		return false
	}
	if filepath.Base(path) == ".gemini" {
		return dirExists(filepath.Join(path, "tmp"))
	}
	return dirExists(filepath.Join(path, ".gemini", "tmp"))
}

// Projects lists the hash directories under tmp/ that contain sessions.
func (p *GeminiProvider) Projects(ctx context.Context, root string) ([]session.Project, error) {
	tmpDir := filepath.Join(root, "tmp")
	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read Gemini tmp directory: %w", err)
	}

	var projects []session.Project
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(tmpDir, entry.Name())
		files := findGeminiSessions(dir)
		if len(files) == 0 {
			continue
		}
		project := session.Project{
			Name:         entry.Name(),
			Path:         dir,
			SessionCount: len(files),
		}
		for _, f := range files {
			if stat, err := os.Stat(f); err == nil {
				project.MessageCount++
				if stat.ModTime().After(project.LastModified) {
					project.LastModified = stat.ModTime()
				}
			}
		}
		projects = append(projects, project)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].LastModified.After(projects[j].LastModified)
	})
	return projects, nil
}

func (p *GeminiProvider) Sessions(ctx context.Context, projectPath string) ([]session.Info, error) {
	var sessions []session.Info
	for _, path := range findGeminiSessions(projectPath) {
		stat, err := os.Stat(path)
		if err != nil {
			continue
		}
		msgs, err := p.Messages(ctx, path)
		if err != nil {
			// Undecodable session files are skipped, not fatal.
			continue
		}
		info := session.Info{
			SessionID:       path,
			ActualSessionID: strings.TrimSuffix(filepath.Base(path), ".json"),
			FilePath:        path,
			ProjectName:     filepath.Base(projectPath),
			MessageCount:    len(msgs),
			LastModified:    stat.ModTime(),
		}
		if len(msgs) > 0 {
			info.FirstMessageTime = msgs[0].Timestamp
			info.LastMessageTime = msgs[len(msgs)-1].Timestamp
			for i := range msgs {
				if msgs[i].Type == transcript.TypeUser {
					info.Summary = msgs[i].Text()
					break
				}
			}
		}
		sessions = append(sessions, info)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastModified.After(sessions[j].LastModified)
	})
	return sessions, nil
}

// geminiSession is the top-level session document. Older files use
// history instead of messages.
type geminiSession struct {
	SessionID string            `json:"sessionId"`
	StartTime string            `json:"startTime"`
	Messages  []geminiMessage   `json:"messages"`
	History   []geminiMessage   `json:"history"`
}

type geminiMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
	Parts     []struct {
		Text string `json:"text"`
	} `json:"parts"`
}

func (p *GeminiProvider) Messages(ctx context.Context, sessionPath string) ([]transcript.Message, error) {
	data, err := os.ReadFile(sessionPath) //nolint:gosec // Path comes from scanning the user's own session dir
	if err != nil {
		return nil, fmt.Errorf("failed to read Gemini session: %w", err)
	}
	var doc geminiSession
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse Gemini session: %w", err)
	}

	records := doc.Messages
	if len(records) == 0 {
		records = doc.History
	}
	sessionID := doc.SessionID
	if sessionID == "" {
		sessionID = strings.TrimSuffix(filepath.Base(sessionPath), ".json")
	}

	msgs := make([]transcript.Message, 0, len(records))
	for i, rec := range records {
		text := rec.Content
		if text == "" {
			var parts []string
			for _, part := range rec.Parts {
				if part.Text != "" {
					parts = append(parts, part.Text)
				}
			}
			text = strings.Join(parts, "\n")
		}

		msg := transcript.Message{
			UUID:      rec.ID,
			SessionID: sessionID,
			Timestamp: rec.Timestamp,
			Type:      geminiRoleToType(rec.Role),
			Role:      rec.Role,
		}
		if msg.UUID == "" {
			msg.UUID = fmt.Sprintf("%s-%d", sessionID, i)
		}
		if msg.Timestamp == "" {
			msg.Timestamp = doc.StartTime
		}
		if content, err := json.Marshal(text); err == nil {
			msg.Content = content
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func geminiRoleToType(role string) string {
	switch role {
	case "user":
		return transcript.TypeUser
	case "model", "assistant":
		return transcript.TypeAssistant
	default:
		return transcript.TypeSystem
	}
}

// findGeminiSessions collects session-*.json files under dir, including
// the chats/ subdirectory newer CLI versions use.
func findGeminiSessions(dir string) []string {
	var files []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error { //nolint:errcheck // Unreadable subdirs are skipped
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, "session-") && strings.HasSuffix(name, ".json") {
			files = append(files, path)
		}
		return nil
	})
	return files
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
