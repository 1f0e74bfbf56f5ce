package provider

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/session"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/transcript"
)

// CodexProvider reads Codex CLI rollout files under ~/.codex/sessions.
// Rollouts are JSONL with a session_meta line followed by response_item
// lines; files live in YYYY/MM/DD subdirectories and each file is one
// session.
type CodexProvider struct {
	root string
}

var _ Provider = (*CodexProvider)(nil)

// NewCodexProvider creates the Codex provider.
func NewCodexProvider() *CodexProvider {
	return &CodexProvider{}
}

// NewCodexProviderAt creates a Codex provider rooted at a fixed directory.
func NewCodexProviderAt(root string) *CodexProvider {
	return &CodexProvider{root: root}
}

func (p *CodexProvider) Name() string {
	return "codex"
}

func (p *CodexProvider) Detect() (string, error) {
	if p.root != "" {
		return p.root, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("HOME_DIRECTORY_NOT_FOUND: could not determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".codex", "sessions")
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("CODEX_FOLDER_NOT_FOUND: Codex folder not found at %s", dir)
	}
	return dir, nil
}

// Validate reports whether path contains at least one rollout file.
func (p *CodexProvider) Validate(path string) bool {
	files, err := findRolloutFiles(path)
	return err == nil && len(files) > 0
}

// Projects groups rollout files into one project per session file. Codex
// has no project hierarchy, so each rollout stands alone.
func (p *CodexProvider) Projects(ctx context.Context, root string) ([]session.Project, error) {
	files, err := findRolloutFiles(root)
	if err != nil {
		return nil, err
	}

	var projects []session.Project
	for _, path := range files {
		stat, err := os.Stat(path)
		if err != nil {
			continue
		}
		projects = append(projects, session.Project{
			Name:         strings.TrimSuffix(filepath.Base(path), ".jsonl"),
			Path:         path,
			SessionCount: 1,
			MessageCount: 1,
			LastModified: stat.ModTime(),
		})
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].LastModified.After(projects[j].LastModified)
	})
	return projects, nil
}

// Sessions summarizes a rollout file; for Codex the project path is the
// session path.
func (p *CodexProvider) Sessions(ctx context.Context, projectPath string) ([]session.Info, error) {
	msgs, meta, err := parseRollout(projectPath)
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(projectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat rollout file: %w", err)
	}

	info := session.Info{
		SessionID:       projectPath,
		ActualSessionID: meta.ID,
		FilePath:        projectPath,
		ProjectName:     strings.TrimSuffix(filepath.Base(projectPath), ".jsonl"),
		MessageCount:    len(msgs),
		LastModified:    stat.ModTime(),
	}
	if info.ActualSessionID == "" {
		info.ActualSessionID = rolloutUUID(filepath.Base(projectPath))
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
	return []session.Info{info}, nil
}

func (p *CodexProvider) Messages(ctx context.Context, sessionPath string) ([]transcript.Message, error) {
	msgs, _, err := parseRollout(sessionPath)
	return msgs, err
}

// rolloutMeta is the payload of a session_meta line.
type rolloutMeta struct {
	ID  string `json:"id"`
	CWD string `json:"cwd"`
}

// rolloutLine is the envelope of one rollout JSONL line.
type rolloutLine struct {
	Timestamp string          `json:"timestamp"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
}

// rolloutItem is a response_item payload.
type rolloutItem struct {
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// parseRollout maps a Codex rollout file onto transcript messages.
// Undecodable lines are skipped, matching the lenient JSONL policy of the
// Claude parser.
func parseRollout(path string) ([]transcript.Message, rolloutMeta, error) {
	f, err := os.Open(path) //nolint:gosec // Path comes from scanning the user's own session dir
	if err != nil {
		return nil, rolloutMeta{}, fmt.Errorf("failed to open rollout file: %w", err)
	}
	defer f.Close()

	var meta rolloutMeta
	var msgs []transcript.Message

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)
	idx := 0
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var line rolloutLine
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			continue
		}

		switch line.Type {
		case "session_meta":
			var m rolloutMeta
			if err := json.Unmarshal(line.Payload, &m); err == nil && meta.ID == "" {
				meta = m
			}
		case "response_item":
			var item rolloutItem
			if err := json.Unmarshal(line.Payload, &item); err != nil || item.Type != "message" {
				continue
			}
			idx++
			msg := transcript.Message{
				UUID:      fmt.Sprintf("%s-%d", rolloutUUID(filepath.Base(path)), idx),
				SessionID: meta.ID,
				Timestamp: line.Timestamp,
				Type:      roleToType(item.Role),
				Role:      item.Role,
				CWD:       meta.CWD,
			}
			if msg.SessionID == "" {
				msg.SessionID = transcript.UnknownSessionID
			}
			if msg.Timestamp == "" {
				msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
			}
			var parts []string
			for _, c := range item.Content {
				if c.Text != "" {
					parts = append(parts, c.Text)
				}
			}
			content, err := json.Marshal(strings.Join(parts, "\n"))
			if err == nil {
				msg.Content = content
			}
			msgs = append(msgs, msg)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, meta, fmt.Errorf("failed to scan rollout file: %w", err)
	}
	return msgs, meta, nil
}

func roleToType(role string) string {
	switch role {
	case "user":
		return transcript.TypeUser
	case "assistant":
		return transcript.TypeAssistant
	default:
		return transcript.TypeSystem
	}
}

// rolloutUUID extracts the trailing UUID from a rollout filename like
// rollout-2026-01-02T03-04-05-<uuid>.jsonl. Falls back to the bare name.
func rolloutUUID(filename string) string {
	name := strings.TrimSuffix(filename, ".jsonl")
	name = strings.TrimPrefix(name, "rollout-")
	// The timestamp prefix is fixed-width: 2026-01-02T03-04-05-
	if len(name) > 20 && name[4] == '-' && name[7] == '-' && name[10] == 'T' {
		return name[20:]
	}
	return name
}

func findRolloutFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Unreadable subdirs are skipped, not fatal
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, "rollout-") && strings.HasSuffix(name, ".jsonl") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan for rollout files: %w", err)
	}
	return files, nil
}
