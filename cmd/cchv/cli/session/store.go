// Package session scans, loads, searches, and writes Claude Code session
// archives under ~/.claude/projects.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/logging"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/paths"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/stringutil"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/transcript"
)

// parseCacheSize bounds how many parsed session files stay in memory.
// Scans re-visit the same files on every listing; the cache is metadata
// only and is invalidated by mtime+size, never by content.
const parseCacheSize = 64

// Project summarizes one project directory under projects/.
type Project struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	SessionCount int       `json:"sessionCount"`
	MessageCount int       `json:"messageCount"`
	LastModified time.Time `json:"lastModified"`
}

// Info summarizes one session file.
type Info struct {
	SessionID        string    `json:"sessionId"`
	ActualSessionID  string    `json:"actualSessionId"`
	FilePath         string    `json:"filePath"`
	ProjectName      string    `json:"projectName"`
	MessageCount     int       `json:"messageCount"`
	FirstMessageTime string    `json:"firstMessageTime"`
	LastMessageTime  string    `json:"lastMessageTime"`
	LastModified     time.Time `json:"lastModified"`
	HasToolUse       bool      `json:"hasToolUse"`
	HasErrors        bool      `json:"hasErrors"`
	Summary          string    `json:"summary,omitempty"`
}

// Page is one page of messages from a session.
type Page struct {
	Messages   []transcript.Message `json:"messages"`
	TotalCount int                  `json:"totalCount"`
	HasMore    bool                 `json:"hasMore"`
	NextOffset int                  `json:"nextOffset"`
}

// SearchHit is one match from a cross-project text search.
type SearchHit struct {
	ProjectName string `json:"projectName"`
	SessionPath string `json:"sessionPath"`
	MessageUUID string `json:"messageUuid"`
	Timestamp   string `json:"timestamp"`
	Type        string `json:"type"`
	Snippet     string `json:"snippet"`
}

type cachedParse struct {
	modTime time.Time
	size    int64
	result  *transcript.ParseResult
}

// Store reads session archives. Parsed files are cached keyed by
// path+mtime+size; a rewritten file is re-parsed on next access.
type Store struct {
	cache *lru.Cache[string, cachedParse]
}

// NewStore creates a session store.
func NewStore() *Store {
	cache, err := lru.New[string, cachedParse](parseCacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &Store{cache: cache}
}

// parse returns the parsed form of a session file, from cache when the
// file has not changed since the cached parse.
func (s *Store) parse(ctx context.Context, path string) (*transcript.ParseResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat session file: %w", err)
	}
	if cached, ok := s.cache.Get(path); ok {
		if cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
			return cached.result, nil
		}
	}

	result, err := transcript.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	s.cache.Add(path, cachedParse{modTime: info.ModTime(), size: info.Size(), result: result})
	return result, nil
}

// ScanProjects lists the project directories under claudeDir/projects,
// sorted by last modification descending. Message counts are estimated
// from file sizes; listing a project's sessions gives exact counts.
func (s *Store) ScanProjects(ctx context.Context, claudeDir string) ([]Project, error) {
	ctx = logging.WithComponent(ctx, "session")
	projectsDir := paths.ProjectsDir(claudeDir)

	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read projects directory: %w", err)
	}

	var projects []Project
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(projectsDir, entry.Name())
		project := Project{
			Name: paths.ProjectName(entry.Name()),
			Path: dir,
		}

		files, err := os.ReadDir(dir)
		if err != nil {
			logging.Warn(ctx, "skipping unreadable project dir",
				slog.String("dir", dir), slog.String("error", err.Error()))
			continue
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".jsonl") {
				continue
			}
			info, err := f.Info()
			if err != nil {
				continue
			}
			project.SessionCount++
			project.MessageCount += paths.EstimateMessageCount(info.Size())
			if info.ModTime().After(project.LastModified) {
				project.LastModified = info.ModTime()
			}
		}
		if project.SessionCount > 0 {
			projects = append(projects, project)
		}
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].LastModified.After(projects[j].LastModified)
	})
	logging.Debug(ctx, "scanned projects", slog.Int("count", len(projects)))
	return projects, nil
}

// ListSessions summarizes every *.jsonl session in a project directory,
// sorted by last modification descending.
func (s *Store) ListSessions(ctx context.Context, projectPath string, excludeSidechain bool) ([]Info, error) {
	ctx = logging.WithComponent(ctx, "session")

	files, err := os.ReadDir(projectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read project directory: %w", err)
	}
	projectName := paths.ProjectName(filepath.Base(projectPath))

	var sessions []Info
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".jsonl") {
			continue
		}
		path := filepath.Join(projectPath, f.Name())
		info, err := s.summarizeSession(ctx, path, projectName, excludeSidechain)
		if err != nil {
			logging.Warn(ctx, "skipping unreadable session",
				slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		sessions = append(sessions, info)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastModified.After(sessions[j].LastModified)
	})
	return sessions, nil
}

func (s *Store) summarizeSession(ctx context.Context, path, projectName string, excludeSidechain bool) (Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to stat session file: %w", err)
	}
	parsed, err := s.parse(ctx, path)
	if err != nil {
		return Info{}, err
	}

	info := Info{
		SessionID:    path,
		FilePath:     path,
		ProjectName:  projectName,
		LastModified: stat.ModTime(),
		Summary:      parsed.Summary,
	}

	for i := range parsed.Messages {
		msg := &parsed.Messages[i]
		if transcript.HasToolUse(msg) {
			info.HasToolUse = true
		}
		if transcript.HasToolError(msg) {
			info.HasErrors = true
		}
		if excludeSidechain && msg.IsSidechain {
			continue
		}
		info.MessageCount++
		if info.FirstMessageTime == "" {
			info.FirstMessageTime = msg.Timestamp
		}
		info.LastMessageTime = msg.Timestamp
	}
	info.ActualSessionID = ActualSessionID(parsed.Messages, path)
	return info, nil
}

// ActualSessionID returns the first real session ID recorded in msgs,
// skipping repaired lines that carry the defaulted placeholder, and falls
// back to the session filename when no line has one.
func ActualSessionID(msgs []transcript.Message, sessionPath string) string {
	for i := range msgs {
		if msgs[i].SessionID != "" && msgs[i].SessionID != transcript.UnknownSessionID {
			return msgs[i].SessionID
		}
	}
	return strings.TrimSuffix(filepath.Base(sessionPath), ".jsonl")
}

// LoadMessages returns every message in a session plus its summary and
// parse warnings. Summary lines are materialized as type "summary"
// messages ahead of the conversation; the paginated and counting paths
// serve conversation lines only.
func (s *Store) LoadMessages(ctx context.Context, sessionPath string) ([]transcript.Message, string, []string, error) {
	parsed, err := s.parse(ctx, sessionPath)
	if err != nil {
		return nil, "", nil, err
	}
	msgs := parsed.Messages
	if n := len(parsed.SummaryMessages); n > 0 {
		merged := make([]transcript.Message, 0, n+len(msgs))
		merged = append(merged, parsed.SummaryMessages...)
		merged = append(merged, msgs...)
		msgs = merged
	}
	return msgs, parsed.Summary, parsed.Warnings, nil
}

// LoadMessagesPage returns one page of messages. Offset and limit count
// non-summary lines; sidechain messages are filtered out first when
// excludeSidechain is set.
func (s *Store) LoadMessagesPage(ctx context.Context, sessionPath string, offset, limit int, excludeSidechain bool) (*Page, error) {
	parsed, err := s.parse(ctx, sessionPath)
	if err != nil {
		return nil, err
	}

	msgs := parsed.Messages
	if excludeSidechain {
		filtered := make([]transcript.Message, 0, len(msgs))
		for _, m := range msgs {
			if !m.IsSidechain {
				filtered = append(filtered, m)
			}
		}
		msgs = filtered
	}

	total := len(msgs)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = total
	}
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	page := &Page{
		Messages:   append([]transcript.Message(nil), msgs[start:end]...),
		TotalCount: total,
		HasMore:    end < total,
		NextOffset: end,
	}
	return page, nil
}

// CountMessages returns the number of non-summary messages in a session.
func (s *Store) CountMessages(ctx context.Context, sessionPath string) (int, error) {
	parsed, err := s.parse(ctx, sessionPath)
	if err != nil {
		return 0, err
	}
	return len(parsed.Messages), nil
}

// Search finds messages whose text contains query (case-insensitive)
// across every project under claudeDir. Unreadable files are skipped.
func (s *Store) Search(ctx context.Context, claudeDir, query string) ([]SearchHit, error) {
	ctx = logging.WithComponent(ctx, "session")
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	needle := strings.ToLower(query)

	projects, err := s.ScanProjects(ctx, claudeDir)
	if err != nil {
		return nil, err
	}

	var hits []SearchHit
	for _, project := range projects {
		files, err := os.ReadDir(project.Path)
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".jsonl") {
				continue
			}
			path := filepath.Join(project.Path, f.Name())
			parsed, err := s.parse(ctx, path)
			if err != nil {
				continue
			}
			for i := range parsed.Messages {
				msg := &parsed.Messages[i]
				if msg.Type != transcript.TypeUser && msg.Type != transcript.TypeAssistant {
					continue
				}
				text := msg.Text()
				if text == "" || !strings.Contains(strings.ToLower(text), needle) {
					continue
				}
				hits = append(hits, SearchHit{
					ProjectName: project.Name,
					SessionPath: path,
					MessageUUID: msg.UUID,
					Timestamp:   msg.Timestamp,
					Type:        msg.Type,
					Snippet:     stringutil.Preview(text, 120),
				})
			}
		}
	}
	return hits, nil
}
