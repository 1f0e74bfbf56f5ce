package provider

import (
	"context"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/paths"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/session"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/transcript"
)

// ClaudeProvider reads Claude Code archives under ~/.claude/projects.
type ClaudeProvider struct {
	store *session.Store
	// root overrides Detect for tests and the --claude-dir flag.
	root string
}

var _ Provider = (*ClaudeProvider)(nil)

// NewClaudeProvider creates the Claude Code provider.
func NewClaudeProvider() *ClaudeProvider {
	return &ClaudeProvider{store: session.NewStore()}
}

// NewClaudeProviderAt creates a Claude Code provider rooted at a fixed
// data directory instead of ~/.claude.
func NewClaudeProviderAt(root string) *ClaudeProvider {
	return &ClaudeProvider{store: session.NewStore(), root: root}
}

// Store exposes the underlying session store for commands that need
// pagination, search, or writing.
func (p *ClaudeProvider) Store() *session.Store {
	return p.store
}

func (p *ClaudeProvider) Name() string {
	return "claude-code"
}

func (p *ClaudeProvider) Detect() (string, error) {
	if p.root != "" {
		return p.root, nil
	}
	return paths.ClaudeDir()
}

func (p *ClaudeProvider) Validate(path string) bool {
	return paths.ValidateClaudeFolder(path)
}

func (p *ClaudeProvider) Projects(ctx context.Context, root string) ([]session.Project, error) {
	return p.store.ScanProjects(ctx, root)
}

func (p *ClaudeProvider) Sessions(ctx context.Context, projectPath string) ([]session.Info, error) {
	return p.store.ListSessions(ctx, projectPath, false)
}

func (p *ClaudeProvider) Messages(ctx context.Context, sessionPath string) ([]transcript.Message, error) {
	msgs, _, _, err := p.store.LoadMessages(ctx, sessionPath)
	return msgs, err
}
