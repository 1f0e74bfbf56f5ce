package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/provider"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/session"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/stringutil"
)

// ErrNoSessions is returned when the interactive picker has nothing to offer.
var ErrNoSessions = errors.New("no sessions found")

// IsAccessibleMode reports whether accessibility mode should be enabled.
// Set ACCESSIBLE=1 (or any non-empty value) to use simpler prompts that
// work better with screen readers.
func IsAccessibleMode() bool {
	return os.Getenv("ACCESSIBLE") != ""
}

func cchvTheme() *huh.Theme {
	return huh.ThemeDracula()
}

// NewAccessibleForm creates a huh form with accessibility mode enabled
// when the ACCESSIBLE environment variable is set. WithAccessible() is
// only available on forms, not individual fields, so prompts always go
// through here.
func NewAccessibleForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(cchvTheme())
	if IsAccessibleMode() {
		form = form.WithAccessible(true)
	}
	return form
}

// pickSession prompts for a session across every project of the provider
// and returns the chosen session.
func pickSession(ctx context.Context, p provider.Provider) (session.Info, error) {
	root, err := p.Detect()
	if err != nil {
		return session.Info{}, fmt.Errorf("failed to locate %s data: %w", p.Name(), err)
	}
	projects, err := p.Projects(ctx, root)
	if err != nil {
		return session.Info{}, err
	}

	var sessions []session.Info
	for _, proj := range projects {
		infos, err := p.Sessions(ctx, proj.Path)
		if err != nil {
			continue
		}
		sessions = append(sessions, infos...)
	}
	if len(sessions) == 0 {
		return session.Info{}, ErrNoSessions
	}

	options := make([]huh.Option[int], 0, len(sessions))
	for i, info := range sessions {
		label := info.ActualSessionID
		if info.Summary != "" {
			label += "  " + stringutil.Preview(info.Summary, 60)
		}
		label += fmt.Sprintf("  (%s, %d messages)", info.ProjectName, info.MessageCount)
		options = append(options, huh.NewOption(label, i))
	}

	var choice int
	form := NewAccessibleForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title("Select a session").
			Options(options...).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return session.Info{}, fmt.Errorf("failed to pick session: %w", err)
	}
	return sessions[choice], nil
}
