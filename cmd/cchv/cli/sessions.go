package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/provider"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/session"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/stringutil"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/view"
)

func newSessionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions [project]",
		Short: "List sessions of a project",
		Long:  "List sessions of a project, given as a directory path or a project name\nfrom `cchv projects`. Without an argument, sessions of every project.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.currentProvider()
			if err != nil {
				return err
			}

			projectPaths, err := resolveProjectPaths(cmd.Context(), p, args)
			if err != nil {
				return err
			}

			pal := a.palette()
			printed := 0
			for _, projectPath := range projectPaths {
				sessions, err := p.Sessions(cmd.Context(), projectPath)
				if err != nil {
					return err
				}
				for _, info := range sessions {
					printSessionLine(cmd, pal, info)
					printed++
				}
			}
			if printed == 0 {
				cmd.Println("no sessions found")
			}
			return nil
		},
	}
}

// resolveProjectPaths turns the optional project argument into concrete
// project paths: a path that exists is used directly, anything else is
// matched against project names, and no argument means every project.
func resolveProjectPaths(ctx context.Context, p provider.Provider, args []string) ([]string, error) {
	if len(args) == 1 {
		if _, err := os.Stat(args[0]); err == nil {
			return []string{args[0]}, nil
		}
	}

	root, err := p.Detect()
	if err != nil {
		return nil, fmt.Errorf("failed to locate %s data: %w", p.Name(), err)
	}
	projects, err := p.Projects(ctx, root)
	if err != nil {
		return nil, err
	}

	if len(args) == 0 {
		paths := make([]string, 0, len(projects))
		for _, proj := range projects {
			paths = append(paths, proj.Path)
		}
		return paths, nil
	}

	for _, proj := range projects {
		if proj.Name == args[0] {
			return []string{proj.Path}, nil
		}
	}
	return nil, fmt.Errorf("project not found: %s", args[0])
}

func printSessionLine(cmd *cobra.Command, pal view.Palette, info session.Info) {
	summary := info.Summary
	if summary == "" {
		summary = "(no summary)"
	}
	markers := ""
	if info.HasToolUse {
		markers += " tools"
	}
	if info.HasErrors {
		markers += " " + pal.Error("errors")
	}
	cmd.Printf("%s  %s\n", pal.Bold(info.ActualSessionID),
		stringutil.Preview(summary, 80))
	cmd.Printf("  %s\n", pal.Dim(fmt.Sprintf("%d messages  %s%s",
		info.MessageCount, firstNonEmpty(info.LastMessageTime, "-"), markers)))
	cmd.Printf("  %s\n", pal.Dim(info.FilePath))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
