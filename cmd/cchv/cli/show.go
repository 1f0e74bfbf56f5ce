package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/provider"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/view"
)

func newShowCmd(a *app) *cobra.Command {
	var (
		showThinking   bool
		showSidechains bool
		hideTools      bool
		noPager        bool
	)

	cmd := &cobra.Command{
		Use:   "show [session]",
		Short: "Render a session conversation",
		Long:  "Render a session conversation with every tool result classified and\ndisplayed by its category renderer. The session is a file path, a session\nID, or picked interactively when omitted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.currentProvider()
			if err != nil {
				return err
			}
			sessionPath, err := resolveSessionPath(cmd.Context(), p, args)
			if err != nil {
				return err
			}

			msgs, err := p.Messages(cmd.Context(), sessionPath)
			if err != nil {
				return fmt.Errorf("failed to load session: %w", err)
			}

			opts := view.Options{
				ShowThinking:   showThinking,
				ShowSidechains: showSidechains,
				ShowToolCalls:  !hideTools,
			}
			conv := view.NewConversation(a.palette(), opts)

			render := func(w io.Writer) error {
				return conv.Render(w, msgs)
			}
			if noPager {
				return render(os.Stdout)
			}
			return view.RunWithPager(os.Stdout, render)
		},
	}

	cmd.Flags().BoolVar(&showThinking, "thinking", false, "include thinking blocks")
	cmd.Flags().BoolVar(&showSidechains, "sidechains", false, "include sidechain (sub-agent) messages")
	cmd.Flags().BoolVar(&hideTools, "no-tools", false, "hide tool calls and tool results")
	cmd.Flags().BoolVar(&noPager, "no-pager", false, "write straight to stdout")
	return cmd
}

// resolveSessionPath maps the optional session argument to a session file:
// an existing path wins, then a session ID match across projects, and no
// argument opens the interactive picker.
func resolveSessionPath(ctx context.Context, p provider.Provider, args []string) (string, error) {
	if len(args) == 0 {
		info, err := pickSession(ctx, p)
		if err != nil {
			return "", err
		}
		return info.FilePath, nil
	}

	arg := args[0]
	if _, err := os.Stat(arg); err == nil {
		return arg, nil
	}

	root, err := p.Detect()
	if err != nil {
		return "", fmt.Errorf("failed to locate %s data: %w", p.Name(), err)
	}
	projects, err := p.Projects(ctx, root)
	if err != nil {
		return "", err
	}
	for _, proj := range projects {
		sessions, err := p.Sessions(ctx, proj.Path)
		if err != nil {
			continue
		}
		for _, info := range sessions {
			if info.ActualSessionID == arg || info.SessionID == arg ||
				strings.HasPrefix(info.ActualSessionID, arg) {
				return info.FilePath, nil
			}
		}
	}
	return "", fmt.Errorf("session not found: %s", arg)
}
