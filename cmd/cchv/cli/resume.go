package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/spf13/cobra"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/provider"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/session"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/transcript"
)

func newResumeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resume [session]",
		Short: "Resume a session in its provider CLI",
		Long:  "Resume a session by launching the provider's CLI in the session's working\ndirectory under a pseudo-terminal. Picks a session interactively when no\nargument is given.",
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
			if len(msgs) == 0 {
				return errors.New("session has no messages")
			}
			sessionID := session.ActualSessionID(msgs, sessionPath)
			cwd := sessionCWD(msgs)

			argv, hint, err := provider.ResumeCommand(p.Name(), sessionID)
			if err != nil {
				return err
			}

			pal := a.palette()
			if cwd != "" {
				if _, err := os.Stat(cwd); err != nil {
					return fmt.Errorf("session directory no longer exists: %s", cwd)
				}
				cmd.Printf("%s %s\n", pal.Dim("directory:"), cwd)
				if branch, ok := currentBranch(cwd); ok {
					cmd.Printf("%s %s\n", pal.Dim("branch:"), branch)
				}
			}
			if hint != "" {
				cmd.Printf("%s type %s once the CLI is up\n", pal.Heading("hint:"), pal.Bold(hint))
			}

			return runInPTY(argv, cwd)
		},
	}
}

// sessionCWD returns the last working directory recorded in the session.
func sessionCWD(msgs []transcript.Message) string {
	cwd := ""
	for i := range msgs {
		if msgs[i].CWD != "" {
			cwd = msgs[i].CWD
		}
	}
	return cwd
}

// currentBranch reports the checked-out branch when dir is inside a git
// worktree.
func currentBranch(dir string) (string, bool) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", false
	}
	head, err := repo.Head()
	if err != nil {
		return "", false
	}
	if !head.Name().IsBranch() {
		return head.Hash().String()[:8] + " (detached)", true
	}
	return head.Name().Short(), true
}
