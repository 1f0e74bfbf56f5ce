package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/provider"
)

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search message text across all projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.currentProvider()
			if err != nil {
				return err
			}
			claude, ok := p.(*provider.ClaudeProvider)
			if !ok {
				return fmt.Errorf("search is only available for the claude-code provider (got %s)", p.Name())
			}
			root, err := claude.Detect()
			if err != nil {
				return fmt.Errorf("failed to locate claude data: %w", err)
			}

			hits, err := claude.Store().Search(cmd.Context(), root, args[0])
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				cmd.Println("no matches")
				return nil
			}

			pal := a.palette()
			for _, hit := range hits {
				cmd.Printf("%s %s %s\n", pal.Bold(hit.ProjectName),
					pal.Dim(hit.Timestamp), pal.Dim(hit.Type))
				cmd.Printf("  %s\n", hit.Snippet)
				cmd.Printf("  %s\n", pal.Dim(hit.SessionPath))
			}
			return nil
		},
	}
}
