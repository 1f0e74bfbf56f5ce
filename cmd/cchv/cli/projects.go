package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProjectsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects in the session archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.currentProvider()
			if err != nil {
				return err
			}
			root, err := p.Detect()
			if err != nil {
				return fmt.Errorf("failed to locate %s data: %w", p.Name(), err)
			}

			projects, err := p.Projects(cmd.Context(), root)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				cmd.Println("no projects found")
				return nil
			}

			pal := a.palette()
			for _, proj := range projects {
				cmd.Printf("%s  %s\n", pal.Bold(proj.Name),
					pal.Dim(fmt.Sprintf("%d sessions, ~%d messages", proj.SessionCount, proj.MessageCount)))
				cmd.Printf("  %s\n", pal.Dim(proj.Path))
			}
			return nil
		},
	}
}
