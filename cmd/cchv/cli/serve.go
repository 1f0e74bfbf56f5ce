package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/provider"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/serve"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the session archive over HTTP for a GUI frontend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.currentProvider()
			if err != nil {
				return err
			}
			claude, ok := p.(*provider.ClaudeProvider)
			if !ok {
				return fmt.Errorf("serve is only available for the claude-code provider (got %s)", p.Name())
			}
			root, err := claude.Detect()
			if err != nil {
				return fmt.Errorf("failed to locate claude data: %w", err)
			}

			if addr == "" {
				addr = a.cfg.ServeAddr
			}
			cmd.Printf("serving %s on http://%s\n", root, addr)
			return serve.NewServer(root, claude.Store()).Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
