package cli

import (
	"github.com/spf13/cobra"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/redact"
)

func newRedactCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "redact <file>",
		Short: "Write a share-safe copy of a session file",
		Long:  "Write a copy of a session JSONL file with credentials and other\nhigh-entropy tokens replaced, next to the original as *.redacted.jsonl.\nThe original file is never modified.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := redact.File(args[0])
			if err != nil {
				return err
			}
			cmd.Printf("%s %s\n", a.palette().Heading("wrote"), out)
			return nil
		},
	}
}
