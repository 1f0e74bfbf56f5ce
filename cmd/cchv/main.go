package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	rootCmd := cli.NewRootCmd(version)
	if err := rootCmd.Execute(); err != nil {
		var silent *cli.SilentError
		if !errors.As(err, &silent) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
