//go:build windows

package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// runInPTY has no pseudo-terminal on Windows; the provider CLI inherits
// the console directly.
func runInPTY(argv []string, dir string) error {
	if len(argv) == 0 {
		return errors.New("empty resume command")
	}
	c := exec.Command(argv[0], argv[1:]...) //nolint:gosec // argv comes from the static capability table
	if dir != "" {
		c.Dir = dir
	}
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to run %s: %w", argv[0], err)
	}
	return nil
}
