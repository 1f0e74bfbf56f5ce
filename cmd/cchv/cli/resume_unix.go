//go:build !windows

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// runInPTY launches argv under a pseudo-terminal wired to the user's
// terminal, with window size propagation, so the provider CLI behaves as
// if started directly.
func runInPTY(argv []string, dir string) error {
	if len(argv) == 0 {
		return errors.New("empty resume command")
	}
	c := exec.Command(argv[0], argv[1:]...) //nolint:gosec // argv comes from the static capability table
	if dir != "" {
		c.Dir = dir
	}

	ptmx, err := pty.Start(c)
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", argv[0], err)
	}
	defer ptmx.Close()

	// Propagate terminal resizes to the child.
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	go func() {
		for range winch {
			_ = pty.InheritSize(os.Stdin, ptmx)
		}
	}()
	winch <- syscall.SIGWINCH
	defer func() { signal.Stop(winch); close(winch) }()

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err == nil {
		defer func() { _ = term.Restore(int(os.Stdin.Fd()), oldState) }()
	}

	go func() { _, _ = io.Copy(ptmx, os.Stdin) }()
	_, _ = io.Copy(os.Stdout, ptmx)

	if err := c.Wait(); err != nil {
		return fmt.Errorf("failed to run %s: %w", argv[0], err)
	}
	return nil
}
