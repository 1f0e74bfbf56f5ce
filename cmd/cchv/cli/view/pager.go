package view

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-isatty"
)

// RunWithPager invokes fn with a writer that pipes through $PAGER when out
// is a terminal. Without a terminal (or with PAGER=cat) fn writes straight
// to out. A failing pager start falls back to direct output.
func RunWithPager(out *os.File, fn func(w io.Writer) error) error {
	if out == nil || !isatty.IsTerminal(out.Fd()) {
		return fn(out)
	}
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = "less -R"
	}
	if pager == "cat" {
		return fn(out)
	}

	parts := strings.Fields(pager)
	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stdout = out
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fn(out)
	}
	if err := cmd.Start(); err != nil {
		return fn(out)
	}

	renderErr := fn(stdin)
	stdin.Close()
	if waitErr := cmd.Wait(); waitErr != nil && renderErr == nil {
		return fmt.Errorf("failed to run pager %q: %w", parts[0], waitErr)
	}
	return renderErr
}
