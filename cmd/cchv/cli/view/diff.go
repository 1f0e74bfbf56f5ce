package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/classify"
)

// writeDiff renders a line-level diff between two strings with +/- markers.
func (r *renderer) writeDiff(w io.Writer, oldText, newText string) error {
	dmp := diffmatchpatch.New()
	oldChars, newChars, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lines)

	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			var out string
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				out = r.pal.Removed("- " + line)
			case diffmatchpatch.DiffInsert:
				out = r.pal.Added("+ " + line)
			default:
				out = "  " + line
			}
			if _, err := fmt.Fprintln(w, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeHunks renders structured patch hunks in unified diff style.
func (r *renderer) writeHunks(w io.Writer, hunks []classify.PatchHunk) error {
	for _, h := range hunks {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
		if _, err := fmt.Fprintln(w, r.pal.Dim(header)); err != nil {
			return err
		}
		for _, line := range h.Lines {
			out := line
			switch {
			case strings.HasPrefix(line, "+"):
				out = r.pal.Added(line)
			case strings.HasPrefix(line, "-"):
				out = r.pal.Removed(line)
			}
			if _, err := fmt.Fprintln(w, out); err != nil {
				return err
			}
		}
	}
	return nil
}
