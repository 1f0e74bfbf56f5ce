// Package view renders classified conversations as ANSI terminal text.
// It holds the concrete renderer for every classification category; all
// classification policy stays in the classify package.
package view

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI codes used across renderers.
const (
	ansiReset     = "\x1b[0m"
	ansiBold      = "\x1b[1;97m"
	ansiDim       = "\x1b[38;5;240m"
	ansiTimestamp = "\x1b[38;5;245m"
	ansiUser      = "\x1b[38;5;220m"
	ansiAssistant = "\x1b[38;5;44m"
	ansiTool      = "\x1b[38;5;207m"
	ansiError     = "\x1b[31m"
	ansiAdded     = "\x1b[32m"
	ansiRemoved   = "\x1b[31m"
	ansiHeading   = "\x1b[36m"
)

// ColorMode selects how color output is decided.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Palette wraps text in ANSI codes, or passes it through when disabled.
type Palette struct {
	enabled bool
}

// NewPalette resolves a color mode against the output writer: "always"
// and "never" are absolute, "auto" requires a TTY and no NO_COLOR.
func NewPalette(mode ColorMode, out io.Writer) Palette {
	switch mode {
	case ColorAlways:
		return Palette{enabled: true}
	case ColorNever:
		return Palette{enabled: false}
	default:
		return Palette{enabled: autoColor(out)}
	}
}

func autoColor(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Enabled reports whether color codes are emitted.
func (p Palette) Enabled() bool {
	return p.enabled
}

func (p Palette) wrap(code, text string) string {
	if !p.enabled || text == "" {
		return text
	}
	return code + text + ansiReset
}

func (p Palette) Bold(text string) string      { return p.wrap(ansiBold, text) }
func (p Palette) Dim(text string) string       { return p.wrap(ansiDim, text) }
func (p Palette) Timestamp(text string) string { return p.wrap(ansiTimestamp, text) }
func (p Palette) User(text string) string      { return p.wrap(ansiUser, text) }
func (p Palette) Assistant(text string) string { return p.wrap(ansiAssistant, text) }
func (p Palette) Tool(text string) string      { return p.wrap(ansiTool, text) }
func (p Palette) Error(text string) string     { return p.wrap(ansiError, text) }
func (p Palette) Added(text string) string     { return p.wrap(ansiAdded, text) }
func (p Palette) Removed(text string) string   { return p.wrap(ansiRemoved, text) }
func (p Palette) Heading(text string) string   { return p.wrap(ansiHeading, text) }
