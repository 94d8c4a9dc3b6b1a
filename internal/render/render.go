// Package render turns model replies into terminal output.
package render

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
)

const wordWrap = 100

// Markdown renders s as styled terminal Markdown. Rendering is cosmetic:
// on any renderer failure the raw text comes back unchanged.
func Markdown(s string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return s
	}
	out, err := r.Render(s)
	if err != nil {
		return s
	}
	return out
}

// StdoutIsTerminal reports whether stdout is attached to a terminal.
// Piped or redirected output should stay raw so downstream tools see
// clean text.
func StdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// StdinIsPiped reports whether stdin carries piped data rather than a
// terminal.
func StdinIsPiped() bool {
	fd := os.Stdin.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}
