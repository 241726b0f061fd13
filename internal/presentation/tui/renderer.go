// Package tui renders reports for the terminal.
package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
// A zero wordWrap keeps glamour's default width.
func NewRenderer(wordWrap int) func(string) (string, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(), // Detect light/dark background
	}
	if wordWrap > 0 {
		opts = append(opts, glamour.WithWordWrap(wordWrap))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Print writes markdown to w, styled when w is a terminal and raw otherwise.
func Print(w io.Writer, markdown string) error {
	if !IsTerminal(w) {
		_, err := fmt.Fprint(w, markdown)
		return err
	}

	width := 0
	if f, ok := w.(*os.File); ok {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 4 {
			width = cols - 4
		}
	}
	out, err := NewRenderer(width)(markdown)
	if err != nil {
		_, err = fmt.Fprint(w, markdown)
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}
