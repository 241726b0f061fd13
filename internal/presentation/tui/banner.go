package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the parcel banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Green to teal, one shade per line.
	lines := []struct {
		text  string
		color string
	}{
		{"  ____                     _ ", "#86efac"},
		{" |  _ \\ __ _ _ __ ___ ___| |", "#4ade80"},
		{" | |_) / _` | '__/ __/ _ \\ |", "#34d399"},
		{" |  __/ (_| | | | (_|  __/ |", "#2dd4bf"},
		{" |_|   \\__,_|_|  \\___\\___|_|", "#22d3ee"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
