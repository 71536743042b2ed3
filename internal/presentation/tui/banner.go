package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the intake banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Teal to sky, matching the user-turn colour.
	lines := []struct {
		text  string
		color string
	}{
		{"  _       _        _", "#0d9488"},
		{" (_)_ __ | |_ __ _| | _____", "#0891b2"},
		{" | | '_ \\| __/ _` | |/ / _ \\", "#0284c7"},
		{" | | | | | || (_| |   <  __/", "#2563eb"},
		{" |_|_| |_|\\__\\__,_|_|\\_\\___|", "#4f46e5"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, out.String("  v"+version).Faint())
	}
	fmt.Fprintln(w)
}
