package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the store banner. Colors are dropped when w is not a terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Gold to emerald.
	lines := []struct {
		text  string
		color string
	}{
		{"     _            _   _                 ", "#facc15"},
		{"    / \\   _ __   | \\ | | ___   ___  _ __ ", "#eab308"},
		{"   / _ \\ | '_ \\  |  \\| |/ _ \\ / _ \\| '__|", "#a3e635"},
		{"  / ___ \\| | | | | |\\  | (_) | (_) | |   ", "#4ade80"},
		{" /_/   \\_\\_| |_| |_| \\_|\\___/ \\___/|_|   ", "#10b981"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  Arabic dial watches · v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}
