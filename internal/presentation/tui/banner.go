package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the hydroplant banner.
func PrintBanner(w io.Writer, p termenv.Profile) {
	lines := []struct{ text, color string }{
		{`  _               _                 _             _   `, "#86efac"},
		{` | |__  _   _  __| |_ __ ___  _ __ | | __ _ _ __ | |_ `, "#6ee7b7"},
		{` | '_ \| | | |/ _' | '__/ _ \| '_ \| |/ _' | '_ \| __|`, "#5eead4"},
		{` | | | | |_| | (_| | | | (_) | |_) | | (_| | | | | |_ `, "#67e8f9"},
		{` |_| |_|\__, |\__,_|_|  \___/| .__/|_|\__,_|_| |_|\__|`, "#7dd3fc"},
		{`        |___/               |_|                       `, "#93c5fd"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
