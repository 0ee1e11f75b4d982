package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{` ___  _         _               _ _   _    `, "#fbbf24"},
	{`| _ )| |___  __| |__ ___ _ __  (_) |_| |_  `, "#f59e0b"},
	{`| _ \| / _ \/ _| / /(_-<| '  \ | |  _| ' \ `, "#f97316"},
	{`|___/|_\___/\__|_\_\/__/|_|_|_||_|\__|_||_|`, "#ef4444"},
}

// PrintBanner writes the blocksmith banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, out.String("  "+version).Faint())
	}
	fmt.Fprintln(w)
}
