package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`  ____        _ _       _               `, "#34d399"},
	{` / ___| _   _| | | __ _| |__  _   _ ___ `, "#2dd4bf"},
	{` \___ \| | | | | |/ _' | '_ \| | | / __|`, "#22d3ee"},
	{`  ___) | |_| | | | (_| | |_) | |_| \__ \`, "#38bdf8"},
	{` |____/ \__, |_|_|\__,_|_.__/ \__,_|___/`, "#60a5fa"},
	{`        |___/                           `, "#818cf8"},
}

// PrintBanner writes the Syllabus banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.EnvColorProfile()

	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, p.String(line.text).Foreground(p.Color(line.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, p.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
