package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`     _         _`, "#86efac"},
	{`    / \   _ __| |__   ___  _ __`, "#4ade80"},
	{`   / _ \ | '__| '_ \ / _ \| '__|`, "#22c55e"},
	{`  / ___ \| |  | |_) | (_) | |`, "#16a34a"},
	{` /_/   \_\_|  |_.__/ \___/|_|`, "#15803d"},
}

// PrintBanner writes the Arbor banner followed by the content's title,
// description and credits. Colors degrade to the profile w supports.
func PrintBanner(w io.Writer, meta domain.Meta) {
	out := termenv.NewOutput(w)

	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(out.Color(line.color)))
	}
	fmt.Fprintln(w)

	if !meta.Title.Empty() {
		fmt.Fprintln(w, out.String(meta.Title.String()).Bold())
	}
	if !meta.Description.Empty() {
		fmt.Fprintln(w, meta.Description.String())
	}
	for _, credit := range meta.Credits {
		fmt.Fprintln(w, out.String(credit.String()).Faint())
	}
	if !meta.Title.Empty() || !meta.Description.Empty() || len(meta.Credits) > 0 {
		fmt.Fprintln(w)
	}
}
