package chunkfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"textchunk/internal/chunk"
)

// WritePretty prints one line per chunk: index, type, metrics and a
// single-line preview of the text clipped to the terminal width.
func WritePretty(w io.Writer, chunks []chunk.Chunk, opts Options) error {
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	idx := color.New(color.FgHiBlack)
	typ := color.New(color.FgCyan, color.Bold)
	metrics := color.New(color.FgYellow)
	for _, c := range []*color.Color{idx, typ, metrics} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	typeWidth := 0
	for _, c := range chunks {
		typeWidth = max(typeWidth, runewidth.StringWidth(c.Type))
	}
	idxWidth := len(strconv.Itoa(len(chunks)))

	for i, c := range chunks {
		m := fmt.Sprintf("%dt %dc %dl", c.TokenCount, c.CharCount, c.LineCount)
		// превью занимает остаток строки
		used := idxWidth + 1 + typeWidth + 1 + len(m) + 1
		preview := runewidth.Truncate(oneLine(c.Text), max(width-used, 10), "…")
		_, err := fmt.Fprintf(w, "%s %s %s %s\n",
			idx.Sprintf("%*d", idxWidth, i+1),
			typ.Sprint(runewidth.FillRight(c.Type, typeWidth)),
			metrics.Sprint(m),
			preview,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
