package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"textchunk/internal/diag"
	"textchunk/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		f := lookupFile(fs, d.Primary.File)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			location(fs, f, d.Primary, opts.PathMode, opts.BaseDir),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message,
		)
		if f != nil && len(f.Content) > 0 {
			snippet(w, fs, f, d.Primary, opts, p)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				nf := lookupFile(fs, n.Span.File)
				fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"),
					location(fs, nf, n.Span, opts.PathMode, opts.BaseDir), n.Msg)
			}
		}
	}
}

func location(fs *source.FileSet, f *source.File, sp source.Span, mode PathMode, baseDir string) string {
	path := displayPath(f, mode, baseDir)
	if f == nil {
		return path
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

// snippet печатает строку span'а и opts.Context строк вокруг неё.
func snippet(w io.Writer, fs *source.FileSet, f *source.File, sp source.Span, opts PrettyOpts, p palette) {
	start, end := fs.Resolve(sp)
	lines := strings.Split(string(f.Content), "\n")
	first := max(int(start.Line)-int(opts.Context), 1)
	last := min(int(start.Line)+int(opts.Context), len(lines))
	gutter := len(strconv.Itoa(last))

	for ln := first; ln <= last; ln++ {
		text := clip(lines[ln-1], opts.Width)
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutter, ln), text)
		if ln != int(start.Line) {
			continue
		}
		// подчёркивание до конца строки, если span многострочный
		lineText := lines[ln-1]
		from := min(int(start.Col)-1, len(lineText))
		to := len(lineText)
		if end.Line == start.Line {
			to = min(int(end.Col)-1, len(lineText))
		}
		pad := runewidth.StringWidth(lineText[:from])
		width := max(runewidth.StringWidth(lineText[from:to]), 1)
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutter, ""),
			strings.Repeat(" ", pad), p.caret.Sprint(marker))
	}
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
