package diagfmt

import (
	"encoding/json"
	"io"

	"textchunk/internal/diag"
	"textchunk/internal/source"
)

// Position is a 1-based line and byte column.
type Position struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// Location names a byte range of an input and, on request, its positions.
type Location struct {
	File      string    `json:"file"`
	StartByte uint32    `json:"start_byte"`
	EndByte   uint32    `json:"end_byte"`
	Start     *Position `json:"start,omitempty"`
	End       *Position `json:"end,omitempty"`
}

// Note is a secondary message of an Entry.
type Note struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

// Entry is one diagnostic as written by JSON.
type Entry struct {
	Severity string   `json:"severity"`
	Code     string   `json:"code"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Location Location `json:"location"`
	Notes    []Note   `json:"notes,omitempty"`
}

// Output is the JSON document. Omitted counts diagnostics cut by Max or
// by the bag limit.
type Output struct {
	Diagnostics []Entry `json:"diagnostics"`
	Count       int     `json:"count"`
	Omitted     int     `json:"omitted,omitempty"`
}

func locate(span source.Span, fs *source.FileSet, opts JSONOpts) Location {
	f := lookupFile(fs, span.File)
	loc := Location{
		File:      displayPath(f, opts.PathMode, opts.BaseDir),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if opts.IncludePositions && f != nil {
		start, end := fs.Resolve(span)
		loc.Start = &Position{Line: start.Line, Col: start.Col}
		loc.End = &Position{Line: end.Line, Col: end.Col}
	}
	return loc
}

// Build converts the bag into an Output without encoding it.
func Build(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Output {
	items := bag.Items()
	n := len(items)
	if opts.Max > 0 {
		n = min(n, opts.Max)
	}

	out := Output{Diagnostics: make([]Entry, 0, n)}
	for _, d := range items[:n] {
		e := Entry{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: locate(d.Primary, fs, opts),
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				e.Notes = append(e.Notes, Note{Message: note.Msg, Location: locate(note.Span, fs, opts)})
			}
		}
		out.Diagnostics = append(out.Diagnostics, e)
	}
	out.Count = len(out.Diagnostics)
	out.Omitted = len(items) - n + bag.Dropped()
	return out
}

// JSON writes the bag as one indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Build(bag, fs, opts))
}
