package scanner

import (
	"fmt"
	"strings"

	"textchunk/internal/diag"
	"textchunk/internal/grammar"
)

// Raw is a span emitted by the scanner before classification, in code point
// indices of the scanned input.
type Raw struct {
	Start, End int
	Rule       int
}

// Scanner walks an input once, trying the table's rules in rank order at
// every position. It keeps no state beyond the cursor.
type Scanner struct {
	table  *grammar.Table
	cursor Cursor
	opts   *Options
	// начало текущего пропущенного фрагмента, -1 если его нет
	skipped int
}

// NewScanner prepares a scanner over in.
func NewScanner(t *grammar.Table, in *grammar.Input, opts *Options) *Scanner {
	if opts == nil {
		opts = &Options{}
	}
	return &Scanner{
		table:   t,
		cursor:  NewCursor(in),
		opts:    opts,
		skipped: -1,
	}
}

// Next returns the next raw span. ok is false once the input is exhausted.
// Positions where no rule matches, or where the first match is empty, are
// skipped one code point at a time.
func (s *Scanner) Next() (raw Raw, ok bool) {
	for !s.cursor.EOF() {
		start := s.cursor.Pos
		if end, rank, hit := s.matchAt(start); hit {
			s.flushSkipped()
			s.cursor.Jump(end)
			return Raw{Start: start, End: end, Rule: rank}, true
		}
		if s.skipped < 0 {
			s.skipped = start
		}
		s.cursor.Bump()
	}
	s.flushSkipped()
	return Raw{}, false
}

// All drains the scanner.
func (s *Scanner) All() []Raw {
	var out []Raw
	for {
		raw, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, raw)
	}
}

// matchAt returns the first rule, by rank, whose grammar matches at pos.
// A zero-length match counts as a success for rank order, so lower rules are
// not consulted; the caller then advances by one code point.
func (s *Scanner) matchAt(pos int) (end, rank int, ok bool) {
	in := s.cursor.In
	for i := 0; i < s.table.Len(); i++ {
		r := s.table.Rule(i)
		e, hit := r.Match(in, pos)
		if !hit {
			continue
		}
		if e == pos {
			return 0, 0, false
		}
		return e, r.Rank, true
	}
	return 0, 0, false
}

func (s *Scanner) flushSkipped() {
	if s.skipped < 0 {
		return
	}
	m := Mark(s.skipped)
	s.skipped = -1
	text := s.cursor.Text(m)
	if isSpaceOnly(text) {
		return
	}
	sp := trimmedSpan(text, s.opts.Base+s.cursor.In.ByteOffset(int(m)), s.opts.File)
	s.opts.report(diag.ScanUnmatchedText, diag.SevWarning, sp,
		fmt.Sprintf("no rule matched %q; text skipped", shorten(strings.TrimSpace(text), 40)))
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
