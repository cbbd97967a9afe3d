package testkit

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"

	"textchunk/internal/chunk"
	"textchunk/internal/grammar"
	"textchunk/internal/scanner"
	"textchunk/internal/source"
)

// CheckChunkInvariants runs the stream invariants of one scan unit:
// 1) every span is non-empty, inside content and holds exactly the chunk text
// 2) spans are strictly increasing and do not overlap
// 3) metrics agree with the text
// 4) no chunk is longer than the maximum of the rule that typed it
func CheckChunkInvariants(t *grammar.Table, content []byte, chunks []chunk.Chunk) error {
	if t == nil {
		return fmt.Errorf("nil table")
	}
	lenContent, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var prevEnd uint32
	for i, c := range chunks {
		sp := c.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("chunk %d: empty span %v", i, sp)
		}
		if whole := (source.Span{File: sp.File, End: lenContent}); !whole.Contains(sp) {
			return fmt.Errorf("chunk %d: span %v beyond content (%d bytes)", i, sp, lenContent)
		}
		if got := string(content[sp.Start:sp.End]); got != c.Text {
			return fmt.Errorf("chunk %d: span %v holds %q, chunk text is %q", i, sp, got, c.Text)
		}
		if i > 0 && sp.Start < prevEnd {
			return fmt.Errorf("chunk %d: span %v overlaps previous chunk ending at %d", i, sp, prevEnd)
		}
		prevEnd = sp.End

		if c.Text != strings.TrimSpace(c.Text) {
			return fmt.Errorf("chunk %d: text %q is not trimmed", i, c.Text)
		}
		if n := utf8.RuneCountInString(c.Text); n != c.CharCount {
			return fmt.Errorf("chunk %d: char count %d, want %d", i, c.CharCount, n)
		}
		if n := len(strings.Fields(c.Text)); n != c.TokenCount {
			return fmt.Errorf("chunk %d: token count %d, want %d", i, c.TokenCount, n)
		}

		r, ok := t.Lookup(c.Type)
		if !ok {
			return fmt.Errorf("chunk %d: type %q is not in the table", i, c.Type)
		}
		if c.CharCount > r.MaxLen() {
			return fmt.Errorf("chunk %d: %d code points exceed %s max %d", i, c.CharCount, r.Name, r.MaxLen())
		}
	}
	return nil
}

// CheckPriority verifies that each chunk carries the type of the first rule
// accepting its text in full, and that classifying it again is stable.
func CheckPriority(t *grammar.Table, chunks []chunk.Chunk) error {
	for i, c := range chunks {
		r, ok := scanner.Classify(t, c.Text)
		if !ok {
			return fmt.Errorf("chunk %d: %q matches no rule in full", i, c.Text)
		}
		if r.Name != c.Type {
			return fmt.Errorf("chunk %d: type %q, first full match is %q", i, c.Type, r.Name)
		}
	}
	return nil
}

// CheckCoverage verifies that content outside chunk spans is whitespace only.
func CheckCoverage(content []byte, chunks []chunk.Chunk) error {
	var pos uint32
	for i, c := range chunks {
		if gap := string(content[pos:c.Span.Start]); strings.TrimSpace(gap) != "" {
			return fmt.Errorf("chunk %d: uncovered text %q before span %v", i, gap, c.Span)
		}
		pos = c.Span.End
	}
	if gap := string(content[pos:]); strings.TrimSpace(gap) != "" {
		return fmt.Errorf("uncovered trailing text %q", gap)
	}
	return nil
}
