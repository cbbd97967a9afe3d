package grammar

import (
	"sort"
	"unicode/utf8"
)

// Input is a buffer prepared for matching. Grammars address it by code point
// index; Offs maps every index (plus the end) back to a byte offset in Text.
type Input struct {
	Text  string
	Runes []rune
	Offs  []int
	// Trimmed marks a chunk text whose surrounding whitespace, including a
	// first-line indent, was cut before matching.
	Trimmed bool
}

// NewInput decodes text once so that rule matching never re-decodes UTF-8.
func NewInput(text string) *Input {
	n := utf8.RuneCountInString(text)
	in := &Input{
		Text:  text,
		Runes: make([]rune, 0, n),
		Offs:  make([]int, 0, n+1),
	}
	for off, r := range text {
		in.Runes = append(in.Runes, r)
		in.Offs = append(in.Offs, off)
	}
	in.Offs = append(in.Offs, len(text))
	return in
}

// NewTrimmedInput prepares an already trimmed chunk text for full matching.
func NewTrimmedInput(text string) *Input {
	in := NewInput(text)
	in.Trimmed = true
	return in
}

// Len returns the number of code points.
func (in *Input) Len() int {
	return len(in.Runes)
}

// ByteOffset converts a code point index into a byte offset.
func (in *Input) ByteOffset(i int) int {
	return in.Offs[i]
}

// Index converts a byte offset into the index of the code point that starts
// at or after it.
func (in *Input) Index(byteOff int) int {
	return sort.SearchInts(in.Offs, byteOff)
}

// Slice returns the text between two code point indices.
func (in *Input) Slice(start, end int) string {
	return in.Text[in.Offs[start]:in.Offs[end]]
}

// at возвращает руну по индексу или -1 за пределами буфера
func (in *Input) at(i int) rune {
	if i < 0 || i >= len(in.Runes) {
		return -1
	}
	return in.Runes[i]
}
