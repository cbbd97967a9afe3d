package scanner

import (
	"strings"
	"unicode"

	"textchunk/internal/grammar"
	"textchunk/internal/source"
)

// Cursor is a code point position inside a prepared input.
type Cursor struct {
	In  *grammar.Input
	Pos int
}

// NewCursor creates a cursor at the start of in.
func NewCursor(in *grammar.Input) Cursor {
	return Cursor{In: in}
}

// EOF проверяет, достигнут ли конец буфера
func (c *Cursor) EOF() bool {
	return c.Pos >= c.In.Len()
}

// Peek читает текущую руну, если есть, иначе возвращает -1
func (c *Cursor) Peek() rune {
	if c.EOF() {
		return -1
	}
	return c.In.Runes[c.Pos]
}

// Bump перемещает курсор на одну руну вперед и возвращает её
func (c *Cursor) Bump() rune {
	if c.EOF() {
		return -1
	}
	r := c.In.Runes[c.Pos]
	c.Pos++
	return r
}

// Jump moves the cursor to end. A jump never goes backwards.
func (c *Cursor) Jump(end int) {
	if end > c.Pos {
		c.Pos = end
	}
}

// Mark это метка начала читаемого фрагмента
type Mark int

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Pos)
}

// Text returns the text between m and the cursor.
func (c *Cursor) Text(m Mark) string {
	return c.In.Slice(int(m), c.Pos)
}

// SpanFrom получает Span для фрагмента от метки до курсора, в байтах,
// сдвинутый на base (смещение шарда в исходном буфере).
func (c *Cursor) SpanFrom(m Mark, file source.FileID, base int) source.Span {
	return source.SpanOf(file, base+c.In.ByteOffset(int(m)), base+c.In.ByteOffset(c.Pos))
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Pos = int(m)
}

func isSpaceOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// trimmedSpan locates strings.TrimSpace(text) given the byte offset of text.
func trimmedSpan(text string, off int, file source.FileID) source.Span {
	lead := len(text) - len(strings.TrimLeftFunc(text, unicode.IsSpace))
	trimmed := strings.TrimSpace(text)
	return source.SpanOf(file, off+lead, off+lead+len(trimmed))
}
