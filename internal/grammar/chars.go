package grammar

import (
	"strings"
	"unicode"
)

// emoji covers Emoji_Presentation and the Extended_Pictographic blocks that
// the terminal-marker grammar treats like sentence punctuation.
var emoji = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00a9, Hi: 0x00a9, Stride: 1},
		{Lo: 0x00ae, Hi: 0x00ae, Stride: 1},
		{Lo: 0x203c, Hi: 0x203c, Stride: 1},
		{Lo: 0x2122, Hi: 0x2122, Stride: 1},
		{Lo: 0x2139, Hi: 0x2139, Stride: 1},
		{Lo: 0x2194, Hi: 0x21aa, Stride: 1},
		{Lo: 0x231a, Hi: 0x23ff, Stride: 1},
		{Lo: 0x24c2, Hi: 0x24c2, Stride: 1},
		{Lo: 0x25aa, Hi: 0x25fe, Stride: 1},
		{Lo: 0x2600, Hi: 0x27bf, Stride: 1},
		{Lo: 0x2934, Hi: 0x2935, Stride: 1},
		{Lo: 0x2b05, Hi: 0x2b55, Stride: 1},
		{Lo: 0x3030, Hi: 0x3030, Stride: 1},
		{Lo: 0x303d, Hi: 0x303d, Stride: 1},
		{Lo: 0x3297, Hi: 0x3299, Stride: 2},
	},
	R32: []unicode.Range32{
		{Lo: 0x1f000, Hi: 0x1f2ff, Stride: 1},
		{Lo: 0x1f300, Hi: 0x1faff, Stride: 1},
	},
}

// IsTerminal reports whether r ends a sentence or phrase on its own.
func IsTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', '…', '⁇', '⁈', '⁉':
		return true
	}
	return r > 0x7f && unicode.Is(emoji, r)
}

// IsEmoji reports whether r belongs to the pictographic terminal set.
func IsEmoji(r rune) bool {
	return unicode.Is(emoji, r)
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

func notNewline(r rune) bool {
	return r != '\n' && r != '\r'
}

func notLF(r rune) bool {
	return r != '\n'
}

func anyRune(rune) bool {
	return true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func notGT(r rune) bool {
	return r != '>'
}

func oneOf(set string) func(rune) bool {
	return func(r rune) bool {
		return strings.ContainsRune(set, r)
	}
}

// noneOf rejects the listed runes and newlines.
func noneOf(set string) func(rune) bool {
	return func(r rune) bool {
		return notNewline(r) && !strings.ContainsRune(set, r)
	}
}

func only(c rune) func(rune) bool {
	return func(r rune) bool {
		return r == c
	}
}
