package chunk

import (
	"strings"
	"unicode/utf8"

	"textchunk/internal/source"
)

// Chunk is one typed segment of the input.
type Chunk struct {
	Text       string      `json:"text" msgpack:"text"`
	Type       string      `json:"type" msgpack:"type"`
	TokenCount int         `json:"token_count" msgpack:"token_count"`
	CharCount  int         `json:"char_count" msgpack:"char_count"`
	LineCount  int         `json:"line_count" msgpack:"line_count"`
	Span       source.Span `json:"-" msgpack:"span"`
	// Rule is the rank of the rule that produced the raw span while scanning.
	Rule int `json:"-" msgpack:"rule"`
}

// New builds a chunk from already trimmed text and fills in its metrics.
func New(text, typ string, sp source.Span, rule int) Chunk {
	return Chunk{
		Text:       text,
		Type:       typ,
		TokenCount: len(strings.Fields(text)),
		CharCount:  utf8.RuneCountInString(text),
		LineCount:  strings.Count(text, "\n") + 1,
		Span:       sp,
		Rule:       rule,
	}
}
