package driver

import "unicode/utf8"

// Shard is one contiguous piece of a buffer scanned on its own.
type Shard struct {
	Index int
	// Start is the byte offset of Text in the original buffer.
	Start int
	Text  string
}

// SplitShards cuts text into exactly n pieces of near-equal code point count.
// Every piece holds len/n code points except the last, which absorbs the
// remainder. Cuts fall on code point boundaries but ignore sentence and line
// structure, so a construct crossing a cut is scanned as two fragments.
func SplitShards(text string, n int) []Shard {
	if n < 1 {
		n = 1
	}
	total := utf8.RuneCountInString(text)
	size := total / n

	shards := make([]Shard, 0, n)
	start, count, idx := 0, 0, 0
	for off := range text {
		if idx < n-1 && count == size && size > 0 {
			shards = append(shards, Shard{Index: idx, Start: start, Text: text[start:off]})
			idx++
			start, count = off, 0
		}
		count++
	}
	// пустые шарды при size == 0: первые n-1 пустые, весь текст в последнем
	for idx < n-1 {
		shards = append(shards, Shard{Index: idx, Start: start, Text: ""})
		idx++
	}
	shards = append(shards, Shard{Index: idx, Start: start, Text: text[start:]})
	return shards
}
