package chunk

import "sort"

// Detail is the per-chunk row of a statistics report.
type Detail struct {
	Type       string `json:"type"`
	TokenCount int    `json:"token_count"`
	CharCount  int    `json:"char_count"`
	LineCount  int    `json:"line_count"`
}

// Stats aggregates chunk metrics over a stream.
type Stats struct {
	TotalChunks     int            `json:"total_chunks"`
	TotalTokens     int            `json:"total_tokens"`
	TotalCharacters int            `json:"total_characters"`
	TotalLines      int            `json:"total_lines"`
	ByType          map[string]int `json:"by_type"`
	Details         []Detail       `json:"chunk_details"`
}

// Compute folds chunks into a Stats value. Chunks are not modified.
func Compute(chunks []Chunk) Stats {
	st := Stats{
		ByType:  make(map[string]int),
		Details: make([]Detail, 0, len(chunks)),
	}
	for i := range chunks {
		st.Add(&chunks[i])
	}
	return st
}

// Add accounts for one more chunk.
func (st *Stats) Add(c *Chunk) {
	if st.ByType == nil {
		st.ByType = make(map[string]int)
	}
	st.TotalChunks++
	st.TotalTokens += c.TokenCount
	st.TotalCharacters += c.CharCount
	st.TotalLines += c.LineCount
	st.ByType[c.Type]++
	st.Details = append(st.Details, Detail{
		Type:       c.Type,
		TokenCount: c.TokenCount,
		CharCount:  c.CharCount,
		LineCount:  c.LineCount,
	})
}

// Types returns the chunk types seen, most frequent first, ties by name.
func (st *Stats) Types() []string {
	out := make([]string, 0, len(st.ByType))
	for t := range st.ByType {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := st.ByType[out[i]], st.ByType[out[j]]
		if ci != cj {
			return ci > cj
		}
		return out[i] < out[j]
	})
	return out
}
