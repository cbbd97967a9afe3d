package chunkfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"textchunk/internal/chunk"
)

// WriteStats writes st as indented JSON.
func WriteStats(w io.Writer, st *chunk.Stats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(st)
}

// WriteSummary prints the totals and the per-type counts for a terminal.
func WriteSummary(w io.Writer, st *chunk.Stats, useColor bool) error {
	head := color.New(color.Bold)
	if useColor {
		head.EnableColor()
	} else {
		head.DisableColor()
	}
	if _, err := fmt.Fprintf(w, "%s %d chunks, %d tokens, %d characters, %d lines\n",
		head.Sprint("total:"), st.TotalChunks, st.TotalTokens, st.TotalCharacters, st.TotalLines); err != nil {
		return err
	}
	for _, t := range st.Types() {
		if _, err := fmt.Fprintf(w, "  %-16s %d\n", t, st.ByType[t]); err != nil {
			return err
		}
	}
	return nil
}
