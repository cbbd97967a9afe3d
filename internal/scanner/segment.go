package scanner

import (
	"fmt"
	"strings"

	"textchunk/internal/chunk"
	"textchunk/internal/diag"
	"textchunk/internal/grammar"
)

// Segment scans text and classifies every raw span into a chunk. Chunks come
// out in scan order; their spans are shifted by opts.Base.
func Segment(t *grammar.Table, text string, opts *Options) ([]chunk.Chunk, error) {
	if opts == nil {
		opts = &Options{}
	}
	in := grammar.NewInput(text)
	sc := NewScanner(t, in, opts)

	var chunks []chunk.Chunk
	for {
		raw, ok := sc.Next()
		if !ok {
			break
		}
		c, keep, err := build(t, in, raw, opts)
		if err != nil {
			return chunks, err
		}
		if keep {
			chunks = append(chunks, c)
		}
	}
	return chunks, nil
}

func build(t *grammar.Table, in *grammar.Input, raw Raw, opts *Options) (chunk.Chunk, bool, error) {
	text := in.Slice(raw.Start, raw.End)
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return chunk.Chunk{}, false, nil
	}
	sp := trimmedSpan(text, opts.Base+in.ByteOffset(raw.Start), opts.File)
	scanRule := t.Rule(raw.Rule)

	if opts.Mode == ScanRule {
		return chunk.New(trimmed, scanRule.Name, sp, raw.Rule), true, nil
	}

	r, ok := classifyTrimmed(t, grammar.NewTrimmedInput(trimmed))
	if ok {
		return chunk.New(trimmed, r.Name, sp, raw.Rule), true, nil
	}

	// разрыв классификации: ни одно правило не принимает текст целиком
	msg := fmt.Sprintf("span scanned by %q matches no rule in full", scanRule.Name)
	switch opts.Gap {
	case GapFail:
		opts.report(diag.ScanClassificationGap, diag.SevError, sp, msg)
		return chunk.Chunk{}, false, fmt.Errorf("%w: %s at %s", ErrClassificationGap, msg, sp)
	case GapDrop:
		opts.report(diag.ScanDroppedGap, diag.SevInfo, sp, msg+"; dropped")
		return chunk.Chunk{}, false, nil
	default:
		opts.report(diag.ScanClassificationGap, diag.SevWarning, sp, msg+"; typed by scanning rule")
		return chunk.New(trimmed, scanRule.Name, sp, raw.Rule), true, nil
	}
}
