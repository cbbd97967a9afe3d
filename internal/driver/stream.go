package driver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"unicode/utf8"

	"textchunk/internal/chunk"
	"textchunk/internal/diag"
	"textchunk/internal/source"
	"textchunk/internal/trace"
)

// SegmentStream segments r window by window and hands every chunk to fn in
// order. Each window is cut after its last newline so that a line never
// straddles two windows; a window without a newline is cut on a code point
// boundary. A non-positive window reads r whole.
//
// Spans are byte offsets into the full stream under file.
func SegmentStream(ctx context.Context, r io.Reader, file source.FileID, window int, opts *Options, fn func(chunk.Chunk) error) (*diag.Bag, error) {
	bag := diag.NewBag(opts.maxDiagnostics())
	if opts.Table == nil {
		return bag, ErrNoTable
	}
	ctx, span := trace.Start(ctx, trace.ScopeRun, "segment-stream")
	windows := 0
	defer func() { span.Set("windows", strconv.Itoa(windows)).End("") }()

	if window <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return bag, err
		}
		return bag, segmentWindow(ctx, opts, file, string(data), 0, bag, fn)
	}

	window = max(window, utf8.UTFMax)
	var (
		pending []byte
		base    int
		eof     bool
	)
	buf := make([]byte, window)
	for {
		if err := ctx.Err(); err != nil {
			return bag, err
		}
		for !eof && len(pending) < window {
			n, err := io.ReadFull(r, buf[:window-len(pending)])
			pending = append(pending, buf[:n]...)
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				eof = true
			} else if err != nil {
				return bag, err
			}
		}
		if len(pending) == 0 {
			return bag, nil
		}

		cut := len(pending)
		if !eof {
			cut = windowCut(pending)
		}
		windows++
		if err := segmentWindow(ctx, opts, file, string(pending[:cut]), base, bag, fn); err != nil {
			return bag, err
		}
		base += cut
		pending = append(pending[:0], pending[cut:]...)
		if eof && len(pending) == 0 {
			return bag, nil
		}
	}
}

func segmentWindow(ctx context.Context, opts *Options, file source.FileID, text string, base int, bag *diag.Bag, fn func(chunk.Chunk) error) error {
	chunks, err := segmentUnit(ctx, opts, "stream", file, text, base, bag)
	for _, c := range chunks {
		if ferr := fn(c); ferr != nil {
			return ferr
		}
	}
	return err
}

// windowCut returns the length of the prefix of b to segment now.
func windowCut(b []byte) int {
	if i := bytes.LastIndexByte(b, '\n'); i >= 0 {
		return i + 1
	}
	// откатываемся к началу последнего символа, если он обрезан
	start := len(b) - 1
	for start > 0 && len(b)-start < utf8.UTFMax && !utf8.RuneStart(b[start]) {
		start--
	}
	if utf8.FullRune(b[start:]) {
		return len(b)
	}
	if start == 0 {
		// окно меньше одного символа
		return len(b)
	}
	return start
}
