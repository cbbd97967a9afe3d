package driver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"textchunk/internal/chunk"
	"textchunk/internal/grammar"
	"textchunk/internal/testkit"
)

func collect(t *testing.T, text string, window int) []chunk.Chunk {
	t.Helper()
	var got []chunk.Chunk
	bag, err := SegmentStream(context.Background(), strings.NewReader(text), 0, window,
		&Options{Table: grammar.Default()},
		func(c chunk.Chunk) error {
			got = append(got, c)
			return nil
		})
	if err != nil {
		t.Fatalf("SegmentStream(window=%d): %v", window, err)
	}
	if bag.HasErrors() {
		t.Fatalf("SegmentStream(window=%d): %v", window, bag.Items())
	}
	return got
}

func TestSegmentStream_LineWindows(t *testing.T) {
	// окно 60 режется после "- beta\n": ни одна строка не разрывается
	for _, window := range []int{0, 60, 4096} {
		got := collect(t, mixedDoc, window)
		if types := chunkTypes(got); !sameStrings(types, mixedTypes) {
			t.Fatalf("window=%d: types %v", window, types)
		}
		if err := testkit.CheckChunkInvariants(grammar.Default(), []byte(mixedDoc), got); err != nil {
			t.Fatalf("window=%d: %v", window, err)
		}
	}
}

func TestSegmentStream_StopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	_, err := SegmentStream(context.Background(), strings.NewReader(mixedDoc), 0, 0,
		&Options{Table: grammar.Default()},
		func(chunk.Chunk) error {
			calls++
			return stop
		})
	if !errors.Is(err, stop) || calls != 1 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}
}

func TestWindowCut(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"ab\ncd", 3},
		{"abcd", 4},
		{"ab\n", 3},
		{"ab\xc3", 2},        // обрезанный "ä"
		{"a\xe2\x82", 1},     // обрезанный "€"
		{"a\xe2\x82\xac", 4}, // целый "€"
		{"\xf0\x9f\x98", 3},  // окно меньше символа
	}
	for _, tc := range cases {
		if got := windowCut([]byte(tc.in)); got != tc.want {
			t.Errorf("windowCut(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
