package fuzztests

import (
	"context"
	"testing"
	"time"
	"unicode/utf8"

	"textchunk/internal/diag"
	"textchunk/internal/driver"
	"textchunk/internal/grammar"
	"textchunk/internal/scanner"
	"textchunk/internal/testkit"
)

const maxFuzzInput = 1 << 14 // 16 KiB

// segmentTimeout bounds one input; longer runs indicate runaway backtracking.
const segmentTimeout = 10 * time.Second

func prepare(input []byte) ([]byte, bool) {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	// сканер работает по кодовым точкам: невалидный UTF-8 не интересен
	if !utf8.Valid(input) {
		return nil, false
	}
	return append([]byte(nil), input...), true
}

func FuzzSegmentInvariants(f *testing.F) {
	addCorpusSeeds(f)
	tbl := grammar.Default()

	f.Fuzz(func(t *testing.T, input []byte) {
		input, ok := prepare(input)
		if !ok {
			t.Skip()
		}
		bag := diag.NewBag(1 << 12)
		chunks, err := scanner.Segment(tbl, string(input), &scanner.Options{Reporter: diag.BagReporter{Bag: bag}})
		if err != nil {
			t.Fatalf("Segment: %v", err)
		}
		if err := testkit.CheckChunkInvariants(tbl, input, chunks); err != nil {
			t.Fatalf("%v\ninput: %q", err, input)
		}
		if bag.Count(diag.ScanClassificationGap) == 0 {
			if err := testkit.CheckPriority(tbl, chunks); err != nil {
				t.Fatalf("%v\ninput: %q", err, input)
			}
		}
	})
}

// FuzzShardedNoHang checks that the sharded driver terminates and keeps the
// chunk invariants for every shard count.
func FuzzShardedNoHang(f *testing.F) {
	addCorpusSeeds(f)
	tbl := grammar.Default()

	f.Fuzz(func(t *testing.T, input []byte) {
		input, ok := prepare(input)
		if !ok {
			t.Skip()
		}
		ctx, cancel := context.WithTimeout(context.Background(), segmentTimeout)
		defer cancel()

		done := make(chan driver.Result, 1)
		go func() {
			done <- driver.SegmentText(ctx, "fuzz", string(input), &driver.Options{Table: tbl, Threads: 3})
		}()

		select {
		case res := <-done:
			if res.Err != nil {
				t.Fatalf("SegmentText: %v", res.Err)
			}
			if err := testkit.CheckChunkInvariants(tbl, input, res.Chunks); err != nil {
				t.Fatalf("%v\ninput: %q", err, input)
			}
		case <-ctx.Done():
			t.Fatalf("segmentation hang: took longer than %v\ninput (%d bytes): %q",
				segmentTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
