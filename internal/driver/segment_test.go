package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"textchunk/internal/cache"
	"textchunk/internal/chunk"
	"textchunk/internal/diag"
	"textchunk/internal/grammar"
	"textchunk/internal/scanner"
	"textchunk/internal/testkit"
)

const mixedDoc = "# Title\n\nFirst sentence here. Second one!\n- alpha\n- beta\n> quoted line\n" +
	"| a | b |\n|---|---|\n| 1 | 2 |\n---\nClosing words"

var mixedTypes = []string{
	"heading", "sentence", "sentence", "list_items",
	"block_quote", "table", "horizontal_rule", "sentence",
}

func chunkTypes(chunks []chunk.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Type
	}
	return out
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSplitShards(t *testing.T) {
	cases := []struct {
		text string
		n    int
		want []string
	}{
		{"abcdefghij", 3, []string{"abc", "def", "ghij"}},
		{"abcd", 1, []string{"abcd"}},
		{"abcd", 0, []string{"abcd"}},
		{"ab", 4, []string{"", "", "", "ab"}},
		{"", 2, []string{"", ""}},
		{"äöüß", 2, []string{"äö", "üß"}},
	}
	for _, tc := range cases {
		shards := SplitShards(tc.text, tc.n)
		got := make([]string, len(shards))
		var joined strings.Builder
		for i, sh := range shards {
			if sh.Index != i {
				t.Fatalf("SplitShards(%q,%d): shard %d has index %d", tc.text, tc.n, i, sh.Index)
			}
			if tc.text[sh.Start:sh.Start+len(sh.Text)] != sh.Text {
				t.Fatalf("SplitShards(%q,%d): shard %d start %d does not locate its text", tc.text, tc.n, i, sh.Start)
			}
			got[i] = sh.Text
			joined.WriteString(sh.Text)
		}
		if !sameStrings(got, tc.want) {
			t.Errorf("SplitShards(%q,%d) = %q, want %q", tc.text, tc.n, got, tc.want)
		}
		if joined.String() != tc.text {
			t.Errorf("SplitShards(%q,%d) loses text: %q", tc.text, tc.n, joined.String())
		}
	}
}

func TestSegmentText_ShardsChangeBoundaries(t *testing.T) {
	text := "Alpha beta gamma " + "- delta epsilons."
	tbl := grammar.Default()

	one := SegmentText(context.Background(), "mem", text, &Options{Table: tbl, Threads: 1})
	if one.Err != nil {
		t.Fatalf("threads=1: %v", one.Err)
	}
	if len(one.Chunks) != 1 || one.Chunks[0].Type != "sentence" || one.Chunks[0].Text != strings.TrimSpace(text) {
		t.Fatalf("threads=1: got %+v", one.Chunks)
	}

	two := SegmentText(context.Background(), "mem", text, &Options{Table: tbl, Threads: 2})
	if two.Err != nil {
		t.Fatalf("threads=2: %v", two.Err)
	}
	if got := chunkTypes(two.Chunks); !sameStrings(got, []string{"sentence", "list_items"}) {
		t.Fatalf("threads=2: types %v", got)
	}
	if two.Chunks[0].Text != "Alpha beta gamma" || two.Chunks[1].Text != "- delta epsilons." {
		t.Fatalf("threads=2: texts %q / %q", two.Chunks[0].Text, two.Chunks[1].Text)
	}
	// смещения второго шарда пересчитаны в координаты всего текста
	if two.Chunks[1].Span.Start != 17 || int(two.Chunks[1].Span.End) != len(text) {
		t.Fatalf("threads=2: second span %+v", two.Chunks[1].Span)
	}
	if err := testkit.CheckChunkInvariants(tbl, []byte(text), two.Chunks); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestSegmentText_ShardProgress(t *testing.T) {
	ch := make(chan Event, 64)
	res := SegmentText(context.Background(), "mem", mixedDoc, &Options{
		Table:    grammar.Default(),
		Threads:  3,
		Progress: ChannelSink{Ch: ch},
	})
	close(ch)
	if res.Err != nil {
		t.Fatalf("SegmentText: %v", res.Err)
	}

	done := map[int]bool{}
	for ev := range ch {
		if ev.Shards != 3 {
			t.Fatalf("event %+v: want 3 shards", ev)
		}
		if ev.Status == StatusDone {
			done[ev.Shard] = true
		}
	}
	for i := range 3 {
		if !done[i] {
			t.Errorf("shard %d never reported done", i)
		}
	}
}

func TestSegmentText_NoTable(t *testing.T) {
	res := SegmentText(context.Background(), "mem", "text", &Options{})
	if !errors.Is(res.Err, ErrNoTable) {
		t.Fatalf("err = %v, want ErrNoTable", res.Err)
	}
}

func TestSegmentText_GapFailInShard(t *testing.T) {
	tbl, err := grammar.Build(grammar.Config{Rules: []grammar.RuleSpec{
		{Name: "padded", Pattern: " x", MaxLength: 4},
	}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	res := SegmentText(context.Background(), "mem", " x x", &Options{
		Table:   tbl,
		Gap:     scanner.GapFail,
		Threads: 2,
	})
	if !errors.Is(res.Err, scanner.ErrClassificationGap) {
		t.Fatalf("err = %v, want ErrClassificationGap", res.Err)
	}
	if res.Bag.Count(diag.ScanClassificationGap) == 0 {
		t.Fatalf("missing gap diagnostic: %+v", res.Bag.Items())
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestSegmentFiles_MissingFileKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.md", "# Title\n\nThis is a sentence. Another one!")
	missing := filepath.Join(dir, "missing.md")
	last := writeFile(t, dir, "c.md", "- item one\n- item two")

	fs, results, err := SegmentFiles(context.Background(), []string{first, missing, last}, &Options{
		Table: grammar.Default(),
		Jobs:  2,
	})
	if err != nil {
		t.Fatalf("SegmentFiles: %v", err)
	}
	if len(results) != 3 || fs.Len() != 3 {
		t.Fatalf("got %d results and %d files", len(results), fs.Len())
	}

	if got := chunkTypes(results[0].Chunks); !sameStrings(got, []string{"heading", "sentence", "sentence"}) {
		t.Errorf("a.md types %v", got)
	}
	if results[1].Err == nil || results[1].Bag.Count(diag.IOLoadFileError) != 1 {
		t.Errorf("missing.md: err=%v diags=%+v", results[1].Err, results[1].Bag.Items())
	}
	if got := chunkTypes(results[2].Chunks); !sameStrings(got, []string{"list_items"}) {
		t.Errorf("c.md types %v", got)
	}
	for i, r := range results {
		if r.FileID != fs.Get(r.FileID).ID || fs.Get(r.FileID).Path != filepath.ToSlash(filepath.Clean(r.Path)) {
			t.Errorf("result %d not bound to its file", i)
		}
		for _, c := range r.Chunks {
			if c.Span.File != r.FileID {
				t.Errorf("result %d: chunk span in file %d", i, c.Span.File)
			}
		}
	}
}

func TestSegmentFiles_CacheHit(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.md", mixedDoc)
	c, err := cache.Open(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	opts := &Options{Table: grammar.Default(), Cache: c}

	_, cold, err := SegmentFiles(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatalf("cold run: %v", err)
	}
	if cold[0].Cached {
		t.Fatalf("cold run served from cache")
	}

	_, warm, err := SegmentFiles(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatalf("warm run: %v", err)
	}
	if !warm[0].Cached {
		t.Fatalf("warm run missed the cache")
	}
	if !sameStrings(chunkTypes(warm[0].Chunks), mixedTypes) {
		t.Fatalf("warm types %v", chunkTypes(warm[0].Chunks))
	}
	for i := range cold[0].Chunks {
		if cold[0].Chunks[i].Text != warm[0].Chunks[i].Text || cold[0].Chunks[i].Span != warm[0].Chunks[i].Span {
			t.Fatalf("chunk %d differs: %+v vs %+v", i, cold[0].Chunks[i], warm[0].Chunks[i])
		}
	}

	// другой режим разбиения даёт другой ключ
	opts.Threads = 2
	_, other, err := SegmentFiles(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatalf("threads run: %v", err)
	}
	if other[0].Cached {
		t.Fatalf("threads=2 reused the single-thread entry")
	}
}

func TestSegmentFiles_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.md", mixedDoc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := SegmentFiles(ctx, []string{path}, &Options{Table: grammar.Default()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
