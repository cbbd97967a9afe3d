package scanner_test

import (
	"errors"
	"strings"
	"testing"

	"textchunk/internal/chunk"
	"textchunk/internal/diag"
	"textchunk/internal/grammar"
	"textchunk/internal/scanner"
	"textchunk/internal/source"
	"textchunk/internal/testkit"
)

type want struct {
	typ  string
	text string
}

func segment(t *testing.T, tbl *grammar.Table, text string, opts *scanner.Options) []chunk.Chunk {
	t.Helper()
	chunks, err := scanner.Segment(tbl, text, opts)
	if err != nil {
		t.Fatalf("Segment(%q): %v", text, err)
	}
	if err := testkit.CheckChunkInvariants(tbl, []byte(text), chunks); err != nil {
		t.Fatalf("invariants: %v", err)
	}
	return chunks
}

func expectChunks(t *testing.T, got []chunk.Chunk, wants []want) {
	t.Helper()
	if len(got) != len(wants) {
		for i, c := range got {
			t.Logf("chunk %d: %s %q", i, c.Type, c.Text)
		}
		t.Fatalf("got %d chunks, want %d", len(got), len(wants))
	}
	for i, w := range wants {
		if got[i].Type != w.typ || got[i].Text != w.text {
			t.Errorf("chunk %d = {%s %q}, want {%s %q}", i, got[i].Type, got[i].Text, w.typ, w.text)
		}
	}
}

func TestSegment_HeadingThenSentences(t *testing.T) {
	tbl := grammar.Default()
	text := "# Title\n\nThis is a sentence. Another one!"
	chunks := segment(t, tbl, text, nil)
	expectChunks(t, chunks, []want{
		{grammar.Heading, "# Title"},
		{grammar.Sentence, "This is a sentence."},
		{grammar.Sentence, "Another one!"},
	})
	if err := testkit.CheckCoverage([]byte(text), chunks); err != nil {
		t.Error(err)
	}
}

func TestSegment_ListItemsSingleChunk(t *testing.T) {
	chunks := segment(t, grammar.Default(), "- item one\n- item two", nil)
	expectChunks(t, chunks, []want{
		{grammar.ListItems, "- item one\n- item two"},
	})
	if chunks[0].LineCount != 2 || chunks[0].TokenCount != 6 {
		t.Errorf("metrics = lines %d tokens %d", chunks[0].LineCount, chunks[0].TokenCount)
	}
}

func TestSegment_UnclosedFenceFallsThrough(t *testing.T) {
	text := "```go\n" + strings.Repeat("some code here\n", 120)
	tbl := grammar.Default()
	chunks := segment(t, tbl, text, nil)
	if len(chunks) == 0 {
		t.Fatal("no chunks")
	}
	for i, c := range chunks {
		if c.Type == grammar.CodeBlock {
			t.Fatalf("chunk %d typed code_block: %q", i, c.Text)
		}
	}
	if chunks[0].Text != "```go" || chunks[0].Type != grammar.Sentence {
		t.Errorf("first chunk = {%s %q}", chunks[0].Type, chunks[0].Text)
	}
	if err := testkit.CheckCoverage([]byte(text), chunks); err != nil {
		t.Error(err)
	}
}

func TestSegment_ClosedFenceIsCodeBlock(t *testing.T) {
	text := "```go\nfmt.Println(1)\n```\nDone."
	chunks := segment(t, grammar.Default(), text, nil)
	expectChunks(t, chunks, []want{
		{grammar.CodeBlock, "```go\nfmt.Println(1)\n```"},
		{grammar.Sentence, "Done."},
	})
}

func TestSegment_IndentedCodeBlock(t *testing.T) {
	tbl := grammar.Default()
	bag := diag.NewBag(8)
	text := "    code line 1\n    code line 2\n\nText."
	chunks := segment(t, tbl, text, &scanner.Options{Reporter: diag.BagReporter{Bag: bag}})
	if len(chunks) == 0 {
		t.Fatal("no chunks")
	}
	if chunks[0].Type != grammar.CodeBlock || chunks[0].Text != "code line 1\n    code line 2" {
		t.Errorf("first chunk = {%s %q}", chunks[0].Type, chunks[0].Text)
	}
	if n := bag.Count(diag.ScanClassificationGap); n != 0 {
		t.Errorf("classification gaps = %d: %v", n, bag.Items())
	}
	if err := testkit.CheckPriority(tbl, chunks); err != nil {
		t.Error(err)
	}
}

// A blank line after a sentence starts a paragraph scan, which stops at the
// first line end; the list below is split and each part typed on its own.
func TestSegment_ParagraphAfterBlankLine(t *testing.T) {
	tbl := grammar.Default()
	text := "One.\n\n- a\n- b"
	chunks := segment(t, tbl, text, nil)
	expectChunks(t, chunks, []want{
		{grammar.Sentence, "One."},
		{grammar.ListItems, "- a"},
		{grammar.ListItems, "- b"},
	})
	para, _ := tbl.Lookup(grammar.Paragraph)
	if chunks[1].Rule != para.Rank {
		t.Errorf("second chunk scanned by rank %d, want paragraph (%d)", chunks[1].Rule, para.Rank)
	}
	if err := testkit.CheckPriority(tbl, chunks); err != nil {
		t.Error(err)
	}

	scanned := segment(t, tbl, text, &scanner.Options{Mode: scanner.ScanRule})
	expectChunks(t, scanned, []want{
		{grammar.Sentence, "One."},
		{grammar.Paragraph, "- a"},
		{grammar.ListItems, "- b"},
	})
}

const mixedDoc = "# Title\n\nFirst sentence here. Second one!\n- alpha\n- beta\n> quoted line\n" +
	"| a | b |\n|---|---|\n| 1 | 2 |\n---\nClosing words"

func TestSegment_MixedDocument(t *testing.T) {
	tbl := grammar.Default()
	chunks := segment(t, tbl, mixedDoc, nil)
	expectChunks(t, chunks, []want{
		{grammar.Heading, "# Title"},
		{grammar.Sentence, "First sentence here."},
		{grammar.Sentence, "Second one!"},
		{grammar.ListItems, "- alpha\n- beta"},
		{grammar.BlockQuote, "> quoted line"},
		{grammar.TableRule, "| a | b |\n|---|---|\n| 1 | 2 |"},
		{grammar.HorizontalRule, "---"},
		{grammar.Sentence, "Closing words"},
	})
	if err := testkit.CheckPriority(tbl, chunks); err != nil {
		t.Error(err)
	}
	if err := testkit.CheckCoverage([]byte(mixedDoc), chunks); err != nil {
		t.Error(err)
	}
}

func TestSegment_ForwardProgress(t *testing.T) {
	tbl := grammar.Default()
	inputs := []string{
		"",
		"\n\n\n",
		"   \t ",
		"((((",
		"$$",
		"```",
		"<div>",
		"🙂🙂🙂",
		"a\r\nb\r\n",
		"[1]",
		strings.Repeat("-", 500),
		strings.Repeat("x", 2000),
	}
	for _, in := range inputs {
		chunks := segment(t, tbl, in, nil)
		if len(chunks) > len([]rune(in)) {
			t.Errorf("%q: %d chunks for %d code points", in, len(chunks), len([]rune(in)))
		}
	}
}

func TestScanner_RawSpansIncrease(t *testing.T) {
	tbl := grammar.Default()
	in := grammar.NewInput(mixedDoc)
	raws := scanner.NewScanner(tbl, in, nil).All()
	prev := 0
	for i, r := range raws {
		if r.End <= r.Start {
			t.Fatalf("raw %d: empty span %d..%d", i, r.Start, r.End)
		}
		if r.Start < prev {
			t.Fatalf("raw %d: starts at %d before previous end %d", i, r.Start, prev)
		}
		if r.End-r.Start > tbl.Rule(r.Rule).MaxLen() {
			t.Errorf("raw %d: longer than %s", i, tbl.Rule(r.Rule))
		}
		prev = r.End
	}
}

func TestSegment_UnmatchedTextReported(t *testing.T) {
	bag := diag.NewBag(8)
	text := strings.Repeat("x", 2000)
	chunks := segment(t, grammar.Default(), text, &scanner.Options{Reporter: diag.BagReporter{Bag: bag}})
	expectChunks(t, chunks, []want{{grammar.Sentence, strings.Repeat("x", 1000)}})

	if bag.Count(diag.ScanUnmatchedText) != 1 {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
	d := bag.Items()[0]
	if d.Severity != diag.SevWarning || d.Primary.Start != 0 || d.Primary.End != 1000 {
		t.Errorf("unmatched diag = %+v", d)
	}
}

func TestSegment_BaseOffsetsSpans(t *testing.T) {
	chunks := segment(t, grammar.Default(), "Hello there.", nil)
	shifted, err := scanner.Segment(grammar.Default(), "Hello there.", &scanner.Options{File: 3, Base: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 || len(shifted) != 1 {
		t.Fatalf("chunks = %v / %v", chunks, shifted)
	}
	want := source.Span{File: 3, Start: 10, End: 22}
	if shifted[0].Span != want {
		t.Errorf("span = %v, want %v", shifted[0].Span, want)
	}
}

func gapTable(t *testing.T) *grammar.Table {
	t.Helper()
	tbl, err := grammar.Build(grammar.Config{Rules: []grammar.RuleSpec{
		{Name: "spaced", Pattern: " x", MaxLength: 4},
	}})
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestSegment_GapPolicies(t *testing.T) {
	tbl := gapTable(t)

	t.Run("report", func(t *testing.T) {
		bag := diag.NewBag(8)
		chunks, err := scanner.Segment(tbl, " x", &scanner.Options{Reporter: diag.BagReporter{Bag: bag}})
		if err != nil {
			t.Fatal(err)
		}
		expectChunks(t, chunks, []want{{"spaced", "x"}})
		if bag.Count(diag.ScanClassificationGap) != 1 || bag.HasErrors() {
			t.Fatalf("diagnostics = %v", bag.Items())
		}
		if sp := bag.Items()[0].Primary; sp.Start != 1 || sp.End != 2 {
			t.Errorf("gap span = %v", sp)
		}
	})

	t.Run("drop", func(t *testing.T) {
		bag := diag.NewBag(8)
		chunks, err := scanner.Segment(tbl, " x", &scanner.Options{Gap: scanner.GapDrop, Reporter: diag.BagReporter{Bag: bag}})
		if err != nil {
			t.Fatal(err)
		}
		if len(chunks) != 0 {
			t.Fatalf("chunks = %v", chunks)
		}
		if bag.Count(diag.ScanDroppedGap) != 1 {
			t.Errorf("diagnostics = %v", bag.Items())
		}
	})

	t.Run("fail", func(t *testing.T) {
		_, err := scanner.Segment(tbl, " x", &scanner.Options{Gap: scanner.GapFail})
		if !errors.Is(err, scanner.ErrClassificationGap) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("scan-rule mode has no gaps", func(t *testing.T) {
		bag := diag.NewBag(8)
		chunks, err := scanner.Segment(tbl, " x", &scanner.Options{Mode: scanner.ScanRule, Gap: scanner.GapFail, Reporter: diag.BagReporter{Bag: bag}})
		if err != nil {
			t.Fatal(err)
		}
		expectChunks(t, chunks, []want{{"spaced", "x"}})
		if bag.Len() != 0 {
			t.Errorf("diagnostics = %v", bag.Items())
		}
	})
}

func TestSegment_CustomRuleOutranksBuiltins(t *testing.T) {
	tbl, err := grammar.Build(grammar.Config{Rules: []grammar.RuleSpec{
		{Name: "mention", Pattern: "@[a-z]{1,{MAX_CITATION_LENGTH}}", MaxLength: 50},
		{Name: grammar.Sentence},
	}})
	if err != nil {
		t.Fatal(err)
	}
	chunks := segment(t, tbl, "@hello world.", nil)
	expectChunks(t, chunks, []want{
		{"mention", "@hello"},
		{grammar.Sentence, "world."},
	})
}

func TestClassify(t *testing.T) {
	tbl := grammar.Default()
	tests := []struct {
		text string
		want string
	}{
		{"  # Heading  ", grammar.Heading},
		{"[12] Smith et al.", grammar.Citation},
		{"---", grammar.HorizontalRule},
		{"Plain words.", grammar.Sentence},
		{"$$x^2$$", grammar.Sentence},
	}
	for _, tt := range tests {
		r, ok := scanner.Classify(tbl, tt.text)
		if !ok || r.Name != tt.want {
			t.Errorf("Classify(%q) = %v %v, want %s", tt.text, r.Name, ok, tt.want)
		}
	}
	if _, ok := scanner.Classify(tbl, " \n\t"); ok {
		t.Error("blank text classified")
	}
}

func TestParseModes(t *testing.T) {
	if m, err := scanner.ParseClassifyMode("scan-rule"); err != nil || m != scanner.ScanRule {
		t.Errorf("ParseClassifyMode = %v, %v", m, err)
	}
	if _, err := scanner.ParseClassifyMode("bogus"); err == nil {
		t.Error("bogus classify mode accepted")
	}
	if p, err := scanner.ParseGapPolicy("fail"); err != nil || p != scanner.GapFail {
		t.Errorf("ParseGapPolicy = %v, %v", p, err)
	}
	if p, _ := scanner.ParseGapPolicy(""); p != scanner.GapReport {
		t.Errorf("default gap policy = %v", p)
	}
}

func TestCursor(t *testing.T) {
	in := grammar.NewInput("añb")
	c := scanner.NewCursor(in)
	m := c.Mark()
	if c.Bump() != 'a' || c.Peek() != 'ñ' {
		t.Fatal("unexpected runes")
	}
	c.Jump(3)
	if !c.EOF() || c.Peek() != -1 {
		t.Fatal("expected EOF")
	}
	if sp := c.SpanFrom(m, 1, 0); sp.Start != 0 || sp.End != 4 {
		t.Errorf("span = %v", sp)
	}
	c.Jump(1)
	if c.Pos != 3 {
		t.Error("Jump moved backwards")
	}
	c.Reset(m)
	if c.Text(m) != "" {
		t.Error("Reset did not rewind")
	}
}
