package grammar

import "testing"

func TestPrefixAndFull(t *testing.T) {
	in := NewInput("aaab")
	n := Seq(Run(only('a'), 1, 5), Lit("b"))
	if end, ok := Prefix(n, in, 0); !ok || end != 4 {
		t.Fatalf("Prefix = %d, %v", end, ok)
	}
	if !Full(n, in) {
		t.Error("Full rejected aaab")
	}
	if Full(Run(only('a'), 1, 2), in) {
		t.Error("bounded run matched past its cap")
	}
}

func TestLazyRunPrefersShortest(t *testing.T) {
	in := NewInput("a.b.c")
	n := Seq(LazyRun(anyRune, 1, 10), Lit("."))
	if end, _ := Prefix(n, in, 0); end != 2 {
		t.Errorf("lazy end = %d, want 2", end)
	}
	g := Seq(Run(anyRune, 1, 10), Lit("."))
	if end, _ := Prefix(g, in, 0); end != 4 {
		t.Errorf("greedy end = %d, want 4", end)
	}
}

func TestFullBacktracksIntoAlternatives(t *testing.T) {
	// первая альтернатива предпочтительна, но не покрывает весь текст
	n := Seq(Alt(Lit("ab"), Lit("abc")), Opt(Lit("d")))
	in := NewInput("abcd")
	if end, _ := Prefix(n, in, 0); end != 2 {
		t.Errorf("Prefix = %d, want 2", end)
	}
	if !Full(n, in) {
		t.Error("Full should find the abc+d derivation")
	}
}

func TestRepeatStopsOnEmptyIteration(t *testing.T) {
	n := Repeat(Run(only('x'), 0, 3), 0, 100)
	in := NewInput("yyy")
	if end, ok := Prefix(n, in, 0); !ok || end != 0 {
		t.Errorf("Prefix = %d, %v", end, ok)
	}
}

func TestAssertions(t *testing.T) {
	in := NewInput("ab\ncd")
	cases := []struct {
		name string
		node Node
		pos  int
		ok   bool
	}{
		{"line start at 0", LineStart, 0, true},
		{"line start after newline", LineStart, 3, true},
		{"no line start mid-line", LineStart, 1, false},
		{"line end before newline", LineEnd, 2, true},
		{"line end at eof", LineEnd, 5, true},
		{"not after word", NotAfter(isWord), 1, false},
		{"not before word at eof", NotBefore(isWord), 5, true},
		{"ahead", Ahead(Lit("\n")), 2, true},
		{"not ahead", NotAhead(Lit("\n")), 2, false},
	}
	for _, tc := range cases {
		end, ok := Prefix(tc.node, in, tc.pos)
		if ok != tc.ok {
			t.Errorf("%s: ok = %v", tc.name, ok)
		}
		if ok && end != tc.pos {
			t.Errorf("%s: assertion consumed input", tc.name)
		}
	}
}

func TestMaxLen(t *testing.T) {
	n := Seq(Lit("ab"), Alt(Run(anyRune, 0, 10), Lit("xyz")), Repeat(Class(isDigit), 0, 4), Ahead(Lit("q")))
	if got := MaxLen(n); got != 16 {
		t.Errorf("MaxLen = %d, want 16", got)
	}
	if got := MaxLen(Repeat(Run(anyRune, 0, Unbounded), 0, 10)); got != Unbounded {
		t.Errorf("MaxLen saturates at %d, got %d", Unbounded, got)
	}
}

func TestInputOffsets(t *testing.T) {
	in := NewInput("añb")
	if in.Len() != 3 {
		t.Fatalf("Len = %d", in.Len())
	}
	if in.ByteOffset(2) != 3 || in.Index(3) != 2 {
		t.Errorf("offsets: %v", in.Offs)
	}
	if in.Slice(1, 3) != "ñb" {
		t.Errorf("Slice = %q", in.Slice(1, 3))
	}
}
