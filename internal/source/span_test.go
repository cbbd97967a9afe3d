package source

import (
	"testing"
)

func TestSpan_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"disjoint", Span{Start: 0, End: 5}, Span{Start: 5, End: 9}, false},
		{"nested", Span{Start: 0, End: 10}, Span{Start: 3, End: 4}, true},
		{"partial", Span{Start: 0, End: 5}, Span{Start: 4, End: 9}, true},
		{"other file", Span{File: 1, Start: 0, End: 5}, Span{File: 2, Start: 0, End: 5}, false},
		{"empty", Span{Start: 3, End: 3}, Span{Start: 0, End: 9}, false},
		{"empty other", Span{Start: 0, End: 9}, Span{Start: 4, End: 4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSpan_Contains(t *testing.T) {
	outer := Span{Start: 1, End: 6}
	if !outer.Contains(Span{Start: 4, End: 6}) {
		t.Error("tail not contained")
	}
	if outer.Contains(Span{Start: 0, End: 2}) || outer.Contains(Span{File: 1, Start: 2, End: 3}) {
		t.Error("foreign span contained")
	}
	if (Span{Start: 5, End: 2}).Len() != 0 {
		t.Error("inverted span has length")
	}
}

func TestSpanOf(t *testing.T) {
	sp := SpanOf(2, 10, 20)
	if sp.File != 2 || sp.Start != 10 || sp.End != 20 {
		t.Errorf("SpanOf = %v", sp)
	}
	if sp.Len() != 10 {
		t.Errorf("Len = %d, want 10", sp.Len())
	}
}
