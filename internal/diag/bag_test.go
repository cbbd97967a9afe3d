package diag

import (
	"testing"

	"textchunk/internal/source"
)

func TestBag_LimitAndMerge(t *testing.T) {
	b := NewBag(2)
	for i := 0; i < 3; i++ {
		b.Add(New(SevWarning, ScanUnmatchedText, source.Span{Start: uint32(i), End: uint32(i + 1)}, "x"))
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
	if b.Dropped() != 1 || b.HasErrors() || !b.HasWarnings() {
		t.Fatalf("Dropped = %d, errors=%v", b.Dropped(), b.HasErrors())
	}

	other := NewBag(4)
	other.Add(New(SevError, IOLoadFileError, source.Span{}, "boom"))
	b.Merge(other)
	if b.Len() != 3 || !b.HasErrors() {
		t.Fatalf("merge lost items: %d, errors=%v", b.Len(), b.HasErrors())
	}
	if b.Count(ScanUnmatchedText) != 2 {
		t.Errorf("Count = %d", b.Count(ScanUnmatchedText))
	}
}

func TestBag_SortAndDedup(t *testing.T) {
	b := NewBag(8)
	b.Add(New(SevInfo, ScanClassificationGap, source.Span{Start: 9, End: 10}, "late"))
	b.Add(New(SevWarning, ScanUnmatchedText, source.Span{Start: 1, End: 2}, "early"))
	b.Add(New(SevWarning, ScanUnmatchedText, source.Span{Start: 1, End: 2}, "early again"))
	b.Sort()
	b.Dedup()
	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Message != "early" {
		t.Errorf("first = %q", items[0].Message)
	}
}

func TestCode_ID(t *testing.T) {
	if got := ScanClassificationGap.ID(); got != "SCN1002" {
		t.Errorf("ID = %q", got)
	}
	if got := IOLoadFileError.ID(); got != "IO4001" {
		t.Errorf("ID = %q", got)
	}
}
