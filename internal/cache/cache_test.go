package cache

import (
	"testing"

	"textchunk/internal/chunk"
	"textchunk/internal/diag"
	"textchunk/internal/source"
)

func TestPutGet(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := Key([32]byte{1}, [32]byte{2}, "reclassify/report/1")

	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("empty cache hit: %v %v", ok, err)
	}

	in := &Payload{
		Path:   "notes.md",
		Chunks: []chunk.Chunk{chunk.New("Hello there.", "sentence", source.Span{File: 1, Start: 0, End: 12}, 7)},
		Diagnostics: []diag.Diagnostic{
			diag.New(diag.SevWarning, diag.ScanUnmatchedText, source.Span{Start: 3, End: 4}, "skipped"),
		},
	}
	if err := c.Put(key, in); err != nil {
		t.Fatal(err)
	}
	out, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if len(out.Chunks) != 1 || out.Chunks[0] != in.Chunks[0] {
		t.Errorf("chunks = %+v", out.Chunks)
	}
	if len(out.Diagnostics) != 1 || out.Diagnostics[0].Code != diag.ScanUnmatchedText {
		t.Errorf("diagnostics = %+v", out.Diagnostics)
	}
	if out.Stored.IsZero() {
		t.Error("store time not recorded")
	}
}

func TestKeyDependsOnEveryPart(t *testing.T) {
	base := Key([32]byte{1}, [32]byte{2}, "a")
	if base == Key([32]byte{9}, [32]byte{2}, "a") ||
		base == Key([32]byte{1}, [32]byte{9}, "a") ||
		base == Key([32]byte{1}, [32]byte{2}, "b") {
		t.Error("key ignores one of its inputs")
	}
}

func TestDropAll(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := Key([32]byte{}, [32]byte{}, "")
	if err := c.Put(key, &Payload{Path: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Error("entry survived DropAll")
	}
	if err := c.Put(key, &Payload{Path: "y"}); err != nil {
		t.Errorf("cache unusable after DropAll: %v", err)
	}
}

func TestNilCache(t *testing.T) {
	var c *Cache
	if err := c.Put(Digest{}, &Payload{}); err != nil {
		t.Error(err)
	}
	if _, ok, err := c.Get(Digest{}); ok || err != nil {
		t.Error("nil cache returned data")
	}
}
