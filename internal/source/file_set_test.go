package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSet_LoadStripsBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.md")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBF# Title\r\nBody"), 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path, LoadOptions{NormalizeCRLF: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "# Title\nBody" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b", f.Flags)
	}
}

func TestFileSet_LoadKeepsCRLFByDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.md")
	if err := os.WriteFile(path, []byte("a\r\nb"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path, LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(fs.Get(id).Content); got != "a\r\nb" {
		t.Errorf("content = %q", got)
	}
}

func TestFileSet_LoadMissing(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "nope.txt"), LoadOptions{}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNormalize_NFC(t *testing.T) {
	// "e" + combining acute → "é"
	got, flags := Normalize([]byte("cafe\u0301"), LoadOptions{NFC: true})
	if string(got) != "caf\u00e9" {
		t.Errorf("got %q", got)
	}
	if flags&FileNormalizedNFC == 0 {
		t.Errorf("NFC flag not set")
	}
}

func TestFileSet_Resolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.md", []byte("ab\ncd\nef"))
	start, end := fs.Resolve(Span{File: id, Start: 3, End: 8})
	if start != (LineCol{Line: 2, Col: 1}) {
		t.Errorf("start = %+v", start)
	}
	if end != (LineCol{Line: 3, Col: 3}) {
		t.Errorf("end = %+v", end)
	}
	start, _ = fs.Resolve(Span{File: id, Start: 2, End: 2})
	if start != (LineCol{Line: 1, Col: 3}) {
		t.Errorf("newline position = %+v", start)
	}
}

func TestFormatPath(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("/home/user/project/docs/very/deep/folder/notes.md", []byte("x"))
	f := fs.Get(id)

	if got := f.FormatPath("basename", ""); got != "notes.md" {
		t.Errorf("basename = %q", got)
	}
	if got := f.FormatPath("relative", "/home/user/project"); got != "docs/very/deep/folder/notes.md" {
		t.Errorf("relative = %q", got)
	}
	if got := f.FormatPath("absolute", ""); got != "/home/user/project/docs/very/deep/folder/notes.md" {
		t.Errorf("absolute = %q", got)
	}
	// виртуальные файлы в auto-режиме не сокращаются
	if got := f.FormatPath("auto", ""); got != f.Path {
		t.Errorf("auto = %q", got)
	}
}
