package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
)

// builtinSeeds cover every builtin rule at least once.
var builtinSeeds = []string{
	"",
	"# Title\n\nThis is a sentence. Another one!",
	"- item one\n- item two\n  - nested",
	"1. first\n2. second",
	"> quoted line\n> more",
	"| a | b |\n|---|---|\n| 1 | 2 |",
	"```go\nfmt.Println(1)\n```",
	"    indented code\n    block",
	"---\n***\n___",
	"Dr. Smith said (see [1]) that... it works!? Yes.",
	"See https://example.com/a?b=c and mail@example.com 😀.",
	"\"Quoted.\" 'Single.' — dash… ellipsis",
	"x",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем текстовые файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".md", ".txt":
		default:
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
