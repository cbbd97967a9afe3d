package source

type (
	// FileID uniquely identifies an input within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about an input.
	FileFlags uint8
)

const (
	// FileVirtual marks input that did not come from disk (stdin, tests).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC
	// FileUnreadable marks a placeholder for an input that failed to load.
	FileUnreadable
)

// File captures one scan unit: its path and normalized content.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, в байтах
}

// LoadOptions selects the normalizations applied by FileSet.Load.
type LoadOptions struct {
	NormalizeCRLF bool
	NFC           bool
}
