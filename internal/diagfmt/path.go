package diagfmt

import "textchunk/internal/source"

// lookupFile returns nil for spans that point outside fs.
func lookupFile(fs *source.FileSet, id source.FileID) *source.File {
	if fs == nil || int(id) >= fs.Len() {
		return nil
	}
	return fs.Get(id)
}

func displayPath(f *source.File, mode PathMode, baseDir string) string {
	if f == nil {
		return "<unknown>"
	}
	return f.FormatPath(mode.String(), baseDir)
}
