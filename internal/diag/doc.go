// Package diag defines the diagnostic model shared by the scanner, the
// driver and the CLI.
//
// Diagnostics record findings that do not abort a scan unit: text that no
// rule matched, spans the classifier could not type (classification gaps),
// inputs that failed to load. Each carries a severity, a stable numeric Code
// and a primary source.Span. Producers emit through a Reporter; Bag collects
// them per unit and supports merging, sorting and deduplication.
//
// Package diag performs no formatting or IO. Rendering lives in
// internal/chunkfmt.
package diag
