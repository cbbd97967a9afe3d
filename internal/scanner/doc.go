// Package scanner turns a text buffer into a chunk stream using an immutable
// grammar.Table.
//
// Scanning is a single left-to-right pass: at each position the rules are
// tried in rank order and the first one that matches claims the span; the
// cursor then jumps to its end. Positions where nothing matches advance by
// one code point, and runs of skipped non-space text are reported as
// diag.ScanUnmatchedText.
//
// Every raw span is then trimmed and classified by full match, again in rank
// order (Reclassify), or typed directly by its scanning rule (ScanRule). A
// span that no rule accepts in full is a classification gap; GapPolicy
// decides whether it is kept, dropped or turned into ErrClassificationGap.
//
// The package performs no IO and starts no goroutines; a Table may be shared
// by any number of concurrent scans.
package scanner
