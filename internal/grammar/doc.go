// Package grammar defines the prioritized rule table used by the scanner.
//
// Every rule is a small grammar built from combinator nodes (Seq, Alt, Run,
// Repeat, lookarounds). Matching is an explicit backtracking interpreter:
// each node hands candidate end positions to a continuation in preference
// order, so the "first alternative wins" semantics do not depend on any
// regular expression engine. Every run carries an upper bound taken from
// Bounds, which caps the work done at one scan position.
//
// A Table is immutable. Reconfiguration goes through Build, which always
// returns a fresh table; tables are safe for concurrent use by any number of
// scanners.
package grammar
