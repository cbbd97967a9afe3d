// Package chunkfmt writes chunk streams in the supported output formats:
// line-delimited JSON, CSV, XML, MessagePack and a colored terminal listing.
// Writers never modify the chunks they are given.
package chunkfmt
