// Package chunk holds the output model of the segmentation engine: a typed,
// trimmed chunk with its size metrics, and the statistics aggregated over a
// chunk stream.
package chunk
