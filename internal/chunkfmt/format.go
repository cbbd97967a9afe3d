package chunkfmt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"textchunk/internal/chunk"
)

// ErrUnknownFormat is returned for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects a chunk serializer.
type Format string

const (
	FormatJSONL   Format = "jsonl"
	FormatCSV     Format = "csv"
	FormatXML     Format = "xml"
	FormatMsgpack Format = "msgpack"
	FormatPretty  Format = "pretty"
)

// Formats lists the accepted names in help order.
var Formats = []Format{FormatJSONL, FormatCSV, FormatXML, FormatMsgpack, FormatPretty}

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, s, joinFormats())
}

// Extension returns the file extension conventionally used for f.
func (f Format) Extension() string {
	switch f {
	case FormatMsgpack:
		return ".mp"
	case FormatPretty:
		return ".txt"
	default:
		return "." + string(f)
	}
}

func joinFormats() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Options tune the human-oriented formats.
type Options struct {
	Color bool
	// Width caps the preview column of the pretty listing; 0 means 80.
	Width int
}

// record is the serialized shape of a chunk; spans stay internal.
type record struct {
	Text       string `json:"text" msgpack:"text" xml:"text"`
	Type       string `json:"type" msgpack:"type" xml:"type"`
	TokenCount int    `json:"token_count" msgpack:"token_count" xml:"token_count"`
	CharCount  int    `json:"char_count" msgpack:"char_count" xml:"-"`
	LineCount  int    `json:"line_count" msgpack:"line_count" xml:"-"`
}

func toRecord(c *chunk.Chunk) record {
	return record{
		Text:       c.Text,
		Type:       c.Type,
		TokenCount: c.TokenCount,
		CharCount:  c.CharCount,
		LineCount:  c.LineCount,
	}
}

// Write serializes chunks to w in format f.
func Write(w io.Writer, f Format, chunks []chunk.Chunk, opts Options) error {
	switch f {
	case FormatJSONL:
		return WriteJSONL(w, chunks)
	case FormatCSV:
		return WriteCSV(w, chunks)
	case FormatXML:
		return WriteXML(w, chunks)
	case FormatMsgpack:
		return WriteMsgpack(w, chunks)
	case FormatPretty:
		return WritePretty(w, chunks, opts)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, string(f))
	}
}
