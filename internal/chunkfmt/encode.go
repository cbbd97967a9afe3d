package chunkfmt

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"io"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"

	"textchunk/internal/chunk"
)

// WriteJSONL writes one JSON object per line. Non-ASCII text is kept as is.
func WriteJSONL(w io.Writer, chunks []chunk.Chunk) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for i := range chunks {
		if err := enc.Encode(toRecord(&chunks[i])); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteCSV writes a header row and one row per chunk with the columns
// text, type, token_count.
func WriteCSV(w io.Writer, chunks []chunk.Chunk) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"text", "type", "token_count"}); err != nil {
		return err
	}
	for _, c := range chunks {
		if err := cw.Write([]string{c.Text, c.Type, strconv.Itoa(c.TokenCount)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type xmlChunks struct {
	XMLName xml.Name `xml:"chunks"`
	Chunks  []record `xml:"chunk"`
}

// WriteXML writes <chunks><chunk><text/><type/><token_count/></chunk>...</chunks>.
func WriteXML(w io.Writer, chunks []chunk.Chunk) error {
	doc := xmlChunks{Chunks: make([]record, len(chunks))}
	for i := range chunks {
		doc.Chunks[i] = toRecord(&chunks[i])
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteMsgpack writes the chunks as one MessagePack array of maps.
func WriteMsgpack(w io.Writer, chunks []chunk.Chunk) error {
	records := make([]record, len(chunks))
	for i := range chunks {
		records[i] = toRecord(&chunks[i])
	}
	return msgpack.NewEncoder(w).Encode(records)
}
