// Package jsonio reads and writes records as newline-delimited JSON objects,
// one object per row.
package jsonio

import (
	"bufio"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ChunkSize is the number of rows per record read by NewReader.
const ChunkSize = 4096

// NewReader returns a record reader decoding rows of the given schema.  JSON
// carries no Arrow types so the schema must be supplied by the caller.
func NewReader(r io.Reader, schema *arrow.Schema, mem memory.Allocator) array.RecordReader {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return array.NewJSONReader(r, schema, array.WithAllocator(mem), array.WithChunk(ChunkSize))
}

type Writer struct {
	wc io.WriteCloser
	bw *bufio.Writer
}

func NewWriter(wc io.WriteCloser) *Writer {
	return &Writer{wc: wc, bw: bufio.NewWriter(wc)}
}

func (w *Writer) Write(rec arrow.Record) error {
	return array.RecordToJSON(rec, w.bw)
}

func (w *Writer) Close() error {
	err := w.bw.Flush()
	if err2 := w.wc.Close(); err == nil {
		err = err2
	}
	return err
}
