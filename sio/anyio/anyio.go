// Package anyio opens record readers and writers by format name.
package anyio

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/brimdata/arrowfunc/sio"
	"github.com/brimdata/arrowfunc/sio/arrowio"
	"github.com/brimdata/arrowfunc/sio/jsonio"
	"github.com/brimdata/arrowfunc/sio/parquetio"
)

// Formats lists the format names understood by NewReader and NewWriter.
var Formats = []string{"arrows", "json", "parquet"}

type ReaderOpts struct {
	Format string
	// Columns restricts Parquet reads to the named top-level columns.
	Columns []string
	// Schema is required for JSON input.
	Schema *arrow.Schema
	Mem    memory.Allocator
}

type WriterOpts struct {
	Format string
	// Compression applies to the arrows and parquet formats.
	Compression string
	// Schema lets the arrows and parquet writers produce a valid empty
	// output when no record is written.
	Schema *arrow.Schema
}

var parquetMagic = []byte("PAR1")

// NewReader returns a record reader for r.  If opts.Format is "auto" or
// empty, the format is detected from the first bytes of r: Parquet files
// start with "PAR1" and anything else is taken to be an Arrow IPC stream.
func NewReader(ctx context.Context, r io.Reader, opts ReaderOpts) (array.RecordReader, error) {
	format := opts.Format
	if format == "" || format == "auto" {
		var err error
		if format, r, err = detect(r); err != nil {
			return nil, err
		}
	}
	switch format {
	case "arrows":
		return arrowio.NewReader(r, opts.Mem)
	case "json":
		if opts.Schema == nil {
			return nil, errors.New("JSON input requires a schema")
		}
		return jsonio.NewReader(r, opts.Schema, opts.Mem), nil
	case "parquet":
		return parquetio.NewReader(ctx, r, opts.Mem, opts.Columns)
	}
	return nil, fmt.Errorf("no such format: \"%s\"", format)
}

// detect peeks at r to determine its format.
func detect(r io.Reader) (string, io.Reader, error) {
	if ras, ok := r.(parquet.ReaderAtSeeker); ok {
		var b [4]byte
		if _, err := ras.ReadAt(b[:], 0); err == nil && bytes.Equal(b[:], parquetMagic) {
			return "parquet", r, nil
		}
		return "arrows", r, nil
	}
	br := bufio.NewReader(r)
	b, err := br.Peek(len(parquetMagic))
	if err != nil && err != io.EOF {
		return "", nil, err
	}
	if bytes.Equal(b, parquetMagic) {
		return "", nil, errors.New("Parquet input must be a seekable file")
	}
	return "arrows", br, nil
}

func NewWriter(wc io.WriteCloser, opts WriterOpts) (sio.WriteCloser, error) {
	switch opts.Format {
	case "arrows":
		w, err := arrowio.NewWriter(wc, arrowio.WriterOpts{Compression: opts.Compression, Schema: opts.Schema})
		if err != nil {
			return nil, err
		}
		return w, nil
	case "json":
		return jsonio.NewWriter(wc), nil
	case "parquet":
		w, err := parquetio.NewWriter(wc, arrowio.WriterOpts{Compression: opts.Compression, Schema: opts.Schema})
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	return nil, fmt.Errorf("unknown format: %s", opts.Format)
}
