package parquetio

import (
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/brimdata/arrowfunc/sio"
	"github.com/brimdata/arrowfunc/sio/arrowio"
)

type Writer struct {
	*arrowio.Writer
}

func NewWriter(wc io.WriteCloser, opts arrowio.WriterOpts) (*Writer, error) {
	c, err := codec(opts.Compression)
	if err != nil {
		return nil, err
	}
	w, err := arrowio.NewWriter(wc, arrowio.WriterOpts{Schema: opts.Schema})
	if err != nil {
		return nil, err
	}
	w.NewWriterFunc = func(w io.Writer, s *arrow.Schema) (arrowio.WriteCloser, error) {
		props := parquet.NewWriterProperties(
			parquet.WithDictionaryDefault(false),
			parquet.WithCompression(c),
		)
		fw, err := pqarrow.NewFileWriter(s, sio.NopCloser(w), props, pqarrow.DefaultWriterProps())
		if err != nil {
			return nil, fmt.Errorf("%w: %s", arrowio.ErrUnsupportedType, err)
		}
		return fw, nil
	}
	return &Writer{w}, nil
}

func codec(name string) (compress.Compression, error) {
	switch name {
	case "", "none":
		return compress.Codecs.Uncompressed, nil
	case "lz4":
		return compress.Codecs.Lz4Raw, nil
	case "snappy":
		return compress.Codecs.Snappy, nil
	case "zstd":
		return compress.Codecs.Zstd, nil
	}
	return 0, parquetioError{fmt.Errorf("%w: %q", arrowio.ErrCompression, name)}
}

func (w *Writer) Write(rec arrow.Record) error {
	if err := w.Writer.Write(rec); err != nil {
		return parquetioError{err}
	}
	return nil
}

type parquetioError struct {
	err error
}

func (p parquetioError) Error() string {
	return "parquetio: " + strings.TrimPrefix(p.err.Error(), "arrowio: ")
}

func (p parquetioError) Unwrap() error { return p.err }
