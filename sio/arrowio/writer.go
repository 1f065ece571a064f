package arrowio

import (
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/brimdata/arrowfunc/sio"
)

var (
	ErrCompression     = errors.New("arrowio: unknown compression")
	ErrMultipleSchemas = errors.New("arrowio: all records must have the same schema")
	ErrUnsupportedType = errors.New("arrowio: unsupported type")
)

// Writer is a sio.WriteCloser for the Arrow IPC stream format.  The
// underlying format writer is created when the first record arrives so
// that it can take its schema from that record.
type Writer struct {
	NewWriterFunc func(io.Writer, *arrow.Schema) (WriteCloser, error)
	wc            io.WriteCloser
	w             WriteCloser
	schema        *arrow.Schema
}

// WriteCloser is the interface of format writers such as ipc.Writer and
// pqarrow.FileWriter.
type WriteCloser interface {
	Write(arrow.Record) error
	Close() error
}

type WriterOpts struct {
	// Compression names the body compression codec: "", "lz4", or "zstd".
	Compression string
	// Schema, if set, is written on Close even if no record was written
	// and every record must match it.
	Schema *arrow.Schema
}

func (o WriterOpts) ipcOptions() ([]ipc.Option, error) {
	switch o.Compression {
	case "", "none":
		return nil, nil
	case "lz4":
		return []ipc.Option{ipc.WithLZ4()}, nil
	case "zstd":
		return []ipc.Option{ipc.WithZstd()}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrCompression, o.Compression)
}

func NewWriter(wc io.WriteCloser, opts WriterOpts) (*Writer, error) {
	ipcOpts, err := opts.ipcOptions()
	if err != nil {
		return nil, err
	}
	return &Writer{
		NewWriterFunc: func(w io.Writer, s *arrow.Schema) (WriteCloser, error) {
			return ipc.NewWriter(sio.NopCloser(w), append(ipcOpts, ipc.WithSchema(s))...), nil
		},
		wc:     wc,
		schema: opts.Schema,
	}, nil
}

func (w *Writer) Close() error {
	var err error
	if w.w == nil && w.schema != nil {
		err = w.open(w.schema)
	}
	if w.w != nil {
		if err2 := w.w.Close(); err == nil {
			err = err2
		}
		w.w = nil
	}
	w.schema = nil
	if err2 := w.wc.Close(); err == nil {
		err = err2
	}
	return err
}

func (w *Writer) Write(rec arrow.Record) error {
	if w.schema != nil && !w.schema.Equal(rec.Schema()) {
		return fmt.Errorf("%w: %s and %s", ErrMultipleSchemas, w.schema, rec.Schema())
	}
	if w.w == nil {
		if err := w.open(rec.Schema()); err != nil {
			return err
		}
	}
	return w.w.Write(rec)
}

func (w *Writer) open(s *arrow.Schema) error {
	fw, err := w.NewWriterFunc(w.wc, s)
	if err != nil {
		return err
	}
	w.w = fw
	w.schema = s
	return nil
}
