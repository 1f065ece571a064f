// Package sio defines the record stream interfaces shared by the readers
// and writers of each supported format.
package sio

import (
	"context"
	"io"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

//go:generate go tool mockgen -destination=mock/mock_sio.go -package=mock . WriteCloser

func Extension(format string) string {
	switch format {
	case "arrows":
		return ".arrows"
	case "json":
		return ".ndjson"
	case "parquet":
		return ".parquet"
	default:
		return ""
	}
}

func FormatFromPath(path string) string {
	switch filepath.Ext(path) {
	case ".arrows", ".arrow":
		return "arrows"
	case ".json", ".jsonl", ".ndjson":
		return "json"
	case ".parquet":
		return "parquet"
	default:
		return ""
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NopCloser returns a WriteCloser with a no-op Close method wrapping
// the provided Writer w.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}

// Writer wraps the Write method.
//
// Implementations that keep rec after Write returns must retain it.
type Writer interface {
	Write(rec arrow.Record) error
}

type WriteCloser interface {
	Writer
	io.Closer
}

// Copy writes every record of src to dst a la io.Copy.  src is read until
// it is exhausted, it fails, or ctx is canceled.
func Copy(ctx context.Context, dst Writer, src array.RecordReader) error {
	for src.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := dst.Write(src.Record()); err != nil {
			return err
		}
	}
	return src.Err()
}
