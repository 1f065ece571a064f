package parquetio

import (
	"context"
	"errors"
	"io"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

const BatchSize = 64 * 1024

// NewReader returns a record reader for the Parquet file r, which must be
// seekable.  If columns is non-empty, only the named top-level columns are
// read.  The caller must release the reader.
func NewReader(ctx context.Context, r io.Reader, mem memory.Allocator, columns []string) (array.RecordReader, error) {
	ras, ok := r.(parquet.ReaderAtSeeker)
	if !ok {
		return nil, errors.New("reader cannot seek")
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	pr, err := file.NewParquetReader(ras, file.WithReadProps(parquet.NewReaderProperties(mem)))
	if err != nil {
		return nil, err
	}
	props := pqarrow.ArrowReadProperties{
		Parallel:  true,
		BatchSize: BatchSize,
	}
	fr, err := pqarrow.NewFileReader(pr, props, mem)
	if err != nil {
		pr.Close()
		return nil, err
	}
	var cols []int
	if len(columns) > 0 {
		cols = columnIndexes(fr.Manifest, columns)
		if len(cols) == 0 {
			pr.Close()
			return nil, errors.New("no such columns")
		}
	}
	rr, err := fr.GetRecordReader(ctx, cols, nil)
	if err != nil {
		pr.Close()
		return nil, err
	}
	return rr, nil
}

func columnIndexes(manifest *pqarrow.SchemaManifest, columns []string) []int {
	var indexes []int
	for _, name := range columns {
		for _, sf := range manifest.Fields {
			if sf.Field.Name == name {
				indexes = appendColumnIndexes(indexes, sf)
			}
		}
	}
	return indexes
}

func appendColumnIndexes(indexes []int, sf pqarrow.SchemaField) []int {
	if len(sf.Children) == 0 {
		return append(indexes, sf.ColIndex)
	}
	for _, c := range sf.Children {
		indexes = appendColumnIndexes(indexes, c)
	}
	return indexes
}
