package inputflags

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/brimdata/arrowfunc/pkg/arrowtype"
	"github.com/brimdata/arrowfunc/pkg/storage"
	"github.com/brimdata/arrowfunc/sio"
	"github.com/brimdata/arrowfunc/sio/anyio"
)

type Flags struct {
	ReaderOpts anyio.ReaderOpts
	columns    string
	schema     string
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.ReaderOpts.Format, "i", "auto", "format of input data [auto,arrows,json,parquet]")
	fs.StringVar(&f.columns, "columns", "", "comma-separated list of Parquet columns to read")
	fs.StringVar(&f.schema, "schema", "", `schema of JSON input, e.g., "id: int64, xs: list<int64>"`)
}

// Init is called after flags have been parsed.
func (f *Flags) Init() error {
	if f.columns != "" {
		f.ReaderOpts.Columns = strings.Split(f.columns, ",")
	}
	if f.schema != "" {
		schema, err := arrowtype.ParseSchema(f.schema)
		if err != nil {
			return fmt.Errorf("-schema: %w", err)
		}
		f.ReaderOpts.Schema = schema
	}
	if f.ReaderOpts.Format == "json" && f.ReaderOpts.Schema == nil {
		return errors.New("JSON input requires -schema")
	}
	return nil
}

// Open opens path, or standard input if path is "-", and returns a record
// reader along with the file to close once reading is done.
func (f *Flags) Open(ctx context.Context, engine *storage.FileSystem, path string) (array.RecordReader, io.Closer, error) {
	file, err := engine.Get(path)
	if err != nil {
		return nil, nil, err
	}
	opts := f.ReaderOpts
	if opts.Format == "auto" && path != storage.StdioPath {
		if format := sio.FormatFromPath(path); format != "" {
			opts.Format = format
		}
	}
	rr, err := anyio.NewReader(ctx, file, opts)
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return rr, file, nil
}
