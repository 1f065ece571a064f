package outputflags

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/brimdata/arrowfunc/pkg/storage"
	"github.com/brimdata/arrowfunc/sio"
	"github.com/brimdata/arrowfunc/sio/anyio"
	"golang.org/x/term"
)

type Flags struct {
	anyio.WriterOpts
	DefaultFormat string
	forceBinary   bool
	jsonShortcut  bool
	outputFile    string
}

func (f *Flags) Options() anyio.WriterOpts {
	return f.WriterOpts
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	if f.DefaultFormat == "" {
		f.DefaultFormat = "arrows"
	}
	fs.StringVar(&f.Format, "f", f.DefaultFormat, "format for output data [arrows,json,parquet]")
	fs.StringVar(&f.Compression, "compress", "", "compression codec for arrows and parquet output [lz4,snappy,zstd]")
	fs.BoolVar(&f.forceBinary, "B", false, "allow binary output to be sent to a terminal")
	fs.BoolVar(&f.jsonShortcut, "j", false, "use line-oriented JSON output independent of -f option")
	fs.StringVar(&f.outputFile, "o", "", "write data to output file")
}

func (f *Flags) Init() error {
	if f.jsonShortcut {
		if f.Format != f.DefaultFormat {
			return errors.New("cannot use -j with -f")
		}
		f.Format = "json"
	}
	if f.outputFile == "-" {
		f.outputFile = ""
	}
	if f.outputFile == "" {
		if f.Format == "parquet" {
			return errors.New("parquet output requires -o")
		}
		if f.Format != "json" && !f.forceBinary && term.IsTerminal(int(os.Stdout.Fd())) {
			f.Format = "json"
		}
	} else if f.Format == f.DefaultFormat {
		if format := sio.FormatFromPath(f.outputFile); format != "" {
			f.Format = format
		}
	}
	return nil
}

func (f *Flags) FileName() string {
	return f.outputFile
}

// Open returns a writer of records with the given schema for the output
// file or, if there is none, for standard output.
func (f *Flags) Open(engine *storage.FileSystem, schema *arrow.Schema) (sio.WriteCloser, error) {
	wc, err := engine.Put(f.outputFile)
	if err != nil {
		return nil, err
	}
	opts := f.WriterOpts
	opts.Schema = schema
	w, err := anyio.NewWriter(wc, opts)
	if err != nil {
		wc.Close()
		return nil, fmt.Errorf("output: %w", err)
	}
	return w, nil
}
