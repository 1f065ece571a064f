package arrowio

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// NewReader returns a record reader for the Arrow IPC stream format.  The
// caller must release the reader.
func NewReader(r io.Reader, mem memory.Allocator) (array.RecordReader, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return ipc.NewReader(r, ipc.WithAllocator(mem))
}
