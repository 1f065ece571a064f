package listvec

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"golang.org/x/exp/constraints"
)

// Segments locates the run of child elements belonging to each row of a
// list array.  The bounds of row i are [start, end) in child index space.
type Segments[O constraints.Signed] interface {
	Len() int
	IsNull(i int) bool
	Bounds(i int) (start, end O)
}

type offsetSegments[O constraints.Signed] struct {
	arrow.Array
	offsets []O
}

var (
	_ Segments[int32] = (*offsetSegments[int32])(nil)
	_ Segments[int64] = (*offsetSegments[int64])(nil)
	_ Segments[int64] = (*fixedSegments)(nil)
)

func (s *offsetSegments[O]) Bounds(i int) (O, O) {
	return s.offsets[i], s.offsets[i+1]
}

// newOffsetSegments returns the segments of arr given its raw offsets
// buffer, which is indexed from the start of the buffer rather than from
// the array's slice offset.
func newOffsetSegments[O constraints.Signed](arr arrow.Array, raw []O) *offsetSegments[O] {
	var offsets []O
	if n := arr.Len(); n > 0 {
		off := arr.Data().Offset()
		offsets = raw[off : off+n+1]
	}
	return &offsetSegments[O]{Array: arr, offsets: offsets}
}

// ListSegments returns the segments of a list array with 32-bit offsets.
func ListSegments(arr *array.List) Segments[int32] {
	return newOffsetSegments(arr, offsetBuffer(arr, arrow.Int32Traits.CastFromBytes))
}

// LargeListSegments returns the segments of a list array with 64-bit offsets.
func LargeListSegments(arr *array.LargeList) Segments[int64] {
	return newOffsetSegments(arr, offsetBuffer(arr, arrow.Int64Traits.CastFromBytes))
}

func offsetBuffer[O constraints.Signed](arr arrow.Array, cast func([]byte) []O) []O {
	bufs := arr.Data().Buffers()
	if len(bufs) < 2 || bufs[1] == nil {
		return nil
	}
	return cast(bufs[1].Bytes())
}

// fixedSegments computes the implied offsets of a fixed-size list array.
// Widened to 64 bits so large arrays of wide lists cannot overflow.
type fixedSegments struct {
	arrow.Array
	size   int64
	offset int64
}

// FixedSizeListSegments returns the segments of a fixed-size list array.
func FixedSizeListSegments(arr *array.FixedSizeList) Segments[int64] {
	typ := arr.DataType().(*arrow.FixedSizeListType)
	return &fixedSegments{
		Array:  arr,
		size:   int64(typ.Len()),
		offset: int64(arr.Data().Offset()),
	}
}

func (f *fixedSegments) Bounds(i int) (int64, int64) {
	start := (f.offset + int64(i)) * f.size
	return start, start + f.size
}
