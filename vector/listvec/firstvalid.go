package listvec

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/exp/constraints"
)

var ErrUnsupported = errors.New("unsupported list array")

// FirstValidIndexes returns one child index per row of segs: the lowest
// index within the row's segment whose child element is valid.  The index
// is null if the row is null, its segment is empty, or every element in
// the segment is null.
func FirstValidIndexes[O constraints.Signed](mem memory.Allocator, segs Segments[O], child arrow.Array) *array.Int64 {
	b := array.NewInt64Builder(mem)
	defer b.Release()
	n := segs.Len()
	b.Reserve(n)
	dense := child.NullN() == 0 && !hasLogicalNulls(child)
	valid := validFunc(child)
	for i := 0; i < n; i++ {
		if segs.IsNull(i) {
			b.AppendNull()
			continue
		}
		start, end := segs.Bounds(i)
		if j := firstValid(valid, int(start), int(end), dense); j >= 0 {
			b.Append(int64(j))
		} else {
			b.AppendNull()
		}
	}
	return b.NewInt64Array()
}

func firstValid(valid func(int) bool, start, end int, dense bool) int {
	if dense {
		if start < end {
			return start
		}
		return -1
	}
	for j := start; j < end; j++ {
		if valid(j) {
			return j
		}
	}
	return -1
}

// FirstValid returns a new array with one row per row of arr holding a copy
// of the first valid element of that row's list, or null when there is none.
// The result has the element type of arr.  arr is not modified.
func FirstValid(ctx context.Context, mem memory.Allocator, arr arrow.Array) (arrow.Array, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	kind, ok := KindOfArray(arr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, arr.DataType())
	}
	child := arr.(array.ListLike).ListValues()
	if child.DataType().ID() == arrow.NULL {
		// Every element of a null-typed child is null.
		return array.NewNull(arr.Len()), nil
	}
	var indexes *array.Int64
	switch kind {
	case List:
		indexes = FirstValidIndexes(mem, ListSegments(arr.(*array.List)), child)
	case LargeList:
		indexes = FirstValidIndexes(mem, LargeListSegments(arr.(*array.LargeList)), child)
	case FixedSizeList:
		indexes = FirstValidIndexes(mem, FixedSizeListSegments(arr.(*array.FixedSizeList)), child)
	}
	defer indexes.Release()
	out, err := Take(ctx, mem, child, indexes)
	if err != nil {
		return nil, fmt.Errorf("copying %s values: %w", child.DataType(), err)
	}
	return out, nil
}
