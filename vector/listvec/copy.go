package listvec

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/compute"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Take returns the elements of values at indexes, with a null row for each
// null index.  Dictionary values are taken by index and keep their
// dictionary.  Types without a take kernel are copied one slice at a time.
func Take(ctx context.Context, mem memory.Allocator, values arrow.Array, indexes *array.Int64) (arrow.Array, error) {
	if dict, ok := values.(*array.Dictionary); ok {
		idx, err := Take(ctx, mem, dict.Indices(), indexes)
		if err != nil {
			return nil, err
		}
		defer idx.Release()
		return array.NewDictionaryArray(dict.DataType(), idx, dict.Dictionary()), nil
	}
	out, err := compute.TakeArray(compute.WithAllocator(ctx, mem), values, indexes)
	if err == nil {
		return out, nil
	}
	out, sliceErr := takeBySlices(mem, values, indexes)
	if sliceErr != nil {
		return nil, fmt.Errorf("%w (%s)", err, sliceErr)
	}
	return out, nil
}

// takeBySlices concatenates a one-element slice of values for each valid
// index and a run of nulls for each run of null indexes.
func takeBySlices(mem memory.Allocator, values arrow.Array, indexes *array.Int64) (arrow.Array, error) {
	n := indexes.Len()
	if n == 0 {
		return array.MakeArrayOfNull(mem, values.DataType(), 0), nil
	}
	var pieces []arrow.Array
	defer func() {
		for _, p := range pieces {
			p.Release()
		}
	}()
	for i := 0; i < n; {
		if indexes.IsNull(i) {
			j := i + 1
			for j < n && indexes.IsNull(j) {
				j++
			}
			pieces = append(pieces, array.MakeArrayOfNull(mem, values.DataType(), j-i))
			i = j
			continue
		}
		k := indexes.Value(i)
		pieces = append(pieces, array.NewSlice(values, k, k+1))
		i++
	}
	return array.Concatenate(pieces, mem)
}

// validFunc returns a function reporting whether element j of child is
// non-null.  Run-end encoded and union arrays carry no validity bitmap of
// their own so their nulls are found in the physical values.  A dictionary
// element is null if its index is null or it refers to a null value.
func validFunc(child arrow.Array) func(int) bool {
	switch c := child.(type) {
	case *array.Dictionary:
		dict := c.Dictionary()
		if dict.NullN() == 0 {
			return c.IsValid
		}
		return func(j int) bool { return c.IsValid(j) && dict.IsValid(c.GetValueIndex(j)) }
	case *array.RunEndEncoded:
		values := c.Values()
		return func(j int) bool { return values.IsValid(c.GetPhysicalIndex(j)) }
	case *array.SparseUnion:
		offset := c.Data().Offset()
		return func(j int) bool { return c.Field(c.ChildID(j)).IsValid(offset + j) }
	case *array.DenseUnion:
		return func(j int) bool { return c.Field(c.ChildID(j)).IsValid(int(c.ValueOffset(j))) }
	}
	return child.IsValid
}

// hasLogicalNulls reports whether child may hold nulls not counted by NullN.
func hasLogicalNulls(child arrow.Array) bool {
	switch c := child.(type) {
	case *array.Dictionary:
		return c.Dictionary().NullN() > 0
	case *array.RunEndEncoded, *array.SparseUnion, *array.DenseUnion:
		return true
	}
	return false
}
