package function

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/compute"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/arrow/scalar"
)

// arrayFunc evaluates a function over materialized arrays of equal length.
type arrayFunc func(ctx context.Context, args []arrow.Array) (arrow.Array, error)

type returnTypeFunc func(args ...arrow.DataType) (arrow.DataType, error)

// invokeArrays evaluates fn over datum arguments.  Scalars are expanded to
// the length of the array arguments.  When every argument is a scalar, fn
// sees one-row arrays and the result is returned as a scalar.  A lone
// chunked argument is evaluated chunk by chunk.
func invokeArrays(ctx context.Context, mem memory.Allocator, args []compute.Datum, fn arrayFunc, rt returnTypeFunc) (compute.Datum, error) {
	if len(args) == 1 {
		if chunked, ok := args[0].(*compute.ChunkedDatum); ok {
			return invokeChunked(ctx, chunked.Value, fn, rt)
		}
	}
	n := -1
	for _, arg := range args {
		switch arg := arg.(type) {
		case *compute.ScalarDatum:
		case *compute.ArrayDatum:
			if n >= 0 && int(arg.Len()) != n {
				return nil, fmt.Errorf("%w: arguments have different lengths", ErrBadArgument)
			}
			n = int(arg.Len())
		default:
			return nil, fmt.Errorf("%w: %s argument", ErrBadArgument, arg.Kind())
		}
	}
	scalars := n < 0
	if scalars {
		n = 1
	}
	arrays := make([]arrow.Array, 0, len(args))
	defer func() {
		for _, arr := range arrays {
			arr.Release()
		}
	}()
	for _, arg := range args {
		switch arg := arg.(type) {
		case *compute.ScalarDatum:
			arr, err := scalar.MakeArrayFromScalar(arg.Value, n, mem)
			if err != nil {
				return nil, err
			}
			arrays = append(arrays, arr)
		case *compute.ArrayDatum:
			arrays = append(arrays, arg.MakeArray())
		}
	}
	out, err := fn(ctx, arrays)
	if err != nil {
		return nil, err
	}
	defer out.Release()
	if scalars {
		val, err := scalar.GetScalar(out, 0)
		if err != nil {
			return nil, err
		}
		return compute.NewDatum(val), nil
	}
	return compute.NewDatum(out), nil
}

func invokeChunked(ctx context.Context, chunked *arrow.Chunked, fn arrayFunc, rt returnTypeFunc) (compute.Datum, error) {
	typ, err := rt(chunked.DataType())
	if err != nil {
		return nil, err
	}
	var chunks []arrow.Array
	defer func() {
		for _, c := range chunks {
			c.Release()
		}
	}()
	for _, c := range chunked.Chunks() {
		out, err := fn(ctx, []arrow.Array{c})
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, out)
	}
	result := arrow.NewChunked(typ, chunks)
	defer result.Release()
	return compute.NewDatum(result), nil
}
