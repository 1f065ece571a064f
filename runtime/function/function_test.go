package function_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/compute"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/arrow/scalar"
	"github.com/brimdata/arrowfunc/runtime/function"
	"github.com/brimdata/arrowfunc/ztest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZTest(t *testing.T) { ztest.Run(t, "testdata/ztest") }

func fromJSON(t *testing.T, typ arrow.DataType, s string) arrow.Array {
	t.Helper()
	arr, _, err := array.FromJSON(memory.DefaultAllocator, typ, strings.NewReader(s))
	require.NoError(t, err)
	t.Cleanup(arr.Release)
	return arr
}

func invoke(t *testing.T, f function.Function, args ...compute.Datum) (string, error) {
	t.Helper()
	out, err := f.Invoke(context.Background(), args...)
	if err != nil {
		return "", err
	}
	defer out.Release()
	ad, ok := out.(*compute.ArrayDatum)
	require.True(t, ok, "expected array datum, got %s", out.Kind())
	arr := ad.MakeArray()
	defer arr.Release()
	b, err := json.Marshal(arr)
	require.NoError(t, err)
	return string(b), nil
}

func TestNew(t *testing.T) {
	for _, name := range []string{"array_any_value", "list_any_value", "ARRAY_ANY_VALUE"} {
		f, err := function.New(nil, name, 1)
		require.NoError(t, err, name)
		assert.Equal(t, "array_any_value", f.Name())
		assert.Equal(t, []string{"list_any_value"}, f.Aliases())
	}
	_, err := function.New(nil, "array_nope", 1)
	assert.ErrorIs(t, err, function.ErrNoSuchFunction)

	_, err = function.New(nil, "array_any_value", 0)
	assert.ErrorIs(t, err, function.ErrTooFewArgs)
	assert.True(t, function.IsPlanError(err))
	_, err = function.New(nil, "array_any_value", 2)
	assert.ErrorIs(t, err, function.ErrTooManyArgs)

	assert.Equal(t, []string{"array_any_value"}, function.Names())
}

func TestSignature(t *testing.T) {
	f, err := function.New(nil, "array_any_value", -1)
	require.NoError(t, err)
	sig := f.Signature()
	assert.Equal(t, function.Immutable, sig.Volatility)
	assert.Equal(t, function.ArrayClass, sig.Class)
	assert.Equal(t, function.Unary(), sig.Arity)
	assert.Equal(t, "array(1) immutable", sig.String())
	assert.Equal(t, "array_any_value(array)", function.Usage(f))
}

func TestReturnType(t *testing.T) {
	f := function.NewArrayAnyValue(nil)
	elem := arrow.PrimitiveTypes.Int32
	for _, typ := range []arrow.DataType{
		arrow.ListOf(elem),
		arrow.LargeListOf(elem),
		arrow.FixedSizeListOf(4, elem),
	} {
		out, err := f.ReturnType(typ)
		require.NoError(t, err, typ.String())
		assert.Equal(t, elem, out)
	}
	nested := arrow.ListOf(arrow.LargeListOf(elem))
	out, err := f.ReturnType(nested)
	require.NoError(t, err)
	assert.True(t, arrow.TypeEqual(arrow.LargeListOf(elem), out))

	_, err = f.ReturnType(arrow.PrimitiveTypes.Int64)
	assert.True(t, function.IsPlanError(err))
	assert.EqualError(t, err, "planning array_any_value: bad argument: first argument must be one of list, large_list, fixed_size_list")

	_, err = f.ReturnType()
	assert.True(t, function.IsPlanError(err))
	_, err = f.ReturnType(arrow.ListOf(elem), arrow.ListOf(elem))
	assert.ErrorIs(t, err, function.ErrTooManyArgs)
}

func TestInvokeScenarios(t *testing.T) {
	f := function.NewArrayAnyValue(nil)
	int64s := arrow.PrimitiveTypes.Int64

	list := fromJSON(t, arrow.ListOf(int64s), `[[null, 3, 5], [], null, [7]]`)
	out, err := invoke(t, f, compute.NewDatum(list))
	require.NoError(t, err)
	assert.JSONEq(t, `[3, null, null, 7]`, out)

	large := fromJSON(t, arrow.LargeListOf(int64s), `[[null, null], [9]]`)
	out, err = invoke(t, f, compute.NewDatum(large))
	require.NoError(t, err)
	assert.JSONEq(t, `[null, 9]`, out)

	// Fixed-size lists resolve and execute alike.
	fixed := fromJSON(t, arrow.FixedSizeListOf(2, int64s), `[[null, 1], null]`)
	_, err = f.ReturnType(fixed.DataType())
	require.NoError(t, err)
	out, err = invoke(t, f, compute.NewDatum(fixed))
	require.NoError(t, err)
	assert.JSONEq(t, `[1, null]`, out)
}

func TestInvokeErrors(t *testing.T) {
	f := function.NewArrayAnyValue(nil)
	list := fromJSON(t, arrow.ListOf(arrow.PrimitiveTypes.Int64), `[[1]]`)

	_, err := f.Invoke(context.Background())
	assert.True(t, function.IsExecutionError(err))
	assert.ErrorIs(t, err, function.ErrTooFewArgs)

	_, err = f.Invoke(context.Background(), compute.NewDatum(list), compute.NewDatum(list))
	assert.True(t, function.IsExecutionError(err))
	assert.ErrorIs(t, err, function.ErrTooManyArgs)

	ints := fromJSON(t, arrow.PrimitiveTypes.Int64, `[1, 2]`)
	_, err = f.Invoke(context.Background(), compute.NewDatum(ints))
	assert.True(t, function.IsExecutionError(err))
	assert.ErrorIs(t, err, function.ErrUnsupportedType)
	assert.EqualError(t, err, "executing array_any_value: unsupported type: does not support type 'int64'")
}

func TestInvokeScalar(t *testing.T) {
	f := function.NewArrayAnyValue(nil)
	values := fromJSON(t, arrow.PrimitiveTypes.Int64, `[null, 4, 5]`)
	out, err := f.Invoke(context.Background(), compute.NewDatum(scalar.NewListScalar(values)))
	require.NoError(t, err)
	defer out.Release()
	sd, ok := out.(*compute.ScalarDatum)
	require.True(t, ok)
	assert.Equal(t, "4", sd.Value.String())
}

func TestInvokeChunked(t *testing.T) {
	f := function.NewArrayAnyValue(nil)
	typ := arrow.ListOf(arrow.BinaryTypes.String)
	c1 := fromJSON(t, typ, `[[null, "a"], []]`)
	c2 := fromJSON(t, typ, `[["b"]]`)
	chunked := arrow.NewChunked(typ, []arrow.Array{c1, c2})
	defer chunked.Release()
	out, err := f.Invoke(context.Background(), compute.NewDatum(chunked))
	require.NoError(t, err)
	defer out.Release()
	cd, ok := out.(*compute.ChunkedDatum)
	require.True(t, ok)
	assert.Equal(t, 3, cd.Value.Len())
	require.Len(t, cd.Value.Chunks(), 2)
	b, err := json.Marshal(cd.Value.Chunk(0))
	require.NoError(t, err)
	assert.JSONEq(t, `["a", null]`, string(b))

	ints := fromJSON(t, arrow.PrimitiveTypes.Int64, `[1, 2]`)
	bad := arrow.NewChunked(arrow.PrimitiveTypes.Int64, []arrow.Array{ints})
	defer bad.Release()
	_, err = f.Invoke(context.Background(), compute.NewDatum(bad))
	assert.True(t, function.IsExecutionError(err))
	assert.False(t, function.IsPlanError(err))
	assert.ErrorIs(t, err, function.ErrBadArgument)
	assert.EqualError(t, err, "executing array_any_value: bad argument: first argument must be one of list, large_list, fixed_size_list")
}

func TestInvokeDictionaryElements(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)
	typ := &arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Int8, ValueType: arrow.BinaryTypes.String}
	lb := array.NewListBuilder(mem, typ)
	defer lb.Release()
	vb := lb.ValueBuilder().(*array.BinaryDictionaryBuilder)
	lb.Append(true)
	vb.AppendNull()
	require.NoError(t, vb.AppendString("x"))
	lb.AppendNull()
	in := lb.NewListArray()
	defer in.Release()

	f := function.NewArrayAnyValue(mem)
	rt, err := f.ReturnType(in.DataType())
	require.NoError(t, err)
	out, err := f.Invoke(context.Background(), compute.NewDatum(in))
	require.NoError(t, err)
	defer out.Release()
	arr := out.(*compute.ArrayDatum).MakeArray()
	defer arr.Release()
	assert.True(t, arrow.TypeEqual(rt, arr.DataType()))
	dict := arr.(*array.Dictionary)
	assert.Equal(t, "x", dict.Dictionary().(*array.String).Value(dict.GetValueIndex(0)))
	assert.True(t, dict.IsNull(1))
}
