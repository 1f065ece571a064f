package anyio_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/brimdata/arrowfunc/sio"
	"github.com/brimdata/arrowfunc/sio/anyio"
	"github.com/brimdata/arrowfunc/sio/arrowio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schema = arrow.NewSchema([]arrow.Field{
	{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	{Name: "xs", Type: arrow.ListOf(arrow.PrimitiveTypes.Int64), Nullable: true},
}, nil)

func newRecord(t *testing.T) arrow.Record {
	rec, _, err := array.RecordFromJSON(memory.DefaultAllocator, schema, strings.NewReader(
		`[{"id": 1, "xs": [null, 2]}, {"id": 2, "xs": null}]`))
	require.NoError(t, err)
	t.Cleanup(rec.Release)
	return rec
}

func readAll(t *testing.T, rr array.RecordReader) string {
	t.Helper()
	defer rr.Release()
	var buf bytes.Buffer
	for rr.Next() {
		require.NoError(t, array.RecordToJSON(rr.Record(), &buf))
	}
	require.NoError(t, rr.Err())
	return buf.String()
}

const expected = `{"id":1,"xs":[null,2]}
{"id":2,"xs":null}
`

func TestArrowsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := anyio.NewWriter(sio.NopCloser(&buf), anyio.WriterOpts{Format: "arrows"})
	require.NoError(t, err)
	require.NoError(t, w.Write(newRecord(t)))
	require.NoError(t, w.Close())

	rr, err := anyio.NewReader(context.Background(), &buf, anyio.ReaderOpts{Format: "auto"})
	require.NoError(t, err)
	assert.JSONEq(t, toArray(expected), toArray(readAll(t, rr)))
}

func TestParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	w, err := anyio.NewWriter(f, anyio.WriterOpts{Format: "parquet"})
	require.NoError(t, err)
	require.NoError(t, w.Write(newRecord(t)))
	require.NoError(t, w.Close())

	f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rr, err := anyio.NewReader(context.Background(), f, anyio.ReaderOpts{Columns: []string{"xs"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"xs":[null,2]},{"xs":null}]`, toArray(readAll(t, rr)))
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := anyio.NewWriter(sio.NopCloser(&buf), anyio.WriterOpts{Format: "json"})
	require.NoError(t, err)
	require.NoError(t, w.Write(newRecord(t)))
	require.NoError(t, w.Close())
	assert.JSONEq(t, toArray(expected), toArray(buf.String()))

	rr, err := anyio.NewReader(context.Background(), &buf, anyio.ReaderOpts{Format: "json", Schema: schema})
	require.NoError(t, err)
	assert.JSONEq(t, toArray(expected), toArray(readAll(t, rr)))

	_, err = anyio.NewReader(context.Background(), strings.NewReader(expected), anyio.ReaderOpts{Format: "json"})
	assert.Error(t, err)
}

func TestSchemaChange(t *testing.T) {
	var buf bytes.Buffer
	w, err := anyio.NewWriter(sio.NopCloser(&buf), anyio.WriterOpts{Format: "arrows"})
	require.NoError(t, err)
	require.NoError(t, w.Write(newRecord(t)))
	other, _, err := array.RecordFromJSON(memory.DefaultAllocator,
		arrow.NewSchema([]arrow.Field{{Name: "y", Type: arrow.PrimitiveTypes.Int8, Nullable: true}}, nil),
		strings.NewReader(`[{"y": 1}]`))
	require.NoError(t, err)
	defer other.Release()
	assert.ErrorIs(t, w.Write(other), arrowio.ErrMultipleSchemas)
}

func TestCompression(t *testing.T) {
	for _, format := range []string{"arrows", "parquet"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "test")
			f, err := os.Create(path)
			require.NoError(t, err)
			w, err := anyio.NewWriter(f, anyio.WriterOpts{Format: format, Compression: "zstd"})
			require.NoError(t, err)
			require.NoError(t, w.Write(newRecord(t)))
			require.NoError(t, w.Close())

			f, err = os.Open(path)
			require.NoError(t, err)
			defer f.Close()
			rr, err := anyio.NewReader(context.Background(), f, anyio.ReaderOpts{})
			require.NoError(t, err)
			assert.JSONEq(t, toArray(expected), toArray(readAll(t, rr)))
		})
	}
	_, err := anyio.NewWriter(sio.NopCloser(&bytes.Buffer{}), anyio.WriterOpts{Format: "arrows", Compression: "lzma"})
	assert.ErrorIs(t, err, arrowio.ErrCompression)
}

func TestEmptyWithSchema(t *testing.T) {
	var buf bytes.Buffer
	w, err := anyio.NewWriter(sio.NopCloser(&buf), anyio.WriterOpts{Format: "arrows", Schema: schema})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NotZero(t, buf.Len())

	rr, err := anyio.NewReader(context.Background(), &buf, anyio.ReaderOpts{Format: "arrows"})
	require.NoError(t, err)
	defer rr.Release()
	assert.True(t, schema.Equal(rr.Schema()))
	assert.False(t, rr.Next())
}

func TestSchemaMismatch(t *testing.T) {
	other := arrow.NewSchema([]arrow.Field{{Name: "y", Type: arrow.PrimitiveTypes.Int8, Nullable: true}}, nil)
	w, err := anyio.NewWriter(sio.NopCloser(&bytes.Buffer{}), anyio.WriterOpts{Format: "arrows", Schema: other})
	require.NoError(t, err)
	assert.ErrorIs(t, w.Write(newRecord(t)), arrowio.ErrMultipleSchemas)
}

func TestUnknownFormat(t *testing.T) {
	_, err := anyio.NewWriter(sio.NopCloser(&bytes.Buffer{}), anyio.WriterOpts{Format: "csv"})
	assert.EqualError(t, err, "unknown format: csv")
	_, err = anyio.NewReader(context.Background(), strings.NewReader(""), anyio.ReaderOpts{Format: "csv"})
	assert.EqualError(t, err, `no such format: "csv"`)
}

// toArray turns newline-delimited JSON objects into a JSON array.
func toArray(ndjson string) string {
	var vals []json.RawMessage
	for _, line := range strings.Split(strings.TrimSpace(ndjson), "\n") {
		if line != "" {
			vals = append(vals, json.RawMessage(line))
		}
	}
	b, _ := json.Marshal(vals)
	return string(b)
}
