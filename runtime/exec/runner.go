// Package exec applies functions to the record batches of a stream.
package exec

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/compute"
	"github.com/brimdata/arrowfunc/runtime/function"
	"github.com/brimdata/arrowfunc/sio"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoSuchColumn   = errors.New("no such column")
	ErrSchemaMismatch = errors.New("record schema does not match input schema")
)

type Config struct {
	// Column names the argument column.
	Column string
	// As names the result column.  It defaults to "fn(column)".
	As string
	// Threads bounds the number of batches evaluated concurrently.
	// Zero means GOMAXPROCS.
	Threads int
	Logger  *zap.Logger
	Metrics *Metrics
}

// Runner evaluates a function over one column of every record in a stream
// and appends the result as a new column.  Each record is evaluated by
// exactly one goroutine and output records keep the input order.
type Runner struct {
	fn      function.Function
	in      *arrow.Schema
	out     *arrow.Schema
	index   int
	threads int
	logger  *zap.Logger
	metrics *Metrics
}

// NewRunner plans a call of fn on the column cfg.Column of records having
// schema in.  The function's result type is resolved here, once, so a
// type error is reported before any record is read.
func NewRunner(fn function.Function, in *arrow.Schema, cfg Config) (*Runner, error) {
	indexes := in.FieldIndices(cfg.Column)
	switch len(indexes) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrNoSuchColumn, cfg.Column)
	case 1:
	default:
		return nil, fmt.Errorf("column %q is ambiguous", cfg.Column)
	}
	typ, err := fn.ReturnType(in.Field(indexes[0]).Type)
	if err != nil {
		return nil, err
	}
	name := cfg.As
	if name == "" {
		name = fmt.Sprintf("%s(%s)", fn.Name(), cfg.Column)
	}
	fields := append(slices.Clone(in.Fields()), arrow.Field{Name: name, Type: typ, Nullable: true})
	md := in.Metadata()
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Runner{
		fn:      fn,
		in:      in,
		out:     arrow.NewSchema(fields, &md),
		index:   indexes[0],
		threads: threads,
		logger:  logger.With(zap.String("function", fn.Name()), zap.String("column", cfg.Column)),
		metrics: metrics,
	}, nil
}

// Schema returns the schema of the records produced by r.
func (r *Runner) Schema() *arrow.Schema {
	return r.out
}

// Run reads every record from rr and writes each result record to w.  Run
// stops at the first error, which cancels the batches in flight.
func (r *Runner) Run(ctx context.Context, rr array.RecordReader, w sio.Writer) error {
	batch := make([]arrow.Record, 0, r.threads)
	for {
		batch = batch[:0]
		for len(batch) < r.threads && rr.Next() {
			rec := rr.Record()
			rec.Retain()
			batch = append(batch, rec)
		}
		if len(batch) == 0 {
			break
		}
		err := r.runBatch(ctx, batch, w)
		for _, rec := range batch {
			rec.Release()
		}
		if err != nil {
			return err
		}
	}
	return rr.Err()
}

func (r *Runner) runBatch(ctx context.Context, recs []arrow.Record, w sio.Writer) error {
	outs := make([]arrow.Record, len(recs))
	defer func() {
		for _, out := range outs {
			if out != nil {
				out.Release()
			}
		}
	}()
	g, gctx := errgroup.WithContext(ctx)
	for i, rec := range recs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := r.Apply(gctx, rec)
			if err != nil {
				return err
			}
			outs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, out := range outs {
		if err := w.Write(out); err != nil {
			return err
		}
	}
	return nil
}

// Apply returns rec with the function result appended as its last column.
// The caller must release the returned record.
func (r *Runner) Apply(ctx context.Context, rec arrow.Record) (arrow.Record, error) {
	if !rec.Schema().Equal(r.in) {
		return nil, ErrSchemaMismatch
	}
	name := r.fn.Name()
	arg := compute.NewDatum(rec.Column(r.index))
	defer arg.Release()
	result, err := r.fn.Invoke(ctx, arg)
	if err != nil {
		r.metrics.Errors.WithLabelValues(name).Inc()
		r.logger.Error("evaluation failed", zap.Int64("rows", rec.NumRows()), zap.Error(err))
		return nil, err
	}
	defer result.Release()
	ad, ok := result.(*compute.ArrayDatum)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected %s result", name, result.Kind())
	}
	vec := ad.MakeArray()
	defer vec.Release()
	cols := append(slices.Clone(rec.Columns()), vec)
	r.metrics.Batches.WithLabelValues(name).Inc()
	r.metrics.Rows.WithLabelValues(name).Add(float64(rec.NumRows()))
	r.logger.Debug("batch evaluated", zap.Int64("rows", rec.NumRows()), zap.Int("nulls", vec.NullN()))
	return array.NewRecord(r.out, cols, rec.NumRows()), nil
}
