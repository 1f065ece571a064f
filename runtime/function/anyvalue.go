package function

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/compute"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/brimdata/arrowfunc/vector/listvec"
)

// ArrayAnyValue returns the first non-null element of each list.
type ArrayAnyValue struct {
	mem memory.Allocator
}

var _ Function = (*ArrayAnyValue)(nil)

func NewArrayAnyValue(mem memory.Allocator) *ArrayAnyValue {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return &ArrayAnyValue{mem: mem}
}

func (*ArrayAnyValue) Name() string { return "array_any_value" }

func (*ArrayAnyValue) Aliases() []string { return []string{"list_any_value"} }

func (*ArrayAnyValue) Signature() Signature {
	return Signature{
		Arity:      Unary(),
		Volatility: Immutable,
		Class:      ArrayClass,
	}
}

func (*ArrayAnyValue) Doc() Doc {
	return Doc{
		Summary:  "returns the first non-null value in the list",
		ArgNames: []string{"array"},
	}
}

func (a *ArrayAnyValue) ReturnType(args ...arrow.DataType) (arrow.DataType, error) {
	if err := a.Signature().Arity.Check(len(args)); err != nil {
		return nil, &PlanError{Func: a.Name(), Err: fmt.Errorf("expects one argument: %w", err)}
	}
	typ, ok := listvec.ElemType(args[0])
	if !ok {
		return nil, &PlanError{Func: a.Name(), Err: fmt.Errorf("%w: first argument must be one of %s", ErrBadArgument, listKinds())}
	}
	return typ, nil
}

func listKinds() string {
	var names []string
	for _, k := range listvec.Kinds {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}

func (a *ArrayAnyValue) Invoke(ctx context.Context, args ...compute.Datum) (compute.Datum, error) {
	if err := a.Signature().Arity.Check(len(args)); err != nil {
		return nil, &ExecutionError{Func: a.Name(), Err: fmt.Errorf("expects one argument: %w", err)}
	}
	out, err := invokeArrays(ctx, a.mem, args, a.call, a.ReturnType)
	if err != nil {
		var plan *PlanError
		if errors.As(err, &plan) {
			// Types found while executing, e.g., of a chunked argument,
			// fail the execution.
			err = &ExecutionError{Func: plan.Func, Err: plan.Err}
		} else if !IsExecutionError(err) {
			err = &ExecutionError{Func: a.Name(), Err: err}
		}
		return nil, err
	}
	return out, nil
}

func (a *ArrayAnyValue) call(ctx context.Context, args []arrow.Array) (arrow.Array, error) {
	if len(args) != 1 {
		return nil, &ExecutionError{Func: a.Name(), Err: errors.New("expects one argument")}
	}
	out, err := listvec.FirstValid(ctx, a.mem, args[0])
	if err != nil {
		if errors.Is(err, listvec.ErrUnsupported) {
			err = fmt.Errorf("%w: does not support type '%s'", ErrUnsupportedType, args[0].DataType())
		}
		return nil, &ExecutionError{Func: a.Name(), Err: err}
	}
	return out, nil
}
