package function

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/compute"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

var (
	ErrBadArgument     = errors.New("bad argument")
	ErrNoSuchFunction  = errors.New("no such function")
	ErrTooFewArgs      = errors.New("too few arguments")
	ErrTooManyArgs     = errors.New("too many arguments")
	ErrUnsupportedType = errors.New("unsupported type")
)

// Function is a scalar function over Arrow columnar values.  Implementations
// hold no state that changes across calls.
type Function interface {
	Name() string
	Aliases() []string
	Signature() Signature
	Doc() Doc
	// ReturnType computes the result type from the argument types.  It is
	// called once when a call is planned.
	ReturnType(args ...arrow.DataType) (arrow.DataType, error)
	// Invoke evaluates the function.  The returned datum must be released
	// by the caller.
	Invoke(ctx context.Context, args ...compute.Datum) (compute.Datum, error)
}

// Names lists the canonical name of every function New can construct.
func Names() []string {
	return []string{"array_any_value"}
}

// New returns the function called name, which may be a canonical name or an
// alias, checking that it accepts narg arguments.  A negative narg skips the
// argument count check.  If mem is nil, memory.DefaultAllocator is used.
func New(mem memory.Allocator, name string, narg int) (Function, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	var f Function
	switch strings.ToLower(name) {
	case "array_any_value", "list_any_value":
		f = NewArrayAnyValue(mem)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoSuchFunction, name)
	}
	if narg >= 0 {
		if err := f.Signature().Arity.Check(narg); err != nil {
			return nil, &PlanError{Func: f.Name(), Err: err}
		}
	}
	return f, nil
}

func CheckArgCount(narg int, argmin int, argmax int) error {
	if argmin != -1 && narg < argmin {
		return ErrTooFewArgs
	}
	if argmax != -1 && narg > argmax {
		return ErrTooManyArgs
	}
	return nil
}
