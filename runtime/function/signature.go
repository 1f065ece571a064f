package function

import (
	"fmt"
	"strings"
)

type Arity struct {
	NArgs     int
	IsVarArgs bool
}

func Unary() Arity              { return Arity{1, false} }
func Binary() Arity             { return Arity{2, false} }
func VarArgs(minArgs int) Arity { return Arity{minArgs, true} }

// Check returns ErrTooFewArgs or ErrTooManyArgs if narg does not satisfy a.
func (a Arity) Check(narg int) error {
	argmax := a.NArgs
	if a.IsVarArgs {
		argmax = -1
	}
	return CheckArgCount(narg, a.NArgs, argmax)
}

func (a Arity) String() string {
	if a.IsVarArgs {
		return fmt.Sprintf("%d+", a.NArgs)
	}
	return fmt.Sprint(a.NArgs)
}

// Volatility classifies whether a function returns the same result for
// the same input.
type Volatility int

const (
	// Immutable functions always return the same output for the same input.
	Immutable Volatility = iota
	// Stable functions return the same output within a single query.
	Stable
	Volatile
)

func (v Volatility) String() string {
	switch v {
	case Immutable:
		return "immutable"
	case Stable:
		return "stable"
	case Volatile:
		return "volatile"
	}
	return fmt.Sprintf("Volatility(%d)", int(v))
}

// TypeClass describes the family of argument types a function accepts.
type TypeClass int

const (
	AnyClass TypeClass = iota
	// ArrayClass functions take a list-typed first argument.
	ArrayClass
)

func (t TypeClass) String() string {
	if t == ArrayClass {
		return "array"
	}
	return "any"
}

type Signature struct {
	Arity      Arity
	Volatility Volatility
	Class      TypeClass
}

func (s Signature) String() string {
	return fmt.Sprintf("%s(%s) %s", s.Class, s.Arity, s.Volatility)
}

type Doc struct {
	Summary  string
	ArgNames []string
}

// Usage formats a call synopsis such as "array_any_value(array)".
func Usage(f Function) string {
	return f.Name() + "(" + strings.Join(f.Doc().ArgNames, ", ") + ")"
}
