package function

import "errors"

// PlanError reports a call that cannot be planned, e.g., because an argument
// has a type the function does not accept.
type PlanError struct {
	Func string
	Err  error
}

func (p *PlanError) Error() string {
	return "planning " + p.Func + ": " + p.Err.Error()
}

func (p *PlanError) Unwrap() error { return p.Err }

// ExecutionError reports a failure while evaluating a call.  No partial
// result accompanies an ExecutionError.
type ExecutionError struct {
	Func string
	Err  error
}

func (e *ExecutionError) Error() string {
	return "executing " + e.Func + ": " + e.Err.Error()
}

func (e *ExecutionError) Unwrap() error { return e.Err }

func IsPlanError(err error) bool {
	var p *PlanError
	return errors.As(err, &p)
}

func IsExecutionError(err error) bool {
	var e *ExecutionError
	return errors.As(err, &e)
}
