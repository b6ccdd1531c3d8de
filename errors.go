package rtlc

import "github.com/pkg/errors"

// DSLError reports a problem with a Computer/Instruction description
// itself: an unknown register, an out-of-range constant, or a computer
// with no instructions declared. It is always returned before any output
// file is written.
type DSLError struct {
	cause error
}

func (e *DSLError) Error() string { return e.cause.Error() }

// Unwrap allows errors.Is/errors.As to reach the wrapped cause.
func (e *DSLError) Unwrap() error { return e.cause }

// Cause allows github.com/pkg/errors.Cause to reach the wrapped cause.
func (e *DSLError) Cause() error { return e.cause }

// StackTrace forwards to the wrapped cause's stack trace, if it has one,
// so that callers can type-assert StackTrace() on the returned error
// directly to log a traceback.
func (e *DSLError) StackTrace() errors.StackTrace {
	if st, ok := e.cause.(interface{ StackTrace() errors.StackTrace }); ok {
		return st.StackTrace()
	}
	return nil
}

func dslError(err error) error {
	if err == nil {
		return nil
	}
	return &DSLError{cause: err}
}
