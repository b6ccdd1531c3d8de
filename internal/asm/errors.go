package asm

import "github.com/pkg/errors"

// InvariantError reports a compiler-internal invariant violation: a
// duplicate instruction name, a non-terminal state with no successor, or
// an empty control-signal alphabet with pending states. The rtlc facade
// does not check instruction names for uniqueness, so a description that
// declares the same instruction name twice also ends in this error.
type InvariantError struct {
	cause error
}

func (e *InvariantError) Error() string { return e.cause.Error() }

func (e *InvariantError) Unwrap() error { return e.cause }

// Cause allows github.com/pkg/errors.Cause to reach the wrapped cause.
func (e *InvariantError) Cause() error { return e.cause }

// StackTrace forwards to the wrapped cause's stack trace, if it has one.
func (e *InvariantError) StackTrace() errors.StackTrace {
	if st, ok := e.cause.(interface{ StackTrace() errors.StackTrace }); ok {
		return st.StackTrace()
	}
	return nil
}

func invariant(err error) error {
	if err == nil {
		return nil
	}
	return &InvariantError{cause: err}
}
