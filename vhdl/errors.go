package vhdl

import "github.com/pkg/errors"

// EmissionError reports an I/O failure while writing a VHDL file. Partial
// output may exist on disk and must be considered invalid.
type EmissionError struct {
	cause error
}

func (e *EmissionError) Error() string { return e.cause.Error() }

func (e *EmissionError) Unwrap() error { return e.cause }

// Cause allows github.com/pkg/errors.Cause to reach the wrapped cause.
func (e *EmissionError) Cause() error { return e.cause }

// StackTrace forwards to the wrapped cause's stack trace, if it has one.
func (e *EmissionError) StackTrace() errors.StackTrace {
	if st, ok := e.cause.(interface{ StackTrace() errors.StackTrace }); ok {
		return st.StackTrace()
	}
	return nil
}

func emissionError(err error) error {
	if err == nil {
		return nil
	}
	return &EmissionError{cause: err}
}
