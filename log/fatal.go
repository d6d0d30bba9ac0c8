package log

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Common errors that end the process before a run starts.
var (
	ErrMalformedConfig = newFatalError("ERR_MALFORMED_CONFIG", "config file is malformed: %v")
	ErrBadFlags        = newFatalError("ERR_BAD_FLAGS", "bad CLI flags: %v")
	ErrBadInput        = newFatalError("ERR_BAD_INPUT", "bad input values: %v")
	ErrWriteOutput     = newFatalError("ERR_WRITE_OUTPUT", "could not write output %v: %v")
)

// FatalError carries a stable code next to the human readable text.
type FatalError struct {
	Code string
	Text string
	Args []any
}

func newFatalError(code, text string) func(args ...any) *FatalError {
	return func(args ...any) *FatalError {
		return &FatalError{
			Code: code,
			Text: text,
			Args: args,
		}
	}
}

func (fe *FatalError) Error() string {
	return fmt.Sprintf(fe.Text, fe.Args...)
}

// Unwrap exposes error arguments so errors.Is sees the cause.
func (fe *FatalError) Unwrap() []error {
	var errs []error
	for _, arg := range fe.Args {
		if err, ok := arg.(error); ok {
			errs = append(errs, err)
		}
	}
	return errs
}

// MarshalLogObject implements logging encoder for FatalError.
func (fe *FatalError) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("code", fe.Code)
	encoder.AddString("error", fe.Error())
	return nil
}
