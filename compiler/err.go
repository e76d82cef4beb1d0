package compiler

import (
	"errors"

	"github.com/ezrec/x86trace/translate"
)

var f = translate.From

var (
	ErrCompileFailed = errors.New(f("compile failed"))
	ErrUnavailable   = errors.New(f("compiler unavailable"))
	ErrNoCompiler    = errors.New(f("no compiler configured"))
	ErrNoOutput      = errors.New(f("compiler produced no assembly"))
)

// ErrCompile is a compiler run that exited with a non-zero status.
// Diagnostic holds the compiler's error output verbatim.
type ErrCompile struct {
	Status     int
	Diagnostic string
}

func (err *ErrCompile) Error() string {
	return f("compile failed with status %d: %v", err.Status, err.Diagnostic)
}

func (err *ErrCompile) Unwrap() error {
	return ErrCompileFailed
}

// ErrTransport is a compiler that could not be run, or whose output could
// not be read.
type ErrTransport struct {
	Err error
}

func (err *ErrTransport) Error() string {
	return f("compiler unavailable: %v", err.Err)
}

func (err *ErrTransport) Unwrap() []error {
	return []error{ErrUnavailable, err.Err}
}
