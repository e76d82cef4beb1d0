package trace

import (
	"github.com/ezrec/x86trace/translate"
)

var f = translate.From

// ErrRuntime indicates the location of an execution error.
type ErrRuntime struct {
	Step   int
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("step %d line %d %v", err.Step, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
