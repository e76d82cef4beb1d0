package cpu

import (
	"errors"

	"github.com/ezrec/x86trace/translate"
)

var f = translate.From

var (
	// Instruction errors
	ErrOpcodeInvalid = errors.New(f("opcode invalid"))
	ErrOpcodeArity   = errors.New(f("operand count"))
	ErrOpcodeArg1    = errors.New(f("arg1"))
	ErrOpcodeArg2    = errors.New(f("arg2"))

	// Operand errors
	ErrOperandKind     = errors.New(f("operand kind not permitted"))
	ErrOperandRegister = errors.New(f("register invalid"))
	ErrOperandMemory   = errors.New(f("only one memory operand permitted"))

	// Setup errors
	ErrSetupSyntax     = errors.New(f("setup syntax"))
	ErrSetupRegister   = errors.New(f("setup register unknown"))
	ErrSetupExpression = errors.New(f("setup expression"))
)

// ErrOperandFormat is a token that is neither a register, an immediate nor
// a memory reference.
type ErrOperandFormat string

func (err ErrOperandFormat) Error() string {
	return f("'%v' is not a register, immediate or memory operand", string(err))
}

// ErrSyntax locates a decode failure in the listing.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrInstruction tags an execution failure with the instruction text.
type ErrInstruction string

func (err ErrInstruction) Error() string {
	return f("instruction '%v'", string(err))
}

// ErrSetup locates a failed setup assignment.
type ErrSetup struct {
	Assign string
	Err    error
}

func (err *ErrSetup) Error() string {
	return f("setup '%v' %v", err.Assign, err.Err)
}

func (err *ErrSetup) Unwrap() error {
	return err.Err
}
