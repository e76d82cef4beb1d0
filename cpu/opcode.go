package cpu

import (
	"errors"
	"strings"
)

// Op is an instruction opcode.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_PUSH  = Op(0) // pushq
	OP_POP   = Op(1) // popq
	OP_MOVE  = Op(2) // movq
	OP_ADD   = Op(3) // addq
	OP_SUB   = Op(4) // subq
	OP_LEAVE = Op(5) // leave
	OP_RET   = Op(6) // ret
)

// Operand kind masks.
const (
	argReg = 1 << OPERAND_REGISTER
	argImm = 1 << OPERAND_IMMEDIATE
	argMem = 1 << OPERAND_MEMORY
	argAny = argReg | argImm | argMem
	argDst = 1 << 7 // Operand is written by the instruction.
)

// opArgs holds the permitted operand kinds, in source-destination order.
var opArgs = [...][]int{
	OP_PUSH:  {argReg},
	OP_POP:   {argReg | argDst},
	OP_MOVE:  {argAny, argReg | argMem | argDst},
	OP_ADD:   {argAny, argReg | argDst},
	OP_SUB:   {argAny, argReg | argDst},
	OP_LEAVE: {},
	OP_RET:   {},
}

// opMap maps mnemonics to opcodes.
var opMap = map[string]Op{}

func init() {
	for op := range opArgs {
		opMap[Op(op).String()] = Op(op)
	}
}

// LookupOp finds the opcode for a mnemonic.
func LookupOp(word string) (op Op, ok bool) {
	op, ok = opMap[word]
	return
}

// Valid returns true for a modelled opcode.
func (op Op) Valid() bool {
	return op >= 0 && int(op) < len(opArgs)
}

// Arity returns the number of operands the opcode takes.
func (op Op) Arity() int {
	return len(opArgs[op])
}

// argError tags an operand error with its position.
func argError(n int, err error) error {
	if n == 0 {
		return errors.Join(ErrOpcodeArg1, err)
	}
	return errors.Join(ErrOpcodeArg2, err)
}

// Check verifies the operands are acceptable to the opcode.
func (op Op) Check(operands []Operand) (err error) {
	if !op.Valid() {
		err = ErrOpcodeInvalid
		return
	}

	args := opArgs[op]
	if len(operands) != len(args) {
		err = ErrOpcodeArity
		return
	}

	memory := 0
	for n, operand := range operands {
		if (args[n] & (1 << operand.Kind)) == 0 {
			err = argError(n, ErrOperandKind)
			return
		}
		if (args[n]&argDst) != 0 && !operand.Writable() {
			err = argError(n, ErrOperandKind)
			return
		}
		if !operand.Register.Valid() {
			err = argError(n, ErrOperandRegister)
			return
		}
		if operand.Kind == OPERAND_MEMORY {
			memory++
			if memory > 1 {
				err = argError(n, ErrOperandMemory)
				return
			}
		}
	}

	return
}

// Instruction is one decoded line of assembly.
type Instruction struct {
	LineNo   int       // Line number in the listing, if known.
	Text     string    // Trimmed original line.
	Op       Op        // Opcode.
	Args     []string  // Raw operand tokens.
	Operands []Operand // Decoded operand tokens.
}

// String returns the canonical AT&T form of the instruction.
func (inst Instruction) String() string {
	words := make([]string, len(inst.Operands))
	for n, operand := range inst.Operands {
		words[n] = operand.String()
	}
	if len(words) == 0 {
		return inst.Op.String()
	}

	return inst.Op.String() + " " + strings.Join(words, ", ")
}
