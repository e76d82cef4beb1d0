package cpu

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// OperandKind is the shape of an operand token.
type OperandKind int

//go:generate go tool stringer -linecomment -type=OperandKind
const (
	OPERAND_REGISTER  = OperandKind(0) // register
	OPERAND_IMMEDIATE = OperandKind(1) // immediate
	OPERAND_MEMORY    = OperandKind(2) // memory
)

// Operand is a decoded operand token. Its value is only resolved against a
// machine at execution time, as base registers change between steps.
type Operand struct {
	Kind     OperandKind
	Register Register // Register, or memory base register.
	Value    int64    // Immediate value, or memory offset.
}

// memPattern matches `offset(%base)`, with an optional signed decimal offset.
var memPattern = regexp.MustCompile(`^([+-]?[0-9]*)\((%[A-Za-z0-9]+)\)$`)

// parseDecimal parses a signed base-10 literal. Literals beyond the signed
// range but within 64 bits are accepted as their two's complement value.
func parseDecimal(word string) (value int64, ok bool) {
	value, err := strconv.ParseInt(word, 10, 64)
	if err == nil {
		ok = true
		return
	}

	u64, err := strconv.ParseUint(strings.TrimPrefix(word, "+"), 10, 64)
	if err == nil {
		value = int64(u64)
		ok = true
	}

	return
}

// ParseOperand classifies a token as a register, immediate or memory operand.
func ParseOperand(token string) (op Operand, err error) {
	if len(token) == 0 {
		err = ErrOperandFormat(token)
		return
	}

	if reg, ok := LookupRegister(token); ok {
		op = Operand{Kind: OPERAND_REGISTER, Register: reg}
		return
	}

	if token[0] == '$' {
		value, ok := parseDecimal(token[1:])
		if !ok {
			err = ErrOperandFormat(token)
			return
		}
		op = Operand{Kind: OPERAND_IMMEDIATE, Value: value}
		return
	}

	match := memPattern.FindStringSubmatch(token)
	if match == nil {
		err = ErrOperandFormat(token)
		return
	}

	base, ok := LookupRegister(match[2])
	if !ok {
		err = ErrOperandFormat(token)
		return
	}

	var offset int64
	if len(match[1]) != 0 {
		offset, ok = parseDecimal(match[1])
		if !ok {
			err = ErrOperandFormat(token)
			return
		}
	}

	op = Operand{Kind: OPERAND_MEMORY, Register: base, Value: offset}

	return
}

// Address returns the effective address of a memory operand.
func (op Operand) Address(m *Machine) uint64 {
	return m.Get(op.Register) + uint64(op.Value)
}

// Resolve returns the value the operand denotes in the current machine state.
func (op Operand) Resolve(m *Machine) (value uint64) {
	switch op.Kind {
	case OPERAND_REGISTER:
		value = m.Get(op.Register)
	case OPERAND_IMMEDIATE:
		value = uint64(op.Value)
	case OPERAND_MEMORY:
		value = m.Read(op.Address(m))
	default:
		panic("unknown operand kind")
	}

	return
}

// Store writes a value to a register or memory operand.
func (op Operand) Store(m *Machine, value uint64) {
	if !op.Writable() {
		panic("operand not writable")
	}

	switch op.Kind {
	case OPERAND_REGISTER:
		m.Set(op.Register, value)
	case OPERAND_MEMORY:
		m.Write(op.Address(m), value)
	}
}

// Writable returns true if the operand can be a destination.
func (op Operand) Writable() bool {
	return op.Kind == OPERAND_REGISTER || op.Kind == OPERAND_MEMORY
}

// String returns the AT&T form of the operand.
func (op Operand) String() (str string) {
	reg := "%" + op.Register.Name()
	switch op.Kind {
	case OPERAND_REGISTER:
		str = reg
	case OPERAND_IMMEDIATE:
		str = fmt.Sprintf("$%d", op.Value)
	case OPERAND_MEMORY:
		if op.Value == 0 {
			str = fmt.Sprintf("(%v)", reg)
		} else {
			str = fmt.Sprintf("%d(%v)", op.Value, reg)
		}
	}

	return
}
