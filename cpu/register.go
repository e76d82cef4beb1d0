package cpu

import (
	"strings"
)

// Register is a general-purpose register identifier.
type Register int

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_RAX = Register(0) // RAX
	REG_RBX = Register(1) // RBX
	REG_RCX = Register(2) // RCX
	REG_RDX = Register(3) // RDX
	REG_RSI = Register(4) // RSI
	REG_RDI = Register(5) // RDI
	REG_RSP = Register(6) // RSP
	REG_RBP = Register(7) // RBP

	REGISTER_COUNT = 8 // Number of modelled registers.
)

// Registers lists all registers in canonical order.
var Registers = [REGISTER_COUNT]Register{
	REG_RAX, REG_RBX, REG_RCX, REG_RDX,
	REG_RSI, REG_RDI, REG_RSP, REG_RBP,
}

// regMap maps the AT&T register names to registers.
var regMap = map[string]Register{
	"%rax": REG_RAX,
	"%rbx": REG_RBX,
	"%rcx": REG_RCX,
	"%rdx": REG_RDX,
	"%rsi": REG_RSI,
	"%rdi": REG_RDI,
	"%rsp": REG_RSP,
	"%rbp": REG_RBP,
}

// LookupRegister finds the register for an AT&T register token, ignoring case.
func LookupRegister(token string) (reg Register, ok bool) {
	reg, ok = regMap[strings.ToLower(token)]
	return
}

// Valid returns true if the register is one of the modelled registers.
func (reg Register) Valid() bool {
	return reg >= REG_RAX && reg < REGISTER_COUNT
}

// Name returns the lower case name used by setup expressions.
func (reg Register) Name() string {
	return strings.ToLower(reg.String())
}
