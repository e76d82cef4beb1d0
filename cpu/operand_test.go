package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOperand(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		token   string
		operand Operand
	}){
		{"%rax", Operand{Kind: OPERAND_REGISTER, Register: REG_RAX}},
		{"%RBP", Operand{Kind: OPERAND_REGISTER, Register: REG_RBP}},
		{"%Rsi", Operand{Kind: OPERAND_REGISTER, Register: REG_RSI}},
		{"$5", Operand{Kind: OPERAND_IMMEDIATE, Value: 5}},
		{"$-12", Operand{Kind: OPERAND_IMMEDIATE, Value: -12}},
		{"$+3", Operand{Kind: OPERAND_IMMEDIATE, Value: 3}},
		{"$0", Operand{Kind: OPERAND_IMMEDIATE, Value: 0}},
		{"$18446744073709551615", Operand{Kind: OPERAND_IMMEDIATE, Value: -1}},
		{"-8(%rbp)", Operand{Kind: OPERAND_MEMORY, Register: REG_RBP, Value: -8}},
		{"16(%RSP)", Operand{Kind: OPERAND_MEMORY, Register: REG_RSP, Value: 16}},
		{"+24(%rdi)", Operand{Kind: OPERAND_MEMORY, Register: REG_RDI, Value: 24}},
		{"(%rsp)", Operand{Kind: OPERAND_MEMORY, Register: REG_RSP, Value: 0}},
	}

	for _, entry := range table {
		op, err := ParseOperand(entry.token)
		assert.NoError(err, entry.token)
		assert.Equal(entry.operand, op, entry.token)
	}
}

func TestParseOperand_Invalid(t *testing.T) {
	assert := assert.New(t)

	table := []string{
		"",
		"rax",
		"%r8",
		"%eax",
		"$",
		"$0x10",
		"$abc",
		"$1.5",
		"$99999999999999999999",
		"-8(%r8)",
		"-(%rbp)",
		"+(%rbp)",
		"8(%rbp",
		"8(rbp)",
		"0x8(%rbp)",
		"foo",
		"main",
	}

	for _, token := range table {
		_, err := ParseOperand(token)
		var format ErrOperandFormat
		if assert.True(errors.As(err, &format), token) {
			assert.Equal(token, string(format))
		}
	}
}

func TestOperand_Resolve(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Set(REG_RCX, 0x1234)
	m.Set(REG_RBX, 0x2000)
	m.Write(0x1ff8, 0xfeed)

	table := [](struct {
		token string
		value uint64
	}){
		{"%rcx", 0x1234},
		{"$7", 7},
		{"$-1", 0xffffffffffffffff},
		{"-8(%rbx)", 0xfeed},
		{"(%rbx)", 0},
	}

	for _, entry := range table {
		op, err := ParseOperand(entry.token)
		assert.NoError(err, entry.token)
		assert.Equal(entry.value, op.Resolve(m), entry.token)
	}
}

func TestOperand_AddressWrap(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Set(REG_RAX, 0)

	op, err := ParseOperand("-8(%rax)")
	assert.NoError(err)
	assert.Equal(uint64(0xfffffffffffffff8), op.Address(m))

	m.Set(REG_RAX, 0xfffffffffffffff8)
	op, err = ParseOperand("16(%rax)")
	assert.NoError(err)
	assert.Equal(uint64(8), op.Address(m))
}

func TestOperand_Store(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Set(REG_RBP, 0x3000)

	reg, _ := ParseOperand("%rdx")
	reg.Store(m, 5)
	assert.Equal(uint64(5), m.Get(REG_RDX))

	mem, _ := ParseOperand("-16(%rbp)")
	mem.Store(m, 6)
	assert.Equal(uint64(6), m.Read(0x2ff0))

	imm, _ := ParseOperand("$1")
	assert.False(imm.Writable())
	assert.Panics(func() { imm.Store(m, 1) })

	odd := Operand{Kind: OperandKind(7)}
	assert.False(odd.Writable())
	assert.Panics(func() { odd.Store(m, 1) })
}

func TestOperand_String(t *testing.T) {
	assert := assert.New(t)

	for _, token := range []string{"%rax", "$-3", "-8(%rbp)", "(%rsp)"} {
		op, err := ParseOperand(token)
		assert.NoError(err)
		assert.Equal(token, op.String())
	}

	op, _ := ParseOperand("%RAX")
	assert.Equal("%rax", op.String())
}
