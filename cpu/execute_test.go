package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run decodes and executes lines on a machine.
func run(t *testing.T, m *Machine, lines ...string) {
	for _, line := range lines {
		inst, ok, err := Decode(line)
		require.NoError(t, err, line)
		require.True(t, ok, line)
		require.NoError(t, m.Execute(inst), line)
	}
}

func TestExecute_Push(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Set(REG_RAX, 0x7)
	rsp := m.Get(REG_RSP)

	run(t, m, "pushq %rax")

	assert.Equal(rsp-8, m.Get(REG_RSP))
	assert.Equal(uint64(0x7), m.Read(rsp-8))
	assert.Equal(uint64(0x7), m.Get(REG_RAX))
}

func TestExecute_PushRsp(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	rsp := m.Get(REG_RSP)

	run(t, m, "pushq %rsp")

	assert.Equal(rsp-8, m.Get(REG_RSP))
	assert.Equal(rsp, m.Read(rsp-8))
}

func TestExecute_Pop(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	rsp := m.Get(REG_RSP)
	m.Write(rsp, 0xdeadbeef)

	run(t, m, "popq %rcx")

	assert.Equal(uint64(0xdeadbeef), m.Get(REG_RCX))
	assert.Equal(rsp+8, m.Get(REG_RSP))
	assert.Equal(uint64(0xdeadbeef), m.Read(rsp))
}

func TestExecute_Move(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	rbp := m.Get(REG_RBP)

	run(t, m,
		"movq $-2, %rax",
		"movq %rax, %rbx",
		"movq %rbx, -8(%rbp)",
		"movq -8(%rbp), %rsi",
		"movq $9, (%rbp)",
	)

	assert.Equal(uint64(0xfffffffffffffffe), m.Get(REG_RAX))
	assert.Equal(uint64(0xfffffffffffffffe), m.Get(REG_RBX))
	assert.Equal(uint64(0xfffffffffffffffe), m.Read(rbp-8))
	assert.Equal(uint64(0xfffffffffffffffe), m.Get(REG_RSI))
	assert.Equal(uint64(9), m.Read(rbp))
	assert.Equal(rbp, m.Get(REG_RBP))
}

func TestExecute_Add(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Set(REG_RAX, 2)
	m.Set(REG_RBX, 3)
	m.Write(m.Get(REG_RBP)-8, 10)

	run(t, m, "addq %rbx, %rax")
	assert.Equal(uint64(5), m.Get(REG_RAX))
	assert.Equal(uint64(3), m.Get(REG_RBX))

	run(t, m, "addq $-1, %rax")
	assert.Equal(uint64(4), m.Get(REG_RAX))

	run(t, m, "addq -8(%rbp), %rax")
	assert.Equal(uint64(14), m.Get(REG_RAX))

	m.Set(REG_RDX, 0xffffffffffffffff)
	run(t, m, "addq $2, %rdx")
	assert.Equal(uint64(1), m.Get(REG_RDX))
}

func TestExecute_Sub(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	rsp := m.Get(REG_RSP)

	run(t, m, "subq $16, %rsp")
	assert.Equal(rsp-16, m.Get(REG_RSP))

	m.Set(REG_RAX, 10)
	m.Set(REG_RBX, 4)
	run(t, m, "subq %rbx, %rax")
	assert.Equal(uint64(6), m.Get(REG_RAX))
}

func TestExecute_SubWraps(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	assert.Equal(uint64(0), m.Get(REG_RAX))

	run(t, m, "subq $5, %rax")
	assert.Equal(uint64(0xfffffffffffffffb), m.Get(REG_RAX))
	assert.Equal(^uint64(0)-4, m.Get(REG_RAX))
}

func TestExecute_Leave(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Set(REG_RBP, 0x2000)
	m.Set(REG_RSP, 0x1f00)
	m.Write(0x2000, 0x3000)

	run(t, m, "leave")

	assert.Equal(uint64(0x3000), m.Get(REG_RBP))
	assert.Equal(uint64(0x2008), m.Get(REG_RSP))
}

func TestExecute_Ret(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	rsp := m.Get(REG_RSP)
	m.Write(rsp, 0x401000)

	run(t, m, "ret")

	assert.Equal(rsp+8, m.Get(REG_RSP))
	assert.Equal(INITIAL_RBP, m.Get(REG_RBP))
	assert.Equal(uint64(0), m.Get(REG_RAX))
}

func TestExecute_Frame(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	rsp := m.Get(REG_RSP)

	run(t, m,
		"pushq %rbp",
		"movq %rsp, %rbp",
		"subq $16, %rsp",
		"movq $42, -8(%rbp)",
	)
	assert.Equal(rsp-8, m.Get(REG_RBP))
	assert.Equal(rsp-24, m.Get(REG_RSP))
	assert.Equal(INITIAL_RBP, m.Read(rsp-8))
	assert.Equal(uint64(42), m.Read(rsp-16))

	run(t, m, "leave")
	assert.Equal(INITIAL_RBP, m.Get(REG_RBP))
	assert.Equal(rsp, m.Get(REG_RSP))

	run(t, m, "ret")
	assert.Equal(INITIAL_RBP, m.Get(REG_RBP))
	assert.Equal(rsp+8, m.Get(REG_RSP))
}

func TestExecute_Invalid(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		inst Instruction
		err  error
	}){
		{"bad op", Instruction{Text: "nop", Op: Op(42)}, ErrOpcodeInvalid},
		{"negative op", Instruction{Text: "nop", Op: Op(-1)}, ErrOpcodeInvalid},
		{"arity", Instruction{Text: "pushq", Op: OP_PUSH}, ErrOpcodeArity},
		{"kind", Instruction{Text: "popq $1", Op: OP_POP, Operands: []Operand{{Kind: OPERAND_IMMEDIATE, Value: 1}}}, ErrOperandKind},
		{"unwritable", Instruction{Text: "popq ?", Op: OP_POP, Operands: []Operand{{Kind: OperandKind(7)}}}, ErrOperandKind},
		{"register", Instruction{Text: "pushq ?", Op: OP_PUSH, Operands: []Operand{{Kind: OPERAND_REGISTER, Register: Register(12)}}}, ErrOperandRegister},
	}

	for _, entry := range table {
		m := NewMachine()
		before := m.Clone()

		err := m.Execute(entry.inst)
		assert.True(errors.Is(err, entry.err), entry.name)
		assert.True(errors.Is(err, ErrInstruction(entry.inst.Text)), entry.name)
		assert.Equal(before, m, entry.name)
	}
}
