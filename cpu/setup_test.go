package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetup(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	err := m.Setup(
		"rax=5",
		"RBX = rax * 2",
		"%rcx=-1",
		"rsp=STACK_TOP - 8*WORD_SIZE",
		"rdx=0x10",
	)
	assert.NoError(err)

	assert.Equal(uint64(5), m.Get(REG_RAX))
	assert.Equal(uint64(10), m.Get(REG_RBX))
	assert.Equal(uint64(0xffffffffffffffff), m.Get(REG_RCX))
	assert.Equal(INITIAL_RSP-64, m.Get(REG_RSP))
	assert.Equal(uint64(16), m.Get(REG_RDX))
}

func TestSetup_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		assign string
		err    error
	}){
		{"rax", ErrSetupSyntax},
		{"rax=", ErrSetupSyntax},
		{"=5", ErrSetupSyntax},
		{"r8=1", ErrSetupRegister},
		{"rip=1", ErrSetupRegister},
		{"rax=nothing", ErrSetupExpression},
		{"rax='text'", ErrSetupExpression},
		{"rax=1 +", ErrSetupExpression},
		{"rax=1 << 70", ErrSetupExpression},
	}

	for _, entry := range table {
		m := NewMachine()
		err := m.Setup(entry.assign)

		var setup *ErrSetup
		if assert.True(errors.As(err, &setup), entry.assign) {
			assert.Equal(entry.assign, setup.Assign)
		}
		assert.True(errors.Is(err, entry.err), entry.assign)
		assert.Equal(uint64(0), m.Get(REG_RAX), entry.assign)
	}
}
