package cpu

import (
	"errors"
	"log"
)

// push decrements RSP by one word and stores value at the new top of stack.
func (m *Machine) push(value uint64) {
	rsp := m.Get(REG_RSP) - WORD_SIZE
	m.Set(REG_RSP, rsp)
	m.Write(rsp, value)
}

// pop reads the top of stack and increments RSP by one word.
func (m *Machine) pop() (value uint64) {
	rsp := m.Get(REG_RSP)
	value = m.Read(rsp)
	m.Set(REG_RSP, rsp+WORD_SIZE)
	return
}

// Execute applies a single decoded instruction to the machine.
//
// Instructions produced by Decode never fail. Hand built instructions
// are checked first, and are rejected without modifying the machine.
func (m *Machine) Execute(inst Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrInstruction(inst.Text), err)
		}
	}()

	err = inst.Op.Check(inst.Operands)
	if err != nil {
		return
	}

	if m.Verbose {
		log.Printf("cpu: %v", inst)
	}

	args := inst.Operands

	switch inst.Op {
	case OP_PUSH:
		m.push(args[0].Resolve(m))
	case OP_POP:
		args[0].Store(m, m.Read(m.Get(REG_RSP)))
		m.Set(REG_RSP, m.Get(REG_RSP)+WORD_SIZE)
	case OP_MOVE:
		args[1].Store(m, args[0].Resolve(m))
	case OP_ADD:
		args[1].Store(m, args[1].Resolve(m)+args[0].Resolve(m))
	case OP_SUB:
		args[1].Store(m, args[1].Resolve(m)-args[0].Resolve(m))
	case OP_LEAVE:
		m.Set(REG_RSP, m.Get(REG_RBP))
		m.Set(REG_RBP, m.pop())
	case OP_RET:
		// No instruction pointer is modelled; only the return slot is dropped.
		m.Set(REG_RSP, m.Get(REG_RSP)+WORD_SIZE)
	default:
		err = ErrOpcodeInvalid
	}

	return
}
