// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/x86trace/internal"
)

// Initial stack and frame pointers, as seen by a freshly started process.
const (
	INITIAL_RSP = uint64(0x7fffffffdff8)
	INITIAL_RBP = uint64(0x7fffffffe000)

	WORD_SIZE = 8 // Size of a stack slot, in bytes.
)

var _machine_defines = map[string]uint64{
	"STACK_TOP":    INITIAL_RSP,
	"FRAME_TOP":    INITIAL_RBP,
	"WORD_SIZE":    WORD_SIZE,
	"STACK_WINDOW": STACK_WINDOW,
}

// Machine is the simulated register file and memory of one run.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Register [REGISTER_COUNT]uint64 // Register bank, indexed by Register.
	Memory   map[uint64]uint64      // Sparse memory; unset addresses read as zero.
}

// NewMachine creates a machine in its reset state.
func NewMachine() (m *Machine) {
	m = &Machine{}
	m.Reset()

	return
}

// Reset clears memory and all registers, then installs the initial
// stack and frame pointers.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("cpu: reset")
	}

	clear(m.Register[:])
	if m.Memory == nil {
		m.Memory = make(map[uint64]uint64)
	}
	clear(m.Memory)

	m.Register[REG_RSP] = INITIAL_RSP
	m.Register[REG_RBP] = INITIAL_RBP
}

// Get returns the value of a register.
func (m *Machine) Get(reg Register) uint64 {
	return m.Register[reg]
}

// Set writes a register.
func (m *Machine) Set(reg Register, value uint64) {
	if m.Verbose {
		log.Printf("cpu: %v <- 0x%016x", reg, value)
	}
	m.Register[reg] = value
}

// Read returns the word at an address.
func (m *Machine) Read(addr uint64) (value uint64) {
	value = m.Memory[addr]
	return
}

// Write stores a word at an address.
func (m *Machine) Write(addr uint64, value uint64) {
	if m.Verbose {
		log.Printf("cpu: [0x%016x] <- 0x%016x", addr, value)
	}
	if m.Memory == nil {
		m.Memory = make(map[uint64]uint64)
	}
	m.Memory[addr] = value
}

// Clone returns an independent copy of the machine.
func (m *Machine) Clone() (clone *Machine) {
	clone = &Machine{
		Verbose:  m.Verbose,
		Register: m.Register,
		Memory:   maps.Clone(m.Memory),
	}
	if clone.Memory == nil {
		clone.Memory = make(map[uint64]uint64)
	}

	return
}

// registerValues iterates the registers by their lower case names.
func (m *Machine) registerValues() iter.Seq2[string, uint64] {
	return func(yield func(name string, value uint64) bool) {
		for _, reg := range Registers {
			if !yield(reg.Name(), m.Register[reg]) {
				return
			}
		}
	}
}

// Defines iterates the names usable in setup expressions: the machine
// constants followed by the current register values.
func (m *Machine) Defines() iter.Seq2[string, uint64] {
	return internal.IterSeq2Concat(maps.All(_machine_defines), m.registerValues())
}

// String returns the current register file as text.
func (m *Machine) String() (text string) {
	for _, reg := range Registers {
		val := m.Register[reg]
		text += fmt.Sprintf("% 5s: %08x_%08x\n", reg.String(), val>>32, val&0xffffffff)
	}

	return
}
