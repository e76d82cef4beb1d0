package cpu

const (
	STACK_WINDOW = 10 // Number of stack cells captured per snapshot.
)

// Cell is one captured stack slot.
type Cell struct {
	Address uint64
	Value   uint64
}

// Snapshot is an independent copy of the machine at one instant.
// It holds no references into the machine it was taken from.
type Snapshot struct {
	Register [REGISTER_COUNT]uint64
	Stack    [STACK_WINDOW]Cell
}

// Snapshot captures the register file and the stack window starting at RSP.
func (m *Machine) Snapshot() (snap Snapshot) {
	snap.Register = m.Register

	rsp := m.Register[REG_RSP]
	for n := range snap.Stack {
		addr := rsp + uint64(n*WORD_SIZE)
		snap.Stack[n] = Cell{Address: addr, Value: m.Read(addr)}
	}

	return
}

// Get returns the captured value of a register.
func (snap Snapshot) Get(reg Register) uint64 {
	return snap.Register[reg]
}
