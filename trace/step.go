package trace

import (
	"encoding/json"
	"fmt"

	"github.com/xlab/treeprint"

	"github.com/ezrec/x86trace/cpu"
)

// END_MARKER is the instruction text of the trailing step.
const END_MARKER = "(end)"

// Step is the machine state captured before an instruction executes.
// The final step of a trace instead holds the state after the last
// instruction, under END_MARKER.
type Step struct {
	Instruction string       // Trimmed source line, or END_MARKER.
	LineNo      int          // Source line number, zero for the end marker.
	State       cpu.Snapshot // Registers and stack window.
}

// End returns true for the end-of-program step.
func (step Step) End() bool {
	return step.LineNo == 0 && step.Instruction == END_MARKER
}

func hex64(value uint64) string {
	return fmt.Sprintf("0x%016x", value)
}

type jsonCell struct {
	Address string `json:"address"`
	Value   string `json:"value"`
}

type jsonState struct {
	Registers map[string]string `json:"registers"`
	Stack     []jsonCell        `json:"stack"`
}

type jsonStep struct {
	Instruction string `json:"instruction"`
	jsonState
}

// Registers returns all registers as fixed width hexadecimal, by name.
func (step Step) Registers() (regs map[string]string) {
	regs = make(map[string]string, cpu.REGISTER_COUNT)
	for _, reg := range cpu.Registers {
		regs[reg.String()] = hex64(step.State.Get(reg))
	}

	return
}

func (step Step) jsonState() (state jsonState) {
	state.Registers = step.Registers()
	state.Stack = make([]jsonCell, len(step.State.Stack))
	for n, cell := range step.State.Stack {
		state.Stack[n] = jsonCell{
			Address: hex64(cell.Address),
			Value:   hex64(cell.Value),
		}
	}

	return
}

// MarshalJSON encodes the step as {instruction, registers, stack}.
func (step Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonStep{
		Instruction: step.Instruction,
		jsonState:   step.jsonState(),
	})
}

// Tree renders the step for a terminal.
func (step Step) Tree() treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(step.Instruction)

	regs := tree.AddBranch("registers")
	for _, reg := range cpu.Registers {
		regs.AddMetaNode(reg.String(), hex64(step.State.Get(reg)))
	}

	stack := tree.AddBranch("stack")
	for _, cell := range step.State.Stack {
		stack.AddMetaNode(hex64(cell.Address), hex64(cell.Value))
	}

	return tree
}
