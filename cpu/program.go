package cpu

import (
	"iter"
)

// Len returns the number of decoded instructions.
func (prog *Program) Len() int {
	return len(prog.Instructions)
}

// All iterates the decoded instructions with their index.
func (prog *Program) All() iter.Seq2[int, Instruction] {
	return func(yield func(index int, inst Instruction) bool) {
		for n, inst := range prog.Instructions {
			if !yield(n, inst) {
				return
			}
		}
	}
}

// Debug returns the instruction decoded from a listing line.
func (prog *Program) Debug(lineno int) (inst Instruction, ok bool) {
	for _, candidate := range prog.Instructions {
		if candidate.LineNo == lineno {
			return candidate, true
		}
	}

	return
}
