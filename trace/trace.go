// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package trace replays a decoded listing on a fresh machine, recording the
// machine state before every instruction.
package trace

import (
	"errors"
	"io"
	"log"

	"github.com/ezrec/x86trace/cpu"
)

// Trace is the ordered list of steps of one run. A trace of a program with
// N instructions has N+1 steps; the last one is the end marker.
type Trace []Step

// Step returns the step at an index.
func (tr Trace) Step(index int) (step Step, ok bool) {
	if index < 0 || index >= len(tr) {
		return
	}

	return tr[index], true
}

// Final returns the end-of-program step.
func (tr Trace) Final() (step Step) {
	if len(tr) > 0 {
		step = tr[len(tr)-1]
	}
	return
}

// Builder runs programs and records their traces.
type Builder struct {
	Verbose bool     // If set, enables verbose logging.
	Setup   []string // Register assignments applied before the first step.

	Program *cpu.Program // Program of the most recent run.
}

// Build decodes a listing and records its trace.
func (b *Builder) Build(lines []string) (tr Trace, err error) {
	dec := &cpu.Decoder{Verbose: b.Verbose}
	prog, err := dec.ParseLines(lines)
	if err != nil {
		return
	}

	tr, err = b.Run(prog)

	return
}

// BuildFrom decodes a listing from an input stream and records its trace.
func (b *Builder) BuildFrom(input io.Reader) (tr Trace, err error) {
	dec := &cpu.Decoder{Verbose: b.Verbose}
	prog, err := dec.Parse(input)
	if err != nil {
		return
	}

	tr, err = b.Run(prog)

	return
}

// Run executes a decoded program on a new machine.
func (b *Builder) Run(prog *cpu.Program) (tr Trace, err error) {
	b.Program = prog

	machine := cpu.NewMachine()
	machine.Verbose = b.Verbose

	err = machine.Setup(b.Setup...)
	if err != nil {
		return
	}

	tr = make(Trace, 0, prog.Len()+1)

	for n, inst := range prog.All() {
		tr = append(tr, Step{
			Instruction: inst.Text,
			LineNo:      inst.LineNo,
			State:       machine.Snapshot(),
		})

		err = machine.Execute(inst)
		if err != nil {
			tr = nil
			err = &ErrRuntime{Step: n, LineNo: inst.LineNo, Err: err}
			if b.Verbose {
				log.Printf("trace: %v", err)
			}
			return
		}
	}

	tr = append(tr, Step{
		Instruction: END_MARKER,
		State:       machine.Snapshot(),
	})

	if b.Verbose {
		log.Printf("trace: %v", f("%d steps", len(tr)))
	}

	return
}

// Fault returns the instruction that stopped the most recent run.
func (b *Builder) Fault(err error) (inst cpu.Instruction, ok bool) {
	var runtime *ErrRuntime
	if b.Program == nil || !errors.As(err, &runtime) {
		return
	}

	return b.Program.Debug(runtime.LineNo)
}
