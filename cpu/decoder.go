// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"io"
	"log"
	"strings"
)

// MAX_LINE is the longest listing line, in bytes, that can be read.
const MAX_LINE = 1 << 20

// stripComment removes a trailing `#` comment and surrounding whitespace.
func stripComment(line string) string {
	text, _, _ := strings.Cut(line, "#")
	return strings.TrimSpace(text)
}

// Decode decodes a single line of assembly.
//
// Lines that are blank, comments, labels, directives, or use an opcode or
// operand count the machine does not model decode with ok == false and no
// error. A modelled opcode with a malformed or unsuitable operand is an error.
func Decode(line string) (inst Instruction, ok bool, err error) {
	text := stripComment(line)
	if len(text) == 0 {
		return
	}

	words := strings.Fields(strings.ReplaceAll(text, ",", " "))
	if len(words) == 0 {
		return
	}

	op, known := LookupOp(words[0])
	if !known {
		return
	}

	args := words[1:]
	if len(args) != op.Arity() {
		return
	}

	operands := make([]Operand, len(args))
	for n, arg := range args {
		operands[n], err = ParseOperand(arg)
		if err != nil {
			err = argError(n, err)
			return
		}
	}

	err = op.Check(operands)
	if err != nil {
		return
	}

	inst = Instruction{
		Text:     strings.TrimSpace(line),
		Op:       op,
		Args:     args,
		Operands: operands,
	}
	ok = true

	return
}

// Program is a decoded listing.
type Program struct {
	Instructions []Instruction // Decoded instructions, in listing order.
	Skipped      []int         // Line numbers of non-blank lines that were not modelled.
}

// Decoder decodes listings into programs.
type Decoder struct {
	Verbose bool // If set, verbosely logs the decoder actions.
}

// ParseLines decodes a listing held as lines. Line numbers start at 1.
func (dec *Decoder) ParseLines(lines []string) (prog *Program, err error) {
	prog = &Program{}

	for n, line := range lines {
		lineno := n + 1

		if dec.Verbose {
			log.Printf("cpu: %v: %v", lineno, line)
		}

		var inst Instruction
		var ok bool
		inst, ok, err = Decode(line)
		if err != nil {
			prog = nil
			err = &ErrSyntax{LineNo: lineno, Line: strings.TrimSpace(line), Err: err}
			return
		}

		if !ok {
			if len(stripComment(line)) != 0 {
				if dec.Verbose {
					log.Printf("cpu: %v: skipped", lineno)
				}
				prog.Skipped = append(prog.Skipped, lineno)
			}
			continue
		}

		inst.LineNo = lineno
		prog.Instructions = append(prog.Instructions, inst)
	}

	if dec.Verbose {
		log.Printf("cpu: %v", f("%d instructions", prog.Len()))
	}

	return
}

// Parse decodes a listing from an input stream.
func (dec *Decoder) Parse(input io.Reader) (prog *Program, err error) {
	var lines []string

	scanner := bufio.NewScanner(input)
	scanner.Buffer(nil, MAX_LINE)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	prog, err = dec.ParseLines(lines)

	return
}
