// Package cpu implements the abstract x86-64 machine used to replay compiler
// output one instruction at a time.
//
// The machine consists of eight 64-bit general-purpose registers (RAX, RBX,
// RCX, RDX, RSI, RDI, RSP, RBP) and a sparse, word-addressed memory map in
// which every unset address reads as zero. There are no flags, no instruction
// pointer and no faults: every address is valid and every arithmetic result is
// reduced modulo 2^64.
//
// The decoder accepts the AT&T subset emitted by the course compiler (pushq,
// popq, movq, addq, subq, leave, ret). Lines it does not model (labels,
// directives, calls, jumps) decode to nothing and are silently skipped.
package cpu
