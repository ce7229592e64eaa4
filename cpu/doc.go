// Package cpu implements the VSCPU virtual machine.
//
// The machine consists of a flat memory of signed 32-bit words, a program
// counter (PC) indexing an immutable instruction sequence, and a small
// instruction set: copy, add, multiply, logical shift right, less-than,
// branch-if-zero and pointer-indirect copy. Each opcode has a register-like
// form whose second operand is a memory address, and most have an immediate
// form whose second operand is a literal.
//
// Execution is a fetch-decode-execute loop: Step runs the instruction at the
// PC, and Run steps until the PC moves past the last instruction.
package cpu
