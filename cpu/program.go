package cpu

import (
	"iter"
)

// Statement is a program instruction along with where it came from.
type Statement struct {
	LineNo      int    // Source line, or 0 if unknown.
	Text        string // Source text, if any.
	Instruction Instruction
}

// Program is an ordered instruction sequence.
type Program struct {
	Statements []Statement
}

type Debug struct {
	*Statement
	Pc int
}

// MakeProgram creates a program from bare instructions, numbering
// each as its own line.
func MakeProgram(instructions ...Instruction) (prog *Program) {
	prog = &Program{}
	for n, in := range instructions {
		prog.Statements = append(prog.Statements, Statement{
			LineNo:      n + 1,
			Text:        in.String(),
			Instruction: in,
		})
	}

	return
}

// Len returns the number of instructions.
func (prog *Program) Len() int {
	return len(prog.Statements)
}

// Debug returns the statement at pc, or a Debug with a nil Statement
// if pc is outside of the program.
func (prog *Program) Debug(pc int) (dbg Debug) {
	dbg.Pc = pc
	if pc >= 0 && pc < len(prog.Statements) {
		dbg.Statement = &prog.Statements[pc]
	}

	return
}

// Instructions returns the bare instruction sequence.
func (prog *Program) Instructions() (instructions []Instruction) {
	for _, in := range prog.Codes() {
		instructions = append(instructions, in)
	}

	return
}

func (prog *Program) Codes() iter.Seq2[int, Instruction] {
	return func(yield func(pc int, in Instruction) bool) {
		for pc, st := range prog.Statements {
			if !yield(pc, st.Instruction) {
				return
			}
		}
	}
}
