package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Word is the contents of a single memory cell.
type Word int32

// Opcode is an instruction operation code.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_CP      = Opcode(0)  // CP
	OP_CP_IMM  = Opcode(1)  // CPi
	OP_ADD     = Opcode(2)  // ADD
	OP_ADD_IMM = Opcode(3)  // ADDi
	OP_MUL     = Opcode(4)  // MUL
	OP_MUL_IMM = Opcode(5)  // MULi
	OP_SRL     = Opcode(6)  // SRL
	OP_SRL_IMM = Opcode(7)  // SRLi
	OP_LT_IMM  = Opcode(8)  // LTi
	OP_BZJ     = Opcode(9)  // BZJ
	OP_BZJ_IMM = Opcode(10) // BZJi
	OP_CPI_IMM = Opcode(11) // CPIi
)

// ArgKind is how an operand of an instruction is interpreted.
type ArgKind int

//go:generate go tool stringer -linecomment -type=ArgKind
const (
	ARG_ADDR   = ArgKind(0) // addr
	ARG_IMM    = ArgKind(1) // imm
	ARG_TARGET = ArgKind(2) // target
)

// opcodeForm is the operand layout of each opcode.
var opcodeForm = map[Opcode][]ArgKind{
	OP_CP:      {ARG_ADDR, ARG_ADDR},
	OP_CP_IMM:  {ARG_ADDR, ARG_IMM},
	OP_ADD:     {ARG_ADDR, ARG_ADDR},
	OP_ADD_IMM: {ARG_ADDR, ARG_IMM},
	OP_MUL:     {ARG_ADDR, ARG_ADDR},
	OP_MUL_IMM: {ARG_ADDR, ARG_IMM},
	OP_SRL:     {ARG_ADDR, ARG_ADDR},
	OP_SRL_IMM: {ARG_ADDR, ARG_IMM},
	OP_LT_IMM:  {ARG_ADDR, ARG_IMM},
	OP_BZJ:     {ARG_ADDR, ARG_ADDR},
	OP_BZJ_IMM: {ARG_ADDR, ARG_TARGET},
	OP_CPI_IMM: {ARG_ADDR, ARG_IMM},
}

// opcodeName maps mnemonics back to opcodes.
var opcodeName = func() map[string]Opcode {
	names := make(map[string]Opcode, len(opcodeForm))
	for op := range opcodeForm {
		names[op.String()] = op
	}
	return names
}()

// Opcodes walks all defined opcodes in numeric order.
func Opcodes() iter.Seq[Opcode] {
	return func(yield func(op Opcode) bool) {
		for op := OP_CP; op <= OP_CPI_IMM; op++ {
			if !yield(op) {
				return
			}
		}
	}
}

// ParseOpcode returns the opcode for a mnemonic, matched case sensitively.
func ParseOpcode(name string) (op Opcode, ok bool) {
	op, ok = opcodeName[name]
	return
}

// Form returns the operand kinds of the opcode.
func (op Opcode) Form() (args []ArgKind, ok bool) {
	args, ok = opcodeForm[op]
	return
}

// Branch returns true if the opcode can change the PC.
func (op Opcode) Branch() bool {
	return op == OP_BZJ || op == OP_BZJ_IMM
}

// Instruction is a single decoded machine instruction.
type Instruction struct {
	Opcode Opcode
	Args   []Word
}

// MakeInstruction creates an instruction from an opcode and its operands.
func MakeInstruction(op Opcode, args ...Word) Instruction {
	return Instruction{
		Opcode: op,
		Args:   args,
	}
}

// Decode validates the instruction against its opcode form, and returns the
// two operands.
func (in Instruction) Decode() (a, b Word, err error) {
	form, ok := in.Opcode.Form()
	if !ok {
		err = ErrOpcodeUnknown
		return
	}

	if len(in.Args) != len(form) {
		err = ErrOpcodeArgs
		return
	}

	if len(in.Args) > 0 {
		a = in.Args[0]
	}
	if len(in.Args) > 1 {
		b = in.Args[1]
	}

	return
}

// String returns the assembly language representation of the instruction.
func (in Instruction) String() string {
	words := make([]string, 0, 1+len(in.Args))
	words = append(words, in.Opcode.String())
	for _, arg := range in.Args {
		words = append(words, fmt.Sprintf("%d", arg))
	}

	return strings.Join(words, " ")
}
