package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Statements: []Statement{
			{LineNo: 3, Text: "CPi 110 3", Instruction: MakeInstruction(OP_CP_IMM, 110, 3)},
			{LineNo: 5, Text: "ADD 100 101", Instruction: MakeInstruction(OP_ADD, 100, 101)},
			{LineNo: 9, Text: "MUL 100 102", Instruction: MakeInstruction(OP_MUL, 100, 102)},
		},
	}

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Statement)
	assert.Equal(3, dbg.LineNo)
	assert.Equal(0, dbg.Pc)

	dbg = prog.Debug(2)
	assert.NotNil(dbg.Statement)
	assert.Equal(9, dbg.LineNo)
	assert.Equal("MUL 100 102", dbg.Text)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := MakeProgram(MakeInstruction(OP_CP_IMM, 110, 3))

	dbg := prog.Debug(1)
	assert.Nil(dbg.Statement)
	assert.Equal(1, dbg.Pc)

	dbg = prog.Debug(-1)
	assert.Nil(dbg.Statement)
}

func TestProgram_MakeProgram(t *testing.T) {
	assert := assert.New(t)

	prog := MakeProgram(
		MakeInstruction(OP_CP_IMM, 110, 3),
		MakeInstruction(OP_ADD, 100, 101),
	)

	assert.Equal(2, prog.Len())
	assert.Equal(1, prog.Statements[0].LineNo)
	assert.Equal(2, prog.Statements[1].LineNo)
	assert.Equal("ADD 100 101", prog.Statements[1].Text)
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog := MakeProgram(
		MakeInstruction(OP_CP_IMM, 110, 3),
		MakeInstruction(OP_ADD, 100, 101),
		MakeInstruction(OP_MUL, 100, 102),
	)

	pcs := []int{}
	for pc := range prog.Codes() {
		pcs = append(pcs, pc)
		if pc == 1 {
			break
		}
	}
	assert.Equal([]int{0, 1}, pcs)

	assert.Equal([]Instruction{
		MakeInstruction(OP_CP_IMM, 110, 3),
		MakeInstruction(OP_ADD, 100, 101),
		MakeInstruction(OP_MUL, 100, 102),
	}, prog.Instructions())
}
