package cpu

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// stepOnce runs a single instruction against a fresh CPU.
func stepOnce(memory map[int]Word, program ...Instruction) (cpu *Cpu, err error) {
	cpu, err = NewCpu(MEMORY_SIZE)
	if err != nil {
		return
	}

	err = cpu.Load(program, memory)
	if err != nil {
		return
	}

	err = cpu.Step()
	return
}

func lowAddr() gopter.Gen {
	return gen.IntRange(0, MEMORY_SIZE/2-1)
}

func highAddr() gopter.Gen {
	return gen.IntRange(MEMORY_SIZE/2, MEMORY_SIZE-1)
}

func TestCpuProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("CP copies mem[b] to mem[a] and leaves mem[b] alone", prop.ForAll(
		func(a, b int, va, vb int32) bool {
			memory := map[int]Word{a: Word(va)}
			memory[b] = Word(vb)
			cpu, err := stepOnce(memory, MakeInstruction(OP_CP, Word(a), Word(b)))
			if err != nil {
				return false
			}
			return cpu.Memory.Data[a] == Word(vb) && cpu.Memory.Data[b] == Word(vb)
		},
		gen.IntRange(0, MEMORY_SIZE-1), gen.IntRange(0, MEMORY_SIZE-1), gen.Int32(), gen.Int32(),
	))

	properties.Property("ADD and MUL wrap at 32 bits", prop.ForAll(
		func(a, b int, va, vb int32) bool {
			memory := map[int]Word{a: Word(va), b: Word(vb)}

			cpu, err := stepOnce(memory, MakeInstruction(OP_ADD, Word(a), Word(b)))
			if err != nil || cpu.Memory.Data[a] != Word(int32(int64(va)+int64(vb))) {
				return false
			}

			cpu, err = stepOnce(memory, MakeInstruction(OP_MUL, Word(a), Word(b)))
			if err != nil || cpu.Memory.Data[a] != Word(int32(int64(va)*int64(vb))) {
				return false
			}

			return cpu.Memory.Data[b] == Word(vb)
		},
		lowAddr(), highAddr(), gen.Int32(), gen.Int32(),
	))

	properties.Property("ADDi and MULi wrap at 32 bits", prop.ForAll(
		func(a int, va, imm int32) bool {
			memory := map[int]Word{a: Word(va)}

			cpu, err := stepOnce(memory, MakeInstruction(OP_ADD_IMM, Word(a), Word(imm)))
			if err != nil || cpu.Memory.Data[a] != Word(int32(int64(va)+int64(imm))) {
				return false
			}

			cpu, err = stepOnce(memory, MakeInstruction(OP_MUL_IMM, Word(a), Word(imm)))
			return err == nil && cpu.Memory.Data[a] == Word(int32(int64(va)*int64(imm)))
		},
		gen.IntRange(0, MEMORY_SIZE-1), gen.Int32(), gen.Int32(),
	))

	properties.Property("SRLi by zero is a no-op", prop.ForAll(
		func(a int, va int32) bool {
			cpu, err := stepOnce(map[int]Word{a: Word(va)}, MakeInstruction(OP_SRL_IMM, Word(a), 0))
			return err == nil && cpu.Memory.Data[a] == Word(va)
		},
		gen.IntRange(0, MEMORY_SIZE-1), gen.Int32(),
	))

	properties.Property("SRL shifts the unsigned bit pattern", prop.ForAll(
		func(a, b int, va int32, count uint32) bool {
			memory := map[int]Word{a: Word(va), b: Word(count)}
			cpu, err := stepOnce(memory, MakeInstruction(OP_SRL, Word(a), Word(b)))
			if err != nil {
				return false
			}
			got := cpu.Memory.Data[a]
			if count > 0 && got < 0 {
				return false
			}
			return got == Word(uint32(va)>>count)
		},
		lowAddr(), highAddr(), gen.Int32(), gen.UInt32Range(0, 40),
	))

	properties.Property("LTi produces exactly 0 or 1", prop.ForAll(
		func(a int, va, imm int32) bool {
			cpu, err := stepOnce(map[int]Word{a: Word(va)}, MakeInstruction(OP_LT_IMM, Word(a), Word(imm)))
			if err != nil {
				return false
			}
			got := cpu.Memory.Data[a]
			if va < imm {
				return got == 1
			}
			return got == 0
		},
		gen.IntRange(0, MEMORY_SIZE-1), gen.Int32(), gen.Int32(),
	))

	properties.Property("BZJi jumps if and only if the cell is zero", prop.ForAll(
		func(a int, va int32, target int) bool {
			in := MakeInstruction(OP_BZJ_IMM, Word(a), Word(target))
			program := []Instruction{in, in, in, in, in, in, in, in}
			cpu, err := stepOnce(map[int]Word{a: Word(va)}, program...)
			if err != nil {
				return false
			}
			if va == 0 {
				return cpu.Pc == target && cpu.Branches == 1
			}
			return cpu.Pc == 1 && cpu.Branches == 0
		},
		gen.IntRange(0, MEMORY_SIZE-1), gen.Int32Range(-2, 2), gen.IntRange(0, 8),
	))

	properties.Property("BZJ jumps to mem[b] if and only if mem[a] is zero", prop.ForAll(
		func(a, b int, va int32, target int) bool {
			in := MakeInstruction(OP_BZJ, Word(a), Word(b))
			program := []Instruction{in, in, in, in, in, in, in, in}
			cpu, err := stepOnce(map[int]Word{a: Word(va), b: Word(target)}, program...)
			if err != nil {
				return false
			}
			if va == 0 {
				return cpu.Pc == target
			}
			return cpu.Pc == 1
		},
		lowAddr(), highAddr(), gen.Int32Range(-2, 2), gen.IntRange(0, 8),
	))

	properties.Property("CPIi writes through the pointer cell", prop.ForAll(
		func(a, target int, imm int32) bool {
			cpu, err := stepOnce(map[int]Word{a: Word(target)}, MakeInstruction(OP_CPI_IMM, Word(a), Word(imm)))
			if err != nil {
				return false
			}
			return cpu.Memory.Data[target] == Word(imm) && cpu.Memory.Data[a] == Word(target)
		},
		lowAddr(), highAddr(), gen.Int32(),
	))

	properties.Property("out of range addresses never modify state", prop.ForAll(
		func(op int, addr int32) bool {
			if addr >= 0 && addr < MEMORY_SIZE {
				return true
			}
			in := MakeInstruction(Opcode(op), Word(addr), 0)
			cpu, err := stepOnce(nil, in)
			return err != nil && cpu.Pc == 0 && cpu.Ticks == 0
		},
		gen.IntRange(int(OP_CP), int(OP_CPI_IMM)), gen.Int32(),
	))

	properties.TestingRun(t)
}
