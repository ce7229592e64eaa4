package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"math/bits"
	"slices"
)

var _cpu_defines = map[string]string{
	"MEMORY_MIN": fmt.Sprintf("%v", MEMORY_MIN),
}

// Cpu is the simulation context for the VSCPU.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory  Memory        // Data memory.
	Program []Instruction // Instruction sequence, fixed after Load.
	Pc      int           // Index of the next instruction.

	StepLimit int // If non-zero, maximum instructions executed per Run.

	Ticks    int // Instructions executed.
	Branches int // Branches taken.
	Power    int // Power (memory bits flipped) counter.
}

// NewCpu creates a new CPU with a specifically sized memory.
func NewCpu(size int) (cpu *Cpu, err error) {
	mem, err := NewMemory(size)
	if err != nil {
		return
	}

	cpu = &Cpu{
		Memory: *mem,
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return func(yield func(name, value string) bool) {
		for name, value := range maps.All(_cpu_defines) {
			if !yield(name, value) {
				return
			}
		}
		for op := range Opcodes() {
			if !yield(op.String(), op.String()) {
				return
			}
		}
	}
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 8s: %d/%d\n", "pc", cpu.Pc, len(cpu.Program))
	text += fmt.Sprintf("% 8s: %d\n", "ticks", cpu.Ticks)
	text += fmt.Sprintf("% 8s: %d\n", "branches", cpu.Branches)
	for addr, value := range cpu.Memory.Used() {
		text += fmt.Sprintf("% 8s: %d (0x%08X)\n", fmt.Sprintf("[%d]", addr), value, uint32(value))
	}

	return
}

// Load installs a program, and resets the CPU with the initial memory.
// On error the CPU is unchanged.
func (cpu *Cpu) Load(program []Instruction, memory map[int]Word) (err error) {
	err = cpu.Memory.Validate(memory)
	if err != nil {
		return
	}

	cpu.Program = slices.Clone(program)

	err = cpu.Reset(memory)

	return
}

// Reset the CPU state.
// - Zeroes memory, then writes the initial memory values.
// - Zeros statistics counters.
// - Sets the PC to the first instruction.
// On error the CPU is unchanged.
func (cpu *Cpu) Reset(memory map[int]Word) (err error) {
	err = cpu.Memory.Validate(memory)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Memory.Reset()
	err = cpu.Memory.Seed(memory)
	if err != nil {
		return
	}

	cpu.Pc = 0
	cpu.Ticks = 0
	cpu.Branches = 0
	cpu.Power = 0

	return
}

// Halted returns true if the PC is past the last instruction.
func (cpu *Cpu) Halted() bool {
	return cpu.Pc == len(cpu.Program)
}

// Fetch returns the instruction at the PC.
func (cpu *Cpu) Fetch() (in Instruction, err error) {
	if cpu.Halted() {
		err = ErrHalted
		return
	}

	if cpu.Pc < 0 || cpu.Pc > len(cpu.Program) {
		err = ErrTarget(cpu.Pc)
		return
	}

	in = cpu.Program[cpu.Pc]
	return
}

// Step executes a single CPU instruction cycle.
func (cpu *Cpu) Step() (err error) {
	in, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Execute(in)

	return
}

// Run steps the CPU until it halts, an instruction fails, or the
// step limit is reached.
func (cpu *Cpu) Run() (err error) {
	err = cpu.RunTicks(cpu.tick)

	return
}

// RunTicks calls tick until it reports done or fails. If StepLimit is
// set and the CPU has not halted after that many ticks, ErrStepLimit
// is returned.
func (cpu *Cpu) RunTicks(tick func() (done bool, err error)) (err error) {
	for steps := 0; ; steps++ {
		if cpu.StepLimit > 0 && steps >= cpu.StepLimit && !cpu.Halted() {
			err = ErrStepLimit(cpu.StepLimit)
			return
		}

		var done bool
		done, err = tick()
		if err != nil || done {
			return
		}
	}
}

// tick steps the CPU, treating a halt as done.
func (cpu *Cpu) tick() (done bool, err error) {
	err = cpu.Step()
	if errors.Is(err, ErrHalted) {
		err = nil
		done = true
	}

	return
}

// Execute executes a single decoded instruction at the current PC.
// On error neither memory nor the PC are modified.
func (cpu *Cpu) Execute(in Instruction) (err error) {
	defer func() {
		if err != nil {
			err = &ErrStep{Pc: cpu.Pc, Instruction: in, Err: err}
		}
	}()

	a, b, err := in.Decode()
	if err != nil {
		err = errors.Join(ErrDecode(in), err)
		return
	}

	if cpu.Verbose {
		log.Printf("%03d: %v", cpu.Pc, in)
	}

	mem := &cpu.Memory
	next_pc := cpu.Pc + 1

	var prior Word
	var result Word

	switch in.Opcode {
	case OP_BZJ, OP_BZJ_IMM:
		var test Word
		test, err = mem.Load(a)
		if err != nil {
			err = errors.Join(ErrOpcodeArg1, err)
			return
		}
		target := b
		if in.Opcode == OP_BZJ {
			target, err = mem.Load(b)
			if err != nil {
				err = errors.Join(ErrOpcodeArg2, err)
				return
			}
		}
		if test == 0 {
			if target < 0 || int(target) > len(cpu.Program) {
				err = errors.Join(ErrOpcodeArg2, ErrTarget(target))
				return
			}
			next_pc = int(target)
			cpu.Branches++
			if cpu.Verbose {
				log.Printf("%03d: branch to %03d", cpu.Pc, next_pc)
			}
		}
	case OP_CPI_IMM:
		var ptr Word
		ptr, err = mem.Load(a)
		if err != nil {
			err = errors.Join(ErrOpcodeArg1, err)
			return
		}
		prior, err = mem.Store(ptr, b)
		if err != nil {
			err = errors.Join(ErrOpcodeArg1, err)
			return
		}
		result = b
	default:
		var input Word
		input, err = mem.Load(a)
		if err != nil {
			err = errors.Join(ErrOpcodeArg1, err)
			return
		}
		value := b
		form, _ := in.Opcode.Form()
		if form[1] == ARG_ADDR {
			value, err = mem.Load(b)
			if err != nil {
				err = errors.Join(ErrOpcodeArg2, err)
				return
			}
		}
		result = doAlu(in.Opcode, input, value)
		prior, _ = mem.Store(a, result)
	}

	cpu.Pc = next_pc
	cpu.Ticks += 1
	cpu.Power += bits.OnesCount32(uint32(prior ^ result))

	return
}

// doAlu performs the requested arithmetic, and returns the output value.
// Arithmetic wraps at 32 bits.
func doAlu(op Opcode, input Word, value Word) (output Word) {
	switch op {
	case OP_CP, OP_CP_IMM:
		output = value
	case OP_ADD, OP_ADD_IMM:
		output = input + value
	case OP_MUL, OP_MUL_IMM:
		output = input * value
	case OP_SRL, OP_SRL_IMM:
		// Shift counts of 32 or more clear the word.
		output = Word(uint32(input) >> uint32(value))
	case OP_LT_IMM:
		if input < value {
			output = 1
		}
	}

	return
}
