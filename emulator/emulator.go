// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/vscpu/cpu"
	"github.com/ezrec/vscpu/internal"
	"github.com/ezrec/vscpu/loader"
	"github.com/ezrec/vscpu/translate"
)

const (
	STEP_LIMIT = 1 << 20 // Default instruction limit per run.
)

var _emulator_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%v", cpu.MEMORY_SIZE),
	"STEP_LIMIT":  fmt.Sprintf("%v", STEP_LIMIT),
}

// Emulator state. CPU + program + initial memory.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Initial map[int]cpu.Word // Memory values applied at reset.
}

// NewEmulator creates a new emulator with the default memory size.
func NewEmulator() (emu *Emulator) {
	cp, err := cpu.NewCpu(cpu.MEMORY_SIZE)
	if err != nil {
		panic(err)
	}

	cp.StepLimit = STEP_LIMIT

	emu = &Emulator{
		Cpu:     cp,
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// LoadImage configures the emulator from a machine image, and resets it.
// On error the emulator is unchanged.
func (emu *Emulator) LoadImage(img *loader.Image) (err error) {
	cp := emu.Cpu
	if img.MemorySize != 0 && img.MemorySize != cp.Memory.Len() {
		cp, err = cpu.NewCpu(img.MemorySize)
		if err != nil {
			return
		}
		cp.StepLimit = emu.Cpu.StepLimit
	}

	err = cp.Memory.Validate(img.Memory)
	if err != nil {
		return
	}

	if img.StepLimit != 0 {
		cp.StepLimit = img.StepLimit
	}

	emu.Cpu = cp
	emu.Program = img.Program
	emu.Initial = maps.Clone(img.Memory)

	err = emu.Reset()

	return
}

// LoadFile reads a machine image file, with the emulator defines
// available to it.
func (emu *Emulator) LoadFile(path string) (err error) {
	img, err := loader.LoadFile(path, emu.Defines())
	if err != nil {
		return
	}

	err = emu.LoadImage(img)

	return
}

// Reset the emulator to the start of the program.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	if emu.Verbose {
		for addr, value := range internal.IterSortedMap(emu.Initial) {
			log.Printf("emulator: [%d] = %d", addr, value)
		}
	}

	err = emu.Cpu.Load(emu.Program.Instructions(), emu.Initial)

	return
}

// Statement returns the program statement at the PC.
func (emu *Emulator) Statement() cpu.Debug {
	return emu.Program.Debug(emu.Cpu.Pc)
}

// LineNo returns the current line number for the executing statement.
func (emu *Emulator) LineNo() int {
	dbg := emu.Statement()
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Step()
	if errors.Is(err, cpu.ErrHalted) {
		err = nil
		done = true
		return
	}

	return
}

// Run ticks the emulator until the program halts. Exceeding the CPU
// step limit is an error.
func (emu *Emulator) Run() (err error) {
	err = emu.Cpu.RunTicks(emu.Tick)
	if limit, ok := err.(cpu.ErrStepLimit); ok {
		err = &ErrRuntime{LineNo: emu.LineNo(), Err: limit}
		return
	}
	if err != nil {
		return
	}

	if emu.Verbose {
		translate.Printf("halted after %d ticks, %d branches", emu.Cpu.Ticks, emu.Cpu.Branches)
	}

	return
}
