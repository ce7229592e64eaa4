package cpu

import (
	"errors"
	"strconv"

	"github.com/ezrec/vscpu/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted     = errors.New(f("halted"))
	ErrMemorySize = errors.New(f("memory size too small"))

	// Instruction decode errors
	ErrOpcodeUnknown = errors.New(f("opcode unknown"))
	ErrOpcodeArgs    = errors.New(f("operand count"))
	ErrOpcodeArg1    = errors.New(f("arg1"))
	ErrOpcodeArg2    = errors.New(f("arg2"))
)

// ErrAddress is a memory address outside of the machine's memory.
type ErrAddress int

func (ea ErrAddress) Error() string {
	return f("address %v out of range", strconv.Itoa(int(ea)))
}

func (ea ErrAddress) Is(err error) (ok bool) {
	_, ok = err.(ErrAddress)
	return
}

// ErrTarget is a branch target outside of the program.
type ErrTarget int

func (et ErrTarget) Error() string {
	return f("branch target %v out of range", strconv.Itoa(int(et)))
}

func (et ErrTarget) Is(err error) (ok bool) {
	_, ok = err.(ErrTarget)
	return
}

// ErrDecode is an instruction that does not match any opcode form.
type ErrDecode Instruction

func (ed ErrDecode) Error() string {
	return f("bad instruction '%v'", Instruction(ed).String())
}

func (ed ErrDecode) Is(err error) (ok bool) {
	_, ok = err.(ErrDecode)
	return
}

// ErrStepLimit is returned when a run exceeds its step limit.
type ErrStepLimit int

func (el ErrStepLimit) Error() string {
	return f("step limit %v exceeded", strconv.Itoa(int(el)))
}

func (el ErrStepLimit) Is(err error) (ok bool) {
	_, ok = err.(ErrStepLimit)
	return
}

// ErrStep locates a failed instruction in the program.
type ErrStep struct {
	Pc          int
	Instruction Instruction
	Err         error
}

func (err *ErrStep) Error() string {
	return f("pc %v '%v' %v", strconv.Itoa(err.Pc), err.Instruction.String(), err.Err)
}

func (err *ErrStep) Unwrap() error {
	return err.Err
}
