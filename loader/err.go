package loader

import (
	"errors"
	"strconv"

	"github.com/ezrec/vscpu/translate"
)

var f = translate.From

var (
	ErrFormat         = errors.New(f("unknown image format"))
	ErrProgramMissing = errors.New(f("program missing"))
	ErrMemorySize     = errors.New(f("memory size invalid"))
	ErrStepLimit      = errors.New(f("step limit invalid"))
)

// ErrValueRange is a value that does not fit in a machine word.
type ErrValueRange int64

func (err ErrValueRange) Error() string {
	return f("value %v out of range", strconv.FormatInt(int64(err), 10))
}

func (err ErrValueRange) Is(target error) (ok bool) {
	_, ok = target.(ErrValueRange)
	return
}

// ErrOpcodeInvalid is an unknown opcode mnemonic.
type ErrOpcodeInvalid string

func (err ErrOpcodeInvalid) Error() string {
	return f("opcode '%v' invalid", string(err))
}

func (err ErrOpcodeInvalid) Is(target error) (ok bool) {
	_, ok = target.(ErrOpcodeInvalid)
	return
}

// ErrKeyUnknown is a configuration key that is not understood.
type ErrKeyUnknown string

func (err ErrKeyUnknown) Error() string {
	return f("key '%v' unknown", string(err))
}

// ErrType is a value of the wrong type.
type ErrType string

func (err ErrType) Error() string {
	return f("expected %v", string(err))
}

// ErrEntry locates an error within a section of an image.
type ErrEntry struct {
	Section string
	Key     string
	LineNo  int
	Err     error
}

func (err *ErrEntry) Error() string {
	if err.LineNo > 0 {
		return f("line %v %v[%v] %v", strconv.Itoa(err.LineNo), err.Section, err.Key, err.Err)
	}
	return f("%v[%v] %v", err.Section, err.Key, err.Err)
}

func (err *ErrEntry) Unwrap() error {
	return err.Err
}
