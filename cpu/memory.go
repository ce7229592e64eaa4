package cpu

import (
	"iter"
	"slices"
)

const (
	MEMORY_MIN  = 256 // Smallest permitted memory.
	MEMORY_SIZE = 256 // Default memory size.
)

// Memory is the flat word-addressed store of the machine.
type Memory struct {
	Data []Word
}

// NewMemory creates a zeroed memory of size words.
func NewMemory(size int) (mem *Memory, err error) {
	if size < MEMORY_MIN {
		err = ErrMemorySize
		return
	}

	mem = &Memory{
		Data: make([]Word, size),
	}

	return
}

// Len returns the number of words in memory.
func (mem *Memory) Len() int {
	return len(mem.Data)
}

// Check verifies an address is within memory.
func (mem *Memory) Check(addr int) (err error) {
	if addr < 0 || addr >= len(mem.Data) {
		err = ErrAddress(addr)
	}
	return
}

// Load reads the word at addr.
func (mem *Memory) Load(addr Word) (value Word, err error) {
	err = mem.Check(int(addr))
	if err != nil {
		return
	}

	value = mem.Data[addr]
	return
}

// Store writes value at addr, and returns the prior value.
func (mem *Memory) Store(addr Word, value Word) (prior Word, err error) {
	err = mem.Check(int(addr))
	if err != nil {
		return
	}

	prior = mem.Data[addr]
	mem.Data[addr] = value
	return
}

// Reset zeroes all of memory.
func (mem *Memory) Reset() {
	clear(mem.Data)
}

// Validate checks that every address of a set of values is within memory.
func (mem *Memory) Validate(values map[int]Word) (err error) {
	for addr := range values {
		err = mem.Check(addr)
		if err != nil {
			return
		}
	}

	return
}

// Seed writes an initial set of values. No values are written if any
// address is out of range.
func (mem *Memory) Seed(values map[int]Word) (err error) {
	err = mem.Validate(values)
	if err != nil {
		return
	}

	for addr, value := range values {
		mem.Data[addr] = value
	}

	return
}

// Snapshot returns a copy of memory contents.
func (mem *Memory) Snapshot() []Word {
	return slices.Clone(mem.Data)
}

// Used walks all non-zero cells in address order.
func (mem *Memory) Used() iter.Seq2[int, Word] {
	return func(yield func(addr int, value Word) bool) {
		for addr, value := range mem.Data {
			if value == 0 {
				continue
			}
			if !yield(addr, value) {
				return
			}
		}
	}
}
