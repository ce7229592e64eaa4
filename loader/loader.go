// Package loader reads VSCPU machine images.
//
// An image is a configuration structure holding the program, the initial
// memory contents and machine settings. Images are written either as TOML
// (.toml) or as a Starlark script (.star, .py).
package loader

import (
	"io"
	"iter"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezrec/vscpu/cpu"
)

// Image is a loaded machine image.
type Image struct {
	Name       string           // Name of the image source.
	MemorySize int              // Memory size in words, or 0 for the default.
	StepLimit  int              // Step limit, or 0 for the default.
	Memory     map[int]cpu.Word // Initial memory values.
	Program    *cpu.Program     // Program to execute.
}

// Load reads an image, selecting the format by the extension of name.
// The defines are predeclared constants made available to the image.
func Load(name string, input io.Reader, defines iter.Seq2[string, string]) (img *Image, err error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		img, err = ParseToml(name, input)
	case ".star", ".py":
		img, err = ParseStarlark(name, input, defines)
	default:
		err = ErrFormat
	}

	return
}

// LoadFile reads an image from a file.
func LoadFile(path string, defines iter.Seq2[string, string]) (img *Image, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	img, err = Load(path, inf, defines)

	return
}

// toWord range checks a value into a machine word.
func toWord(value int64) (word cpu.Word, err error) {
	if value < math.MinInt32 || value > math.MaxInt32 {
		err = ErrValueRange(value)
		return
	}

	word = cpu.Word(value)
	return
}

// makeStatement builds and decodes a single statement.
func makeStatement(lineno int, name string, args []int64) (st cpu.Statement, err error) {
	op, ok := cpu.ParseOpcode(name)
	if !ok {
		err = ErrOpcodeInvalid(name)
		return
	}

	words := make([]cpu.Word, len(args))
	for n, arg := range args {
		words[n], err = toWord(arg)
		if err != nil {
			return
		}
	}

	in := cpu.MakeInstruction(op, words...)
	_, _, err = in.Decode()
	if err != nil {
		return
	}

	st = cpu.Statement{
		LineNo:      lineno,
		Text:        in.String(),
		Instruction: in,
	}

	return
}

// checkSettings validates the machine settings of an image.
func (img *Image) checkSettings() (err error) {
	if img.MemorySize != 0 && img.MemorySize < cpu.MEMORY_MIN {
		err = ErrMemorySize
		return
	}

	if img.StepLimit < 0 {
		err = ErrStepLimit
		return
	}

	return
}
