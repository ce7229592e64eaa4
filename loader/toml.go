package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/vscpu/cpu"
)

type tomlMachine struct {
	MemorySize int `toml:"memory_size"`
	StepLimit  int `toml:"step_limit"`
}

type tomlStatement struct {
	Op   string  `toml:"op"`
	Args []int64 `toml:"args"`
}

type tomlImage struct {
	Machine tomlMachine      `toml:"machine"`
	Memory  map[string]int64 `toml:"memory"`
	Program []tomlStatement  `toml:"program"`
}

// ParseToml reads a TOML image.
//
//	[machine]
//	memory_size = 256
//
//	[memory]
//	100 = 5
//
//	[[program]]
//	op = "ADDi"
//	args = [100, 3]
func ParseToml(name string, input io.Reader) (img *Image, err error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return
	}

	var doc tomlImage
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		err = fmt.Errorf("%v: %w", name, err)
		return
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		err = ErrKeyUnknown(undecoded[0].String())
		return
	}

	if !md.IsDefined("program") {
		err = ErrProgramMissing
		return
	}

	img = &Image{
		Name:       name,
		MemorySize: doc.Machine.MemorySize,
		StepLimit:  doc.Machine.StepLimit,
		Memory:     make(map[int]cpu.Word, len(doc.Memory)),
		Program:    &cpu.Program{},
	}

	err = img.checkSettings()
	if err != nil {
		img = nil
		return
	}

	for key, value := range doc.Memory {
		var addr int
		addr, err = strconv.Atoi(key)
		if err != nil {
			err = &ErrEntry{Section: "memory", Key: key, Err: ErrType("integer address")}
			img = nil
			return
		}
		img.Memory[addr], err = toWord(value)
		if err != nil {
			err = &ErrEntry{Section: "memory", Key: key, Err: err}
			img = nil
			return
		}
	}

	lines := tableLines(data, "[[program]]")

	for n, entry := range doc.Program {
		lineno := 0
		if n < len(lines) {
			lineno = lines[n]
		}

		var st cpu.Statement
		st, err = makeStatement(lineno, entry.Op, entry.Args)
		if err != nil {
			err = &ErrEntry{Section: "program", Key: strconv.Itoa(n), LineNo: lineno, Err: err}
			img = nil
			return
		}
		img.Program.Statements = append(img.Program.Statements, st)
	}

	return
}

// tableLines returns the line numbers of each array-of-tables header.
func tableLines(data []byte, header string) (lines []int) {
	scanner := bufio.NewScanner(bytes.NewReader(data))

	var lineno int
	for scanner.Scan() {
		lineno++
		text, _, _ := strings.Cut(scanner.Text(), "#")
		if strings.TrimSpace(text) == header {
			lines = append(lines, lineno)
		}
	}

	return
}
