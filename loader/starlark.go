package loader

import (
	"fmt"
	"io"
	"iter"
	"log"
	"math"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/vscpu/cpu"
)

// statementValue is a program statement built by an opcode builtin.
type statementValue struct {
	st cpu.Statement
}

var _ starlark.Value = (*statementValue)(nil)

func (sv *statementValue) String() string        { return sv.st.Instruction.String() }
func (sv *statementValue) Type() string          { return "instruction" }
func (sv *statementValue) Freeze()               {}
func (sv *statementValue) Truth() starlark.Bool  { return starlark.True }
func (sv *statementValue) Hash() (uint32, error) { return 0, ErrType("hashable value") }

// opcodeBuiltin makes a builtin that builds an instruction, tagged with
// the line of the caller.
func opcodeBuiltin(op cpu.Opcode) *starlark.Builtin {
	return starlark.NewBuiltin(op.String(), func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
		if len(kwargs) != 0 {
			err = fmt.Errorf("%v: %w", fn.Name(), ErrType("positional arguments"))
			return
		}

		ints, err := starlarkInts(args)
		if err != nil {
			err = fmt.Errorf("%v: %w", fn.Name(), err)
			return
		}

		lineno := int(thread.CallFrame(1).Pos.Line)
		st, err := makeStatement(lineno, op.String(), ints)
		if err != nil {
			err = fmt.Errorf("%v: %w", fn.Name(), err)
			return
		}

		value = &statementValue{st: st}
		return
	})
}

// starlarkInt converts a Starlark integer.
func starlarkInt(value starlark.Value) (i64 int64, err error) {
	st_int, ok := value.(starlark.Int)
	if !ok {
		err = ErrType("integer")
		return
	}

	i64, ok = st_int.Int64()
	if !ok {
		i64 = math.MaxInt64
		if st_int.Sign() < 0 {
			i64 = math.MinInt64
		}
		err = ErrValueRange(i64)
		return
	}

	return
}

func starlarkInts(values starlark.Tuple) (ints []int64, err error) {
	ints = make([]int64, len(values))
	for n, value := range values {
		ints[n], err = starlarkInt(value)
		if err != nil {
			return
		}
	}

	return
}

// predeclared builds the Starlark environment: one builtin per opcode,
// then the defines as integer or string constants.
func predeclared(defines iter.Seq2[string, string]) (pred starlark.StringDict) {
	pred = starlark.StringDict{}
	for op := range cpu.Opcodes() {
		pred[op.String()] = opcodeBuiltin(op)
	}

	if defines == nil {
		return
	}

	for name, value := range defines {
		if op, ok := cpu.ParseOpcode(value); ok {
			pred[name] = opcodeBuiltin(op)
			continue
		}
		if i64, err := strconv.ParseInt(value, 0, 64); err == nil {
			pred[name] = starlark.MakeInt64(i64)
			continue
		}
		pred[name] = starlark.String(value)
	}

	return
}

// ParseStarlark executes a Starlark image script, and collects the
// image from its globals.
//
//	memory = {100: 5, 101: 8}
//	program = [
//	    ADD(100, 101),
//	    ("MULi", 100, 3),
//	]
//
// The globals memory_size and step_limit are optional.
func ParseStarlark(name string, input io.Reader, defines iter.Seq2[string, string]) (img *Image, err error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return
	}

	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			log.Printf("%v: %v", name, msg)
		},
	}
	opts := syntax.FileOptions{}

	globals, err := starlark.ExecFileOptions(&opts, thread, name, data, predeclared(defines))
	if err != nil {
		return
	}

	img = &Image{
		Name:    name,
		Memory:  map[int]cpu.Word{},
		Program: &cpu.Program{},
	}

	defer func() {
		if err != nil {
			img = nil
		}
	}()

	for key, ptr := range map[string]*int{"memory_size": &img.MemorySize, "step_limit": &img.StepLimit} {
		value, ok := globals[key]
		if !ok {
			continue
		}
		var i64 int64
		i64, err = starlarkInt(value)
		if err == nil && (i64 < 0 || i64 > math.MaxInt32) {
			err = ErrValueRange(i64)
		}
		if err != nil {
			err = &ErrEntry{Section: "globals", Key: key, Err: err}
			return
		}
		*ptr = int(i64)
	}

	err = img.checkSettings()
	if err != nil {
		return
	}

	if value, ok := globals["memory"]; ok {
		err = img.starlarkMemory(value)
		if err != nil {
			return
		}
	}

	value, ok := globals["program"]
	if !ok {
		err = ErrProgramMissing
		return
	}

	err = img.starlarkProgram(value)

	return
}

// starlarkMemory collects the initial memory from a dict.
func (img *Image) starlarkMemory(value starlark.Value) (err error) {
	dict, ok := value.(*starlark.Dict)
	if !ok {
		err = &ErrEntry{Section: "globals", Key: "memory", Err: ErrType("dict")}
		return
	}

	for _, item := range dict.Items() {
		var addr, i64 int64
		addr, err = starlarkInt(item[0])
		if err == nil {
			i64, err = starlarkInt(item[1])
		}
		if err == nil && (addr < math.MinInt32 || addr > math.MaxInt32) {
			err = ErrValueRange(addr)
		}
		if err == nil {
			img.Memory[int(addr)], err = toWord(i64)
		}
		if err != nil {
			err = &ErrEntry{Section: "memory", Key: item[0].String(), Err: err}
			return
		}
	}

	return
}

// starlarkProgram collects the program from a list of instructions.
// Each entry is either built by an opcode builtin, or is a tuple of
// a mnemonic string and integer operands.
func (img *Image) starlarkProgram(value starlark.Value) (err error) {
	iterable, ok := value.(starlark.Iterable)
	if !ok {
		err = &ErrEntry{Section: "globals", Key: "program", Err: ErrType("list")}
		return
	}

	it := iterable.Iterate()
	defer it.Done()

	var entry starlark.Value
	for n := 0; it.Next(&entry); n++ {
		var st cpu.Statement
		switch entry := entry.(type) {
		case *statementValue:
			st = entry.st
		case starlark.Tuple:
			st, err = tupleStatement(entry)
		case *starlark.List:
			tuple := make(starlark.Tuple, entry.Len())
			for i := range tuple {
				tuple[i] = entry.Index(i)
			}
			st, err = tupleStatement(tuple)
		default:
			err = ErrType("instruction")
		}
		if err != nil {
			err = &ErrEntry{Section: "program", Key: strconv.Itoa(n), LineNo: st.LineNo, Err: err}
			return
		}
		img.Program.Statements = append(img.Program.Statements, st)
	}

	return
}

// tupleStatement converts a ("MNEMONIC", a, b) tuple.
func tupleStatement(tuple starlark.Tuple) (st cpu.Statement, err error) {
	if len(tuple) == 0 {
		err = ErrType("instruction")
		return
	}

	name, ok := starlark.AsString(tuple[0])
	if !ok {
		err = ErrType("opcode string")
		return
	}

	ints, err := starlarkInts(tuple[1:])
	if err != nil {
		return
	}

	st, err = makeStatement(0, name, ints)

	return
}
