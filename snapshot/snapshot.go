// Package snapshot reads and writes VSCPU memory snapshots.
package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/ezrec/vscpu/cpu"
	"github.com/ezrec/vscpu/translate"
)

var f = translate.From

var (
	ErrFormat     = errors.New(f("unknown snapshot format"))
	ErrUnreadable = errors.New(f("snapshot format is write only"))
)

// ErrParse is a word in a snapshot that is not a machine word.
type ErrParse string

func (err ErrParse) Error() string {
	return f("'%v' is not a word", string(err))
}

// Format is a snapshot encoding.
type Format string

const (
	FORMAT_TEXT = Format("text") // One "address value" line per cell.
	FORMAT_LIST = Format("list") // All values on one line.
	FORMAT_CBOR = Format("cbor") // CBOR array of all values.
)

// ParseFormat returns the format for a name.
func ParseFormat(name string) (format Format, err error) {
	format = Format(strings.ToLower(name))
	switch format {
	case FORMAT_TEXT, FORMAT_LIST, FORMAT_CBOR:
	default:
		err = ErrFormat
	}

	return
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Write encodes words to w. For FORMAT_TEXT, zero cells are skipped
// unless all is set.
func Write(w io.Writer, words []cpu.Word, format Format, all bool) (err error) {
	switch format {
	case FORMAT_TEXT:
		out := bufio.NewWriter(w)
		for addr, value := range words {
			if value == 0 && !all {
				continue
			}
			_, err = fmt.Fprintf(out, "%d %d\n", addr, value)
			if err != nil {
				return
			}
		}
		err = out.Flush()
	case FORMAT_LIST:
		strs := make([]string, len(words))
		for n, value := range words {
			strs[n] = strconv.FormatInt(int64(value), 10)
		}
		_, err = io.WriteString(w, strings.Join(strs, " ")+"\n")
	case FORMAT_CBOR:
		var data []byte
		data, err = cborEncMode.Marshal(words)
		if err != nil {
			return
		}
		_, err = w.Write(data)
	default:
		err = ErrFormat
	}

	return
}

// Read decodes a snapshot written in FORMAT_LIST or FORMAT_CBOR.
func Read(r io.Reader, format Format) (words []cpu.Word, err error) {
	switch format {
	case FORMAT_LIST:
		var data []byte
		data, err = io.ReadAll(r)
		if err != nil {
			return
		}
		for _, field := range strings.Fields(string(data)) {
			var i64 int64
			i64, err = strconv.ParseInt(field, 10, 32)
			if err != nil {
				err = ErrParse(field)
				words = nil
				return
			}
			words = append(words, cpu.Word(i64))
		}
	case FORMAT_CBOR:
		err = cbor.NewDecoder(r).Decode(&words)
		if err != nil {
			err = fmt.Errorf("snapshot: %w", err)
			words = nil
		}
	case FORMAT_TEXT:
		err = ErrUnreadable
	default:
		err = ErrFormat
	}

	return
}

// Seed converts a word list into initial memory values, skipping zeros.
func Seed(words []cpu.Word) (memory map[int]cpu.Word) {
	memory = make(map[int]cpu.Word)
	for addr, value := range words {
		if value != 0 {
			memory[addr] = value
		}
	}

	return
}
