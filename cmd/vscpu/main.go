// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/tebeka/atexit"

	"github.com/ezrec/vscpu/emulator"
	"github.com/ezrec/vscpu/snapshot"
)

func main() {
	var image string
	var seed string
	var output string
	var format string
	var limit int
	var all bool
	var verbose bool

	flag.StringVar(&image, "c", "", ".toml or .star machine image to run")
	flag.StringVar(&seed, "m", "", "Initial memory snapshot (list or cbor), replaces image memory")
	flag.StringVar(&output, "o", "-", "Memory snapshot output")
	flag.StringVar(&format, "f", "text", "Snapshot format: text, list, or cbor")
	flag.IntVar(&limit, "n", -1, "Step limit (0 for unlimited)")
	flag.BoolVar(&all, "a", false, "Include zero cells in text snapshots")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		atexit.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(image) == 0 {
		atexit.Fatalf("%v: No image, use -c", os.Args[0])
	}

	snap_format, err := snapshot.ParseFormat(format)
	if err != nil {
		atexit.Fatalf("%v: %v", format, err)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	err = emu.LoadFile(image)
	if err != nil {
		atexit.Fatalf("%v: %v", image, err)
	}

	if len(seed) != 0 {
		inf, err := os.Open(seed)
		if err != nil {
			atexit.Fatalf("%v: %v", seed, err)
		}
		seed_format := snapshot.FORMAT_LIST
		if snap_format == snapshot.FORMAT_CBOR {
			seed_format = snapshot.FORMAT_CBOR
		}
		words, err := snapshot.Read(inf, seed_format)
		inf.Close()
		if err != nil {
			atexit.Fatalf("%v: %v", seed, err)
		}
		emu.Initial = snapshot.Seed(words)
		err = emu.Reset()
		if err != nil {
			atexit.Fatalf("%v: %v", seed, err)
		}
	}

	if limit >= 0 {
		emu.Cpu.StepLimit = limit
	}

	var ouf io.Writer = os.Stdout
	if output != "-" {
		file, err := os.Create(output)
		if err != nil {
			atexit.Fatalf("%v: %v", output, err)
		}
		atexit.Register(func() {
			err := file.Close()
			if err != nil {
				log.Printf("%v: %v", output, err)
			}
		})
		ouf = file
	}

	err = emu.Run()
	if err != nil {
		if verbose {
			log.Print(emu.Cpu.String())
		}
		atexit.Fatalf("%v: %v", image, err)
	}

	err = snapshot.Write(ouf, emu.Cpu.Memory.Snapshot(), snap_format, all)
	if err != nil {
		atexit.Fatalf("%v: %v", output, err)
	}

	atexit.Exit(0)
}
