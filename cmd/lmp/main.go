package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/azyrite/lmp/asm"
	"github.com/azyrite/lmp/cpu"
	"github.com/azyrite/lmp/emulator"
	lmpio "github.com/azyrite/lmp/io"
)

// loadImage reads a raw memory image: whitespace-separated integers.
func loadImage(name string) (image []int64, err error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return
	}

	for _, word := range strings.Fields(string(data)) {
		var value int64
		value, err = strconv.ParseInt(word, 0, 64)
		if err != nil {
			return
		}
		image = append(image, value)
	}

	return
}

func main() {
	var compile string
	var load string
	var input string
	var output string
	var memory uint
	var width uint
	var list bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".lmp file to assemble")
	flag.StringVar(&load, "l", "", "raw memory image file to load")
	flag.StringVar(&input, "i", "-", "Tape input")
	flag.StringVar(&output, "o", "-", "Tape output")
	flag.UintVar(&memory, "m", cpu.MEMORY_DEFAULT, "Memory size in cells")
	flag.UintVar(&width, "w", cpu.ACC_BITS_DEFAULT, "Accumulator width in bits")
	flag.BoolVar(&list, "d", false, "Print the assembled listing, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	emu := emulator.NewEmulator(cpu.Config{
		MemorySize: memory,
		AccBits:    width,
	})
	emu.Verbose = verbose

	var image []int64

	switch {
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		assembler := &asm.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			assembler.Predefine(key, value)
		}

		prog, err := assembler.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		if list {
			for _, line := range prog.Lines {
				fmt.Printf("%03d: %5d  %v\n", line.Addr, line.Instr.Encode(), line.Instr)
			}
			return
		}

		image = prog.Image()
	case len(load) != 0:
		var err error
		image, err = loadImage(load)
		if err != nil {
			log.Fatalf("%v: %v", load, err)
		}
	default:
		log.Fatalf("%v: nothing to run; use -c or -l", os.Args[0])
	}

	tape := &lmpio.Tape{}

	if input == "-" {
		tape.Input = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		tape.Input = inf
	}

	if output == "-" {
		tape.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		tape.Output = ouf
	}

	emu.Source = tape
	emu.Sink = tape

	err := emu.Load(image)
	if err != nil {
		log.Fatalf("load: %v", err)
	}

	for {
		done, err := emu.Run(0)
		if err != nil {
			log.Fatal(err)
		}
		if done {
			break
		}
		if emu.State() == cpu.STATE_AWAIT_INPUT {
			log.Fatalf("input exhausted at address %03d", emu.Regs.Pc)
		}
	}

	if verbose {
		log.Printf("executed in %d cycles", emu.Ticks)
	}
}
