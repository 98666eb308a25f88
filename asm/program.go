package asm

import (
	"github.com/azyrite/lmp/cpu"
)

// Line is one assembled instruction with its source location.
type Line struct {
	LineNo int             // Source line number, 1-based.
	Addr   int             // Memory address of the instruction.
	Source string          // Source text, comment stripped.
	Instr  cpu.Instruction // Assembled instruction.
}

// Program is an assembled listing. Instructions occupy consecutive
// addresses from zero, matching their order in the source.
type Program struct {
	Lines []Line
}

// Image returns the numeric memory image of the program, one cell per
// instruction, ready for a load.
func (prog *Program) Image() (image []int64) {
	image = make([]int64, len(prog.Lines))
	for n, line := range prog.Lines {
		image[n] = line.Instr.Encode()
	}

	return
}

// Debug returns the listing line at a memory address, or nil when the
// address holds no assembled instruction.
func (prog *Program) Debug(addr uint) (line *Line) {
	if addr >= uint(len(prog.Lines)) {
		return
	}

	return &prog.Lines[addr]
}
