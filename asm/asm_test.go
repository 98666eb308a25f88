package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azyrite/lmp/cpu"
)

func doParse(t *testing.T, program []string) *Program {
	require := require.New(t)

	assembler := &Assembler{}
	prog, err := assembler.Parse(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(err)
	require.NotNil(prog)

	return prog
}

func TestAssemblerBasic(t *testing.T) {
	assert := assert.New(t)

	prog := doParse(t, []string{
		"       INP",
		"loop   OUT",
		"       SUB one",
		"       BRP loop",
		"       HLT",
		"one    DAT 1",
	})

	assert.Equal([]int64{901, 902, 2005, 8001, 1, 1}, prog.Image())

	line := prog.Debug(2)
	assert.NotNil(line)
	assert.Equal(3, line.LineNo)
	assert.Equal(cpu.Instruction{Op: cpu.OP_SUB, Operand: 5}, line.Instr)

	assert.Nil(prog.Debug(6))
}

func TestAssemblerComments(t *testing.T) {
	assert := assert.New(t)

	prog := doParse(t, []string{
		"; a whole-line comment",
		"       INP   ; trailing comment",
		"",
		"       HLT",
	})

	assert.Equal([]int64{901, 1}, prog.Image())
	assert.Equal(2, prog.Lines[0].LineNo)
	assert.Equal(4, prog.Lines[1].LineNo)
}

func TestAssemblerDat(t *testing.T) {
	assert := assert.New(t)

	prog := doParse(t, []string{
		"       HLT",
		"a      DAT",     // defaults to zero
		"b      DAT 42",
		"c      DAT 901", // DAT may hold any cell value
	})

	assert.Equal([]int64{1, 0, 42, 901}, prog.Image())
}

func TestAssemblerEquate(t *testing.T) {
	assert := assert.New(t)

	prog := doParse(t, []string{
		".equ TEN 10",
		"       LDA TEN",
		"       SHL $(TEN - 8)",
		"       STA $(TEN * 2)",
		"       HLT",
	})

	assert.Equal([]int64{5010, 15002, 3020, 1}, prog.Image())
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	assembler := &Assembler{}
	assembler.Predefine("MEMORY_SIZE", "100")

	prog, err := assembler.Parse(strings.NewReader("BRA $(MEMORY_SIZE - 1)"))
	require.NoError(err)
	assert.Equal([]int64{6099}, prog.Image())
}

func TestAssemblerPointer(t *testing.T) {
	assert := assert.New(t)

	// @label lowers a load to the indirect LDR.
	prog := doParse(t, []string{
		"       LDA @ptr",
		"       LDR @ptr", // already indirect, @ is allowed
		"       HLT",
		"ptr    DAT 4",
		"val    DAT 77",
	})

	assert.Equal([]int64{14003, 14003, 1, 4, 77}, prog.Image())
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program string
		err     error
	}){
		{"bad_mnemonic", "FOO 1", ErrOpcodeInvalid},
		{"label_only", "loop", ErrOpcodeMissing},
		{"missing_operand", "ADD", ErrOperandMissing},
		{"forbidden_operand", "HLT 3", ErrOpcodeExtraArgs},
		{"extra_args", "ADD 1 2", ErrOpcodeExtraArgs},
		{"missing_label", "BRA nowhere", ErrLabelMissing("")},
		{"dup_label", "a HLT\na HLT", ErrLabelDuplicate},
		{"equ_syntax", ".equ ONLY", ErrEquateSyntax},
		{"equ_dup", ".equ A 1\n.equ A 2", ErrEquateDuplicate},
		{"range", "ADD 1000", ErrOperandRange(0)},
		{"pointer", "STA @x\nx DAT", ErrPointerInvalid},
	}

	for _, entry := range table {
		assembler := &Assembler{}
		_, err := assembler.Parse(strings.NewReader(entry.program))
		assert.ErrorIs(err, entry.err, entry.name)

		var syntax *ErrSyntax
		if assert.ErrorAs(err, &syntax, entry.name) {
			assert.NotZero(syntax.LineNo, entry.name)
		}
	}
}

func TestAssemblerLineno(t *testing.T) {
	assert := assert.New(t)

	// LINENO tracks the current source line during expansion.
	prog := doParse(t, []string{
		"DAT $(LINENO)",
		"DAT $(LINENO * 10)",
	})

	assert.Equal([]int64{1, 20}, prog.Image())
}
