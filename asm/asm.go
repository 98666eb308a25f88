// Package asm is a two-pass assembler for the Little Man Plus mnemonic
// language: one instruction per line, optional leading label, optional
// operand (a decimal address, a label, or an @label pointer that lowers a
// load to LDR), `;` comments, `.equ` equates, and `$(...)` compile-time
// constant expressions.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/azyrite/lmp/cpu"
)

// opMap maps mnemonics to operations.
var opMap = map[string]cpu.Op{
	"HLT": cpu.OP_HLT,
	"ADD": cpu.OP_ADD,
	"SUB": cpu.OP_SUB,
	"STA": cpu.OP_STA,
	"LDA": cpu.OP_LDA,
	"BRA": cpu.OP_BRA,
	"BRZ": cpu.OP_BRZ,
	"BRP": cpu.OP_BRP,
	"INP": cpu.OP_INP,
	"OUT": cpu.OP_OUT,
	"BWN": cpu.OP_BWN,
	"BWA": cpu.OP_BWA,
	"BWO": cpu.OP_BWO,
	"BWX": cpu.OP_BWX,
	"LDR": cpu.OP_LDR,
	"SHL": cpu.OP_SHL,
	"SHR": cpu.OP_SHR,
	"DAT": cpu.OP_DAT,
}

// operandRequired lists the operations that must carry an operand.
// DAT is absent from both sets: its operand is optional, defaulting to 0.
var operandRequired = map[cpu.Op]bool{
	cpu.OP_ADD: true,
	cpu.OP_SUB: true,
	cpu.OP_STA: true,
	cpu.OP_LDA: true,
	cpu.OP_BRA: true,
	cpu.OP_BRZ: true,
	cpu.OP_BRP: true,
	cpu.OP_BWA: true,
	cpu.OP_BWO: true,
	cpu.OP_BWX: true,
	cpu.OP_LDR: true,
	cpu.OP_SHL: true,
	cpu.OP_SHR: true,
}

// operandForbidden lists the operations that take no operand.
var operandForbidden = map[cpu.Op]bool{
	cpu.OP_HLT: true,
	cpu.OP_INP: true,
	cpu.OP_OUT: true,
	cpu.OP_BWN: true,
}

// node is a parsed source line awaiting operand resolution.
type node struct {
	lineNo  int
	source  string
	op      cpu.Op
	operand string // raw token, possibly empty
	pointer bool   // operand was @-prefixed
}

// Assembler assembles Little Man Plus source into a Program.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to memory addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple numeric word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// parenEval does compile-time $(...) evaluations.
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates; they may be labels or
			// mnemonics.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	err = nil
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = st_int64
	return
}

// parseLine splits a source line into words after equate substitution and
// $() evaluation.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// parseWords evaluates the words of a line into a node, recording any
// leading label against the current address.
func (asm *Assembler) parseWords(words []string, lineno int, source string, addr int) (nd *node, err error) {
	if len(words) == 0 {
		return
	}

	// A first word that names no mnemonic is a label.
	if _, known := opMap[words[0]]; !known {
		label := words[0]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = addr

		words = words[1:]
		if len(words) == 0 {
			err = ErrOpcodeMissing
			return
		}
	}

	op, ok := opMap[words[0]]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	if len(words) > 2 {
		err = ErrOpcodeExtraArgs
		return
	}

	nd = &node{
		lineNo: lineno,
		source: source,
		op:     op,
	}

	if len(words) == 2 {
		if operandForbidden[op] {
			err = ErrOpcodeExtraArgs
			return
		}
		operand := words[1]
		if strings.HasPrefix(operand, "@") {
			// Pointer syntax: only a load can be made indirect.
			if op != cpu.OP_LDA && op != cpu.OP_LDR {
				err = ErrPointerInvalid
				return
			}
			nd.op = cpu.OP_LDR
			nd.pointer = true
			operand = operand[1:]
		}
		nd.operand = operand
	} else if operandRequired[op] {
		err = ErrOperandMissing
		return
	}

	return
}

// resolve turns a node's raw operand into an instruction, looking up
// labels recorded during the first pass.
func (asm *Assembler) resolve(nd *node) (in cpu.Instruction, err error) {
	in = cpu.Instruction{Op: nd.op}

	if len(nd.operand) == 0 {
		return
	}

	addr, ok := asm.Label[nd.operand]
	if ok {
		in.Operand = int64(addr)
	} else {
		in.Operand, err = asm.valueOf(nd.operand)
		if err != nil {
			if _, isnum := err.(ErrParseNumber); isnum {
				err = ErrLabelMissing(nd.operand)
			}
			return
		}
	}

	// DAT holds arbitrary cell data; every other operand must fit the
	// address/count field of the encoding.
	if nd.op != cpu.OP_DAT {
		if in.Operand < 0 || in.Operand >= cpu.OPERAND_SPAN {
			err = ErrOperandRange(in.Operand)
			return
		}
	}

	return
}

// Parse assembles an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Equate = map[string]string{"LINENO": "0"}
	for attr, val := range maps.All(asm.predefine) {
		asm.Equate[attr] = val
	}

	var nodes []*node

	// First pass: parse lines, assign addresses, collect labels.
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		var nd *node
		nd, err = asm.parseWords(words, lineno, line, len(nodes))
		if err != nil {
			return
		}
		if nd != nil {
			nodes = append(nodes, nd)
		}
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	// Second pass: resolve labels and build the listing.
	prog = &Program{}
	for _, nd := range nodes {
		lineno = nd.lineNo
		line = nd.source

		var in cpu.Instruction
		in, err = asm.resolve(nd)
		if err != nil {
			prog = nil
			return
		}

		prog.Lines = append(prog.Lines, Line{
			LineNo: nd.lineNo,
			Addr:   len(prog.Lines),
			Source: nd.source,
			Instr:  in,
		})
	}

	return
}
