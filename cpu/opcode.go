package cpu

import (
	"fmt"
)

// Op is an operation mnemonic.
type Op int

const (
	OP_DAT = Op(0)  // DAT
	OP_HLT = Op(1)  // HLT
	OP_ADD = Op(2)  // ADD
	OP_SUB = Op(3)  // SUB
	OP_STA = Op(4)  // STA
	OP_LDA = Op(5)  // LDA
	OP_BRA = Op(6)  // BRA
	OP_BRZ = Op(7)  // BRZ
	OP_BRP = Op(8)  // BRP
	OP_INP = Op(9)  // INP
	OP_OUT = Op(10) // OUT
	OP_BWN = Op(11) // BWN
	OP_BWA = Op(12) // BWA
	OP_BWO = Op(13) // BWO
	OP_BWX = Op(14) // BWX
	OP_LDR = Op(15) // LDR
	OP_SHL = Op(16) // SHL
	OP_SHR = Op(17) // SHR
)

var opNames = [...]string{
	OP_DAT: "DAT",
	OP_HLT: "HLT",
	OP_ADD: "ADD",
	OP_SUB: "SUB",
	OP_STA: "STA",
	OP_LDA: "LDA",
	OP_BRA: "BRA",
	OP_BRZ: "BRZ",
	OP_BRP: "BRP",
	OP_INP: "INP",
	OP_OUT: "OUT",
	OP_BWN: "BWN",
	OP_BWA: "BWA",
	OP_BWO: "BWO",
	OP_BWX: "BWX",
	OP_LDR: "LDR",
	OP_SHL: "SHL",
	OP_SHR: "SHR",
}

// String returns the mnemonic of the operation.
func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return opNames[op]
}

// Fixed codes of the zero-operand instructions.
const (
	CODE_HLT = 1     // Halt.
	CODE_INP = 901   // Input to the accumulator.
	CODE_OUT = 902   // Output from the accumulator.
	CODE_BWN = 10000 // Bitwise NOT of the accumulator.
)

// Base codes of the operand-carrying instructions. Each instruction
// occupies [base, base+OPERAND_SPAN), the operand being the offset from
// the base. The legacy LMC opcodes sit below CODE_EXTENDED; the bitwise,
// indirect, and shift extensions occupy a disjoint range above it, so
// legacy programs stay valid without recoding.
const (
	OPERAND_SPAN  = 1000 // Operand range per instruction, matching MEMORY_MAX+1.
	CODE_EXTENDED = 10000

	CODE_ADD = 1000
	CODE_SUB = 2000
	CODE_STA = 3000
	CODE_LDA = 5000
	CODE_BRA = 6000
	CODE_BRZ = 7000
	CODE_BRP = 8000

	CODE_BWA = 11000
	CODE_BWO = 12000
	CODE_BWX = 13000
	CODE_LDR = 14000
	CODE_SHL = 15000
	CODE_SHR = 16000
)

// codeBase maps operand-carrying ops to their base code.
var codeBase = map[Op]int64{
	OP_ADD: CODE_ADD,
	OP_SUB: CODE_SUB,
	OP_STA: CODE_STA,
	OP_LDA: CODE_LDA,
	OP_BRA: CODE_BRA,
	OP_BRZ: CODE_BRZ,
	OP_BRP: CODE_BRP,
	OP_BWA: CODE_BWA,
	OP_BWO: CODE_BWO,
	OP_BWX: CODE_BWX,
	OP_LDR: CODE_LDR,
	OP_SHL: CODE_SHL,
	OP_SHR: CODE_SHR,
}

// Instruction is a decoded memory cell: an operation plus at most one
// operand. For the address-taking instructions the operand is a memory
// address (for LDR, the address of the target address); for SHL/SHR it is
// an immediate shift count; for DAT it is the raw cell value.
type Instruction struct {
	Op      Op
	Operand int64
}

// HasOperand returns true if the operation carries an operand.
func (in Instruction) HasOperand() bool {
	_, ok := codeBase[in.Op]
	return ok
}

// Decode maps a raw cell value to an instruction. Decoding is pure: the
// same cell value always decodes to the same instruction. Cell values in
// [0, OPERAND_SPAN) that match no fixed code decode as DAT, carrying the
// raw value; they are data, not code. Anything else that falls outside
// every instruction range fails with ErrInvalidOpcode.
func Decode(cell int64) (in Instruction, err error) {
	switch cell {
	case CODE_HLT:
		in = Instruction{Op: OP_HLT}
		return
	case CODE_INP:
		in = Instruction{Op: OP_INP}
		return
	case CODE_OUT:
		in = Instruction{Op: OP_OUT}
		return
	case CODE_BWN:
		in = Instruction{Op: OP_BWN}
		return
	}

	if cell >= 0 && cell < OPERAND_SPAN {
		in = Instruction{Op: OP_DAT, Operand: cell}
		return
	}

	for op, base := range codeBase {
		if cell >= base && cell < base+OPERAND_SPAN {
			in = Instruction{Op: op, Operand: cell - base}
			return
		}
	}

	err = ErrInvalidOpcode(cell)

	return
}

// Encode returns the numeric cell value of the instruction. It is the
// inverse of Decode for every decodable value.
func (in Instruction) Encode() int64 {
	switch in.Op {
	case OP_HLT:
		return CODE_HLT
	case OP_INP:
		return CODE_INP
	case OP_OUT:
		return CODE_OUT
	case OP_BWN:
		return CODE_BWN
	case OP_DAT:
		return in.Operand
	}

	return codeBase[in.Op] + in.Operand
}

// String returns the assembly language representation of the instruction.
func (in Instruction) String() string {
	if in.HasOperand() || in.Op == OP_DAT {
		return fmt.Sprintf("%v %d", in.Op, in.Operand)
	}

	return in.Op.String()
}
