package cpu

const (
	ACC_BITS_DEFAULT  = 64 // Default accumulator width.
	CELL_BITS_DEFAULT = 64 // Default memory cell width.
)

// wrapToBits wraps a value modulo 2^bits and sign-extends the result.
// Widths of 64 bits and above are the identity.
func wrapToBits(value int64, bits uint) int64 {
	if bits >= 64 {
		return value
	}

	mask := (int64(1) << bits) - 1
	value &= mask
	if value&(int64(1)<<(bits-1)) != 0 {
		value |= ^mask
	}

	return value
}

// Registers is the register file: the accumulator, the program counter,
// and the status flags. The accumulator wraps modulo 2^bits for the
// configured width; the negative flag always reflects the sign of the
// wrapped stored value.
type Registers struct {
	Acc      int64 // Accumulator, sign-extended from the configured width.
	Pc       uint  // Program counter, always in [0, memory size).
	Negative bool  // Sign of the wrapped accumulator.
	Overflow bool  // Last arithmetic op exceeded the representable range.

	bits uint
}

// NewRegisters creates a register file with the given accumulator width.
// Widths other than 8, 16, 32 or 64 fall back to ACC_BITS_DEFAULT.
func NewRegisters(bits uint) (regs *Registers) {
	switch bits {
	case 8, 16, 32, 64:
		// pass
	default:
		bits = ACC_BITS_DEFAULT
	}

	regs = &Registers{bits: bits}

	return
}

// Bits returns the accumulator width in bits.
func (regs *Registers) Bits() uint {
	return regs.bits
}

// Reset zeroes the accumulator, program counter, and flags.
func (regs *Registers) Reset() {
	regs.Acc = 0
	regs.Pc = 0
	regs.Negative = false
	regs.Overflow = false
}

// SetAcc stores a value into the accumulator, wrapped to the configured
// width. The negative flag is recomputed; the overflow flag is untouched,
// as loads and bitwise ops cannot overflow.
func (regs *Registers) SetAcc(value int64) {
	regs.Acc = wrapToBits(value, regs.bits)
	regs.Negative = regs.Acc < 0
}

// Add adds a value into the accumulator with wrap-around, setting the
// overflow flag when the true sum exceeds the representable signed range
// for the configured width.
func (regs *Registers) Add(value int64) {
	sum := regs.Acc + value

	if regs.bits == 64 {
		// Same-sign operands producing an opposite-sign sum.
		regs.Overflow = (regs.Acc >= 0) == (value >= 0) && (sum >= 0) != (regs.Acc >= 0)
	} else {
		// Operands fit the configured width, so the int64 sum is exact.
		regs.Overflow = sum != wrapToBits(sum, regs.bits)
	}

	regs.Acc = wrapToBits(sum, regs.bits)
	regs.Negative = regs.Acc < 0
}

// Sub subtracts a value from the accumulator with wrap-around, setting the
// overflow flag when the true difference exceeds the representable signed
// range for the configured width.
func (regs *Registers) Sub(value int64) {
	diff := regs.Acc - value

	if regs.bits == 64 {
		regs.Overflow = (regs.Acc >= 0) != (value >= 0) && (diff >= 0) != (regs.Acc >= 0)
	} else {
		regs.Overflow = diff != wrapToBits(diff, regs.bits)
	}

	regs.Acc = wrapToBits(diff, regs.bits)
	regs.Negative = regs.Acc < 0
}
