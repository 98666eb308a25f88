// Package cpu implements the Little Man Plus execution engine.
//
// The machine consists of a fixed-size numeric memory, an accumulator of
// configurable width (8 to 64 bits), a program counter, and negative and
// overflow status flags. The instruction set is the classic Little Man
// Computer (ADD, SUB, STA, LDA, BRA, BRZ, BRP, INP, OUT, HLT, DAT)
// extended with bitwise operations (BWN, BWA, BWO, BWX), shifts (SHL,
// SHR), and an indirect load (LDR). Extended opcodes occupy a numeric
// range disjoint from the legacy encoding, so unmodified LMC images run
// as-is.
package cpu
