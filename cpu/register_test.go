package cpu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistersWidth(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint(8), NewRegisters(8).Bits())
	assert.Equal(uint(ACC_BITS_DEFAULT), NewRegisters(0).Bits())
	assert.Equal(uint(ACC_BITS_DEFAULT), NewRegisters(12).Bits())
}

func TestRegistersAdd(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		bits     uint
		acc      int64
		value    int64
		out      int64
		overflow bool
		negative bool
	}){
		{"plain", 64, 3, 4, 7, false, false},
		{"negative", 64, 3, -4, -1, false, true},
		{"w8_ok", 8, 100, 27, 127, false, false},
		{"w8_over", 8, 127, 1, -128, true, true},
		{"w8_under", 8, -128, -1, 127, true, false},
		{"w16_over", 16, 0x7fff, 1, -0x8000, true, true},
		{"w32_over", 32, math.MaxInt32, 1, math.MinInt32, true, true},
		{"w64_over", 64, math.MaxInt64, 1, math.MinInt64, true, true},
		{"w64_under", 64, math.MinInt64, -1, math.MaxInt64, true, false},
		{"w64_ok", 64, math.MaxInt64, -1, math.MaxInt64 - 1, false, false},
	}

	for _, entry := range table {
		regs := NewRegisters(entry.bits)
		regs.SetAcc(entry.acc)
		regs.Add(entry.value)
		assert.Equal(entry.out, regs.Acc, entry.name)
		assert.Equal(entry.overflow, regs.Overflow, entry.name)
		assert.Equal(entry.negative, regs.Negative, entry.name)
	}
}

func TestRegistersSub(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		bits     uint
		acc      int64
		value    int64
		out      int64
		overflow bool
		negative bool
	}){
		{"plain", 64, 10, 4, 6, false, false},
		{"w8_under", 8, -128, 1, 127, true, false},
		{"w8_over", 8, 127, -1, -128, true, true},
		{"w64_under", 64, math.MinInt64, 1, math.MaxInt64, true, false},
		{"w64_ok", 64, 0, math.MaxInt64, -math.MaxInt64, false, true},
	}

	for _, entry := range table {
		regs := NewRegisters(entry.bits)
		regs.SetAcc(entry.acc)
		regs.Sub(entry.value)
		assert.Equal(entry.out, regs.Acc, entry.name)
		assert.Equal(entry.overflow, regs.Overflow, entry.name)
		assert.Equal(entry.negative, regs.Negative, entry.name)
	}
}

func TestRegistersSetAcc(t *testing.T) {
	assert := assert.New(t)

	regs := NewRegisters(8)

	// SetAcc wraps and recomputes the negative flag, leaving overflow
	// untouched.
	regs.Add(127)
	regs.Add(1)
	assert.True(regs.Overflow)

	regs.SetAcc(0x100)
	assert.Equal(int64(0), regs.Acc)
	assert.False(regs.Negative)
	assert.True(regs.Overflow)

	regs.SetAcc(-1)
	assert.True(regs.Negative)

	regs.Reset()
	assert.Equal(int64(0), regs.Acc)
	assert.Equal(uint(0), regs.Pc)
	assert.False(regs.Negative)
	assert.False(regs.Overflow)
}
