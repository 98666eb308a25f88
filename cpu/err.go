package cpu

import (
	"errors"

	"github.com/azyrite/lmp/translate"
)

var f = translate.From

var (
	// Engine errors
	ErrPcOverflow = errors.New(f("program counter ran off the end of memory"))
	ErrStopped    = errors.New(f("machine is halted or faulted"))
	ErrInputFull  = errors.New(f("input buffer full"))
	ErrOutputFull = errors.New(f("output buffer full"))
)

// ErrOutOfBounds reports an address outside the configured memory size.
type ErrOutOfBounds struct {
	Addr int64
	Size uint
}

func (eo ErrOutOfBounds) Error() string {
	return f("address %d out of bounds (memory size %d)", eo.Addr, eo.Size)
}

func (eo ErrOutOfBounds) Is(err error) (ok bool) {
	_, ok = err.(ErrOutOfBounds)
	return
}

// ErrInvalidOpcode reports a cell value the decoder cannot classify.
type ErrInvalidOpcode int64

func (ei ErrInvalidOpcode) Error() string {
	return f("cell value %d decodes to no instruction", int64(ei))
}

func (ei ErrInvalidOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrInvalidOpcode)
	return
}

// ErrImageTooLarge reports a program image longer than the configured
// memory size.
type ErrImageTooLarge struct {
	Length uint
	Size   uint
}

func (ei ErrImageTooLarge) Error() string {
	return f("image of %d cells exceeds memory size %d", ei.Length, ei.Size)
}

func (ei ErrImageTooLarge) Is(err error) (ok bool) {
	_, ok = err.(ErrImageTooLarge)
	return
}
