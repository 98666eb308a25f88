package emulator

import (
	"github.com/azyrite/lmp/translate"
)

var f = translate.From

// ErrRuntime indicates the memory address of a runtime fault.
type ErrRuntime struct {
	Addr uint
	Err  error
}

func (err *ErrRuntime) Error() string {
	return f("address %03d %v", err.Addr, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
