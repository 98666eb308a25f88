package io

import (
	"errors"

	"github.com/azyrite/lmp/translate"
)

var f = translate.From

var (
	// Device errors
	ErrTapeNoOutput = errors.New(f("tape has no output stream"))
)

// ErrTapeValue reports a non-numeric token on an input tape.
type ErrTapeValue string

func (et ErrTapeValue) Error() string {
	return f("'%v' is not a number", string(et))
}

func (et ErrTapeValue) Is(err error) (ok bool) {
	_, ok = err.(ErrTapeValue)
	return
}
