package io

import (
	"io"
)

// Buffer is an in-memory FIFO number device. Reading consumes from the
// front of Values; writing appends.
type Buffer struct {
	Values []int64
}

var _ Source = (*Buffer)(nil)
var _ Sink = (*Buffer)(nil)

// ReadNumber removes and returns the oldest value, or io.EOF when empty.
func (bf *Buffer) ReadNumber() (value int64, err error) {
	if len(bf.Values) == 0 {
		err = io.EOF
		return
	}

	value = bf.Values[0]
	bf.Values = bf.Values[1:]

	return
}

// WriteNumber appends a value.
func (bf *Buffer) WriteNumber(value int64) (err error) {
	bf.Values = append(bf.Values, value)

	return
}
