// Package io provides number devices that bridge the machine's INP/OUT
// boundary to byte streams for batch execution. A Tape reads and writes
// whitespace-separated decimal values over an io.Reader/io.Writer pair;
// a Buffer is an in-memory FIFO used by tests and interactive hosts.
package io

// Source supplies input values to the machine.
type Source interface {
	// ReadNumber returns the next input value, or io.EOF when the
	// source is exhausted.
	ReadNumber() (int64, error)
}

// Sink consumes output values from the machine.
type Sink interface {
	// WriteNumber records a single output value.
	WriteNumber(value int64) error
}
