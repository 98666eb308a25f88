package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Tape provides sequential number I/O over byte streams. Input values are
// whitespace-separated decimal integers; each output value is written on
// its own line.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	scanner *bufio.Scanner
}

var _ Source = (*Tape)(nil)
var _ Sink = (*Tape)(nil)

// ReadNumber scans the next decimal value from the input stream.
// Returns io.EOF at end of input, or ErrTapeValue on a non-numeric token.
func (tp *Tape) ReadNumber() (value int64, err error) {
	if tp.Input == nil {
		err = io.EOF
		return
	}

	if tp.scanner == nil {
		tp.scanner = bufio.NewScanner(tp.Input)
		tp.scanner.Split(bufio.ScanWords)
	}

	if !tp.scanner.Scan() {
		err = tp.scanner.Err()
		if err == nil {
			err = io.EOF
		}
		return
	}

	word := tp.scanner.Text()
	value, err = strconv.ParseInt(word, 10, 64)
	if err != nil {
		err = ErrTapeValue(word)
		return
	}

	return
}

// WriteNumber writes a value to the output stream.
func (tp *Tape) WriteNumber(value int64) (err error) {
	if tp.Output == nil {
		return ErrTapeNoOutput
	}

	_, err = fmt.Fprintf(tp.Output, "%d\n", value)

	return
}
