package io

import (
	"bytes"
	"io"
	"unicode/utf8"
)

// Console is the output sink. Every emitted character is appended to the
// collected output and immediately echoed to Output, if set.
type Console struct {
	Output io.Writer // Echo target for emitted characters.

	data []byte
}

var _ Sink = (*Console)(nil)

// Emit appends a character to the collected output, and echoes it.
func (con *Console) Emit(char rune) (err error) {
	start := len(con.data)
	con.data = utf8.AppendRune(con.data, char)

	if con.Output != nil {
		_, err = con.Output.Write(con.data[start:])
	}

	return
}

// Bytes returns the output collected since the last Rewind.
func (con *Console) Bytes() []byte {
	return con.data
}

// String returns the output collected since the last Rewind.
func (con *Console) String() string {
	return string(con.data)
}

// Contains reports whether the collected output contains text.
func (con *Console) Contains(text string) bool {
	return bytes.Contains(con.data, []byte(text))
}

// Rewind discards the collected output.
func (con *Console) Rewind() {
	con.data = con.data[:0]
}
