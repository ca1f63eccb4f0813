// Package io provides the character streams of the synvm machine.
// It includes the output sink (Console), which collects and echoes every
// emitted character, and the input queue (Keyboard), which is refilled one
// line at a time from a LineReader when the machine is interactive.
package io

import (
	"iter"
	"maps"
)

// NEWLINE terminates every line delivered to the input queue.
const NEWLINE = '\n'

// Sink receives the characters emitted by the out instruction.
type Sink interface {
	// Emit appends a single character to the output.
	Emit(char rune) error
}

// Source supplies the characters read by the in instruction.
type Source interface {
	// Next returns the next pending input byte, or ErrInputEmpty
	// when no input is available.
	Next() (char byte, err error)
}

var _io_defines = map[string]string{
	"NEWLINE": "10",
}

// Defines returns an iter of defines for the streams.
func Defines() iter.Seq2[string, string] {
	return maps.All(_io_defines)
}
