package io

import (
	"errors"
	"io"
)

// Keyboard is the input queue. When the queue is empty and the keyboard is
// interactive, a full line is read from Lines and queued, terminator
// included. A scripted (non-interactive) keyboard reports ErrInputEmpty
// instead of blocking.
type Keyboard struct {
	Interactive bool       // If set, block on Lines when the queue is empty.
	Lines       LineReader // Source of lines in interactive mode.

	pending []byte
}

var _ Source = (*Keyboard)(nil)

// Next pops the next pending byte, refilling the queue if interactive.
func (kb *Keyboard) Next() (char byte, err error) {
	for len(kb.pending) == 0 {
		if !kb.Interactive || kb.Lines == nil {
			err = ErrInputEmpty
			return
		}

		var line string
		line, err = kb.Lines.ReadLine()
		if errors.Is(err, io.EOF) {
			err = ErrInputEmpty
			return
		}
		if err != nil {
			return
		}

		kb.pending = append(kb.pending, line...)
	}

	char = kb.pending[0]
	kb.pending = kb.pending[1:]

	return
}

// Enqueue appends raw bytes to the input queue.
func (kb *Keyboard) Enqueue(data []byte) {
	kb.pending = append(kb.pending, data...)
}

// Send queues a command line, adding the terminator if it is missing.
func (kb *Keyboard) Send(line string) {
	kb.Enqueue([]byte(line))
	if len(line) == 0 || line[len(line)-1] != NEWLINE {
		kb.Enqueue([]byte{NEWLINE})
	}
}

// Pending returns the number of queued bytes.
func (kb *Keyboard) Pending() int {
	return len(kb.pending)
}

// Rewind discards all queued input.
func (kb *Keyboard) Rewind() {
	kb.pending = nil
}
