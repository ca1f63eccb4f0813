package io

import (
	"bufio"
	"errors"
	"io"

	"github.com/peterh/liner"
)

// LineReader supplies one line of text at a time, terminator included.
type LineReader interface {
	// ReadLine returns the next line, or io.EOF when there are no more.
	ReadLine() (line string, err error)
}

// Lines reads lines from a stream.
type Lines struct {
	reader *bufio.Reader
}

var _ LineReader = (*Lines)(nil)

// NewLines creates a line reader over a stream.
func NewLines(r io.Reader) *Lines {
	return &Lines{reader: bufio.NewReader(r)}
}

// ReadLine returns the next line. A final line without a terminator is
// returned with one added.
func (lr *Lines) ReadLine() (line string, err error) {
	line, err = lr.reader.ReadString(NEWLINE)
	if errors.Is(err, io.EOF) && len(line) > 0 {
		line += string(NEWLINE)
		err = nil
	}
	return
}

// Liner reads lines from the terminal with editing and history.
type Liner struct {
	Prompt string // Prompt shown before each line.

	state *liner.State
}

var _ LineReader = (*Liner)(nil)

// NewLiner takes control of the terminal. Close must be called to restore it.
func NewLiner(prompt string) (ln *Liner) {
	ln = &Liner{
		Prompt: prompt,
		state:  liner.NewLiner(),
	}
	ln.state.SetCtrlCAborts(true)

	return
}

// ReadLine prompts for the next line. Interrupt and end of file both
// report io.EOF.
func (ln *Liner) ReadLine() (line string, err error) {
	line, err = ln.state.Prompt(ln.Prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		err = io.EOF
	}
	if err != nil {
		return
	}

	if len(line) > 0 {
		ln.state.AppendHistory(line)
	}
	line += string(NEWLINE)

	return
}

// Close restores the terminal.
func (ln *Liner) Close() error {
	return ln.state.Close()
}
