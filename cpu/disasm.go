package cpu

import (
	"fmt"
	"io"
	"iter"
)

// Disassemble decodes count instructions starting at start, without
// executing them. Words that do not decode are yielded as OP_DATA.
// Decoding stops early at the end of memory.
func Disassemble(mem *Memory, start Word, count int) iter.Seq2[Word, Instruction] {
	return func(yield func(ip Word, inst Instruction) bool) {
		ip := start
		for range count {
			if int(ip) >= len(mem) {
				return
			}

			inst, _, err := Decode(mem, ip)
			if err != nil {
				// Opcode valid, but operands run off the end of memory;
				// or opcode invalid. Either way, show the word as data.
				inst = Instruction{Op: OP_DATA, Args: [3]Word{mem[ip]}}
			}

			if !yield(ip, inst) {
				return
			}
			ip += Word(inst.Size())
		}
	}
}

// Listing writes the disassembly of count instructions starting at start.
func Listing(w io.Writer, mem *Memory, start Word, count int) (err error) {
	for ip, inst := range Disassemble(mem, start, count) {
		_, err = fmt.Fprintf(w, "[%06x] %v\n", uint16(ip), inst)
		if err != nil {
			return
		}
	}

	return
}
