package cpu

import (
	"encoding/binary"
	"iter"
)

// Program is an assembled program listing.
type Program struct {
	Opcodes []Opcode
}

// Opcode represents a line of assembled code with its source location and generated words.
type Opcode struct {
	LineNo int            // Source line number.
	Ip     int            // Address of the first word.
	Words  []string       // Source words of the line.
	Codes  []Word         // Generated memory words.
	Links  map[int]string // Code index to label, resolved at link time.
}

type Debug struct {
	*Opcode
	Index int
}

// Debug returns the listing line that generated the word at ip.
func (prog *Program) Debug(ip Word) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(ip) >= op.Ip && int(ip) < op.Ip+len(op.Codes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(ip) - op.Ip,
			}
			break
		}
	}

	return
}

// Codes iterates over every generated word and its address.
func (prog *Program) Codes() iter.Seq2[Word, Word] {
	return func(yield func(ip Word, code Word) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(Word(op.Ip+n), code) {
					return
				}
			}
		}
	}
}

// Words returns the memory image of the program as words.
func (prog *Program) Words() (words []Word) {
	for ip, code := range prog.Codes() {
		for len(words) <= int(ip) {
			words = append(words, 0)
		}
		words[ip] = code
	}

	return
}

// Binary returns the little-endian program image.
func (prog *Program) Binary() (bins []byte) {
	words := prog.Words()
	bins = make([]byte, 0, len(words)*2)
	for _, word := range words {
		bins = binary.LittleEndian.AppendUint16(bins, uint16(word))
	}

	return
}
