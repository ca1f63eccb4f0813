package cpu

import (
	"encoding/binary"
	"io"
)

// Memory is the flat word-addressed store shared by code and data.
type Memory [MEMORY_SIZE]Word

// Load replaces the memory contents with a little-endian word image,
// starting at address 0. Cells past the end of the image are zeroed.
// The image must have an even length, and must fit in memory; otherwise
// memory is left untouched.
func (mem *Memory) Load(image []byte) (err error) {
	if len(image)%2 != 0 {
		err = ErrImageOdd
		return
	}
	if len(image)/2 > len(mem) {
		err = ErrImageSize
		return
	}

	clear(mem[:])
	for n := range len(image) / 2 {
		mem[n] = Word(binary.LittleEndian.Uint16(image[n*2:]))
	}

	return
}

// LoadFrom loads an image from a stream.
func (mem *Memory) LoadFrom(r io.Reader) (err error) {
	image, err := io.ReadAll(io.LimitReader(r, MEMORY_SIZE*2+1))
	if err != nil {
		return
	}

	return mem.Load(image)
}

// Image returns the little-endian memory image, without trailing zero words.
func (mem *Memory) Image() (image []byte) {
	last := len(mem)
	for last > 0 && mem[last-1] == 0 {
		last--
	}

	image = make([]byte, 0, last*2)
	for _, word := range mem[:last] {
		image = binary.LittleEndian.AppendUint16(image, uint16(word))
	}

	return
}

// Read returns the word at addr.
func (mem *Memory) Read(addr Word) (value Word, err error) {
	if int(addr) >= len(mem) {
		err = ErrAddress(addr)
		return
	}

	value = mem[addr]
	return
}

// Write stores value at addr.
func (mem *Memory) Write(addr Word, value Word) (err error) {
	if int(addr) >= len(mem) {
		err = ErrAddress(addr)
		return
	}

	mem[addr] = value
	return
}
