package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzExecute(f *testing.F) {
	for op := range 23 {
		f.Add(uint16(op), uint16(0x8000), uint16(0x8001), uint16(7),
			uint16(OP_OUT), uint16('x'), uint16(OP_JMP), uint16(0), "ab")
		f.Add(uint16(op), uint16(3), uint16(0x7fff), uint16(0xffff),
			uint16(OP_RET), uint16(OP_IN), uint16(0x8007), uint16(OP_HALT), "")
	}

	f.Fuzz(func(t *testing.T, w0, w1, w2, w3, w4, w5, w6, w7 uint16, input string) {
		assert := assert.New(t)

		cpu, _, _ := newTestCpu([]Word{
			Word(w0), Word(w1), Word(w2), Word(w3),
			Word(w4), Word(w5), Word(w6), Word(w7),
		}, input)

		for range 64 {
			ip := cpu.Ip
			ticks := cpu.Ticks

			halt, err := cpu.Tick()
			if err != nil {
				var fault *ErrFault
				if assert.True(errors.As(err, &fault)) {
					assert.Equal(ip, fault.Ip)
				}
				assert.Equal(ip, cpu.Ip)
				assert.Equal(ticks, cpu.Ticks)
				return
			}

			if halt != HALT_NONE {
				// Halts leave the instruction pointer on the instruction.
				assert.Equal(ip, cpu.Ip)
				return
			}

			assert.Equal(ticks+1, cpu.Ticks)
		}
	})
}
