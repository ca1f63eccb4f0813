package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.True(s.Empty())

	s.Push(0x1234)
	assert.False(s.Empty())
	assert.Equal(1, s.Len())
	assert.Equal(Word(0x1234), s.Data[0])
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x1234)
	s.Push(0x7f01)

	val, ok := s.Pop()
	assert.True(ok)
	assert.Equal(Word(0x7f01), val)
	assert.Equal(1, s.Len())

	val, ok = s.Pop()
	assert.True(ok)
	assert.Equal(Word(0x1234), val)
	assert.Equal(0, s.Len())
}

func TestStack_Pop_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	val, ok := s.Pop()
	assert.False(ok)
	assert.Equal(Word(0), val)
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x1234)
	s.Push(0x7f01)

	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal(Word(0x7f01), val)
	assert.Equal(2, s.Len())
}

func TestStack_Peek_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	val, ok := s.Peek()
	assert.False(ok)
	assert.Equal(Word(0), val)
}

func TestStack_Reset(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x1234)
	s.Push(0x7f01)
	assert.Equal(2, s.Len())

	s.Reset()
	assert.True(s.Empty())
	assert.Equal(0, s.Len())
}

func TestStack_Growth(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}

	for i := range 4096 {
		s.Push(Word(i))
	}
	assert.Equal(4096, s.Len())

	for i := 4095; i >= 0; i-- {
		val, ok := s.Pop()
		assert.True(ok)
		assert.Equal(Word(i), val)
	}
	assert.True(s.Empty())
}
