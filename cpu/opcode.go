package cpu

import (
	"fmt"
	"strings"
)

// Op is an instruction opcode.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_HALT = Op(0)  // halt
	OP_SET  = Op(1)  // set
	OP_PUSH = Op(2)  // push
	OP_POP  = Op(3)  // pop
	OP_EQ   = Op(4)  // eq
	OP_GT   = Op(5)  // gt
	OP_JMP  = Op(6)  // jmp
	OP_JT   = Op(7)  // jt
	OP_JF   = Op(8)  // jf
	OP_ADD  = Op(9)  // add
	OP_MUL  = Op(10) // mul
	OP_MOD  = Op(11) // mod
	OP_AND  = Op(12) // and
	OP_OR   = Op(13) // or
	OP_NOT  = Op(14) // not
	OP_RMEM = Op(15) // rmem
	OP_WMEM = Op(16) // wmem
	OP_CALL = Op(17) // call
	OP_RET  = Op(18) // ret
	OP_OUT  = Op(19) // out
	OP_IN   = Op(20) // in
	OP_NOOP = Op(21) // noop
	OP_DATA = Op(22) // .word
)

// Halt is the reason the machine stopped gracefully.
type Halt int

//go:generate go tool stringer -linecomment -type=Halt
const (
	HALT_NONE   = Halt(0) // running
	HALT_OPCODE = Halt(1) // halt
	HALT_RETURN = Halt(2) // return
	HALT_INPUT  = Halt(3) // input
)

// opArity is the number of operand words following each opcode.
var opArity = [...]int{
	OP_HALT: 0,
	OP_SET:  2,
	OP_PUSH: 1,
	OP_POP:  1,
	OP_EQ:   3,
	OP_GT:   3,
	OP_JMP:  1,
	OP_JT:   2,
	OP_JF:   2,
	OP_ADD:  3,
	OP_MUL:  3,
	OP_MOD:  3,
	OP_AND:  3,
	OP_OR:   3,
	OP_NOT:  2,
	OP_RMEM: 2,
	OP_WMEM: 2,
	OP_CALL: 1,
	OP_RET:  0,
	OP_OUT:  1,
	OP_IN:   1,
	OP_NOOP: 0,
	OP_DATA: 1,
}

// Valid returns true for the 22 executable opcodes.
func (op Op) Valid() bool {
	return op >= OP_HALT && op < OP_DATA
}

// Arity returns the number of operand words of the opcode.
func (op Op) Arity() int {
	if op < 0 || int(op) >= len(opArity) {
		return 0
	}
	return opArity[op]
}

// Writes returns true if the first operand is a register destination.
func (op Op) Writes() bool {
	switch op {
	case OP_SET, OP_POP, OP_EQ, OP_GT, OP_ADD, OP_MUL, OP_MOD,
		OP_AND, OP_OR, OP_NOT, OP_RMEM, OP_IN:
		return true
	}
	return false
}

// opNames maps mnemonics, and their aliases, to opcodes.
var opNames = map[string]Op{
	"mult": OP_MUL,
	"nop":  OP_NOOP,
}

func init() {
	for op := OP_HALT; op < OP_DATA; op++ {
		opNames[op.String()] = op
	}
}

// OpByName returns the opcode for a mnemonic.
func OpByName(name string) (op Op, ok bool) {
	op, ok = opNames[strings.ToLower(name)]
	return
}

// Instruction is a single decoded instruction.
type Instruction struct {
	Op   Op
	Args [3]Word
}

// Operands returns the operand words used by the instruction.
func (inst Instruction) Operands() []Word {
	return inst.Args[:inst.Op.Arity()]
}

// Size returns the number of memory words the instruction occupies.
func (inst Instruction) Size() int {
	if inst.Op == OP_DATA {
		return 1
	}
	return 1 + inst.Op.Arity()
}

// FormatArg renders an operand: literals in hex, registers as r1-r8.
func FormatArg(arg Word) string {
	switch {
	case arg.IsLiteral():
		return fmt.Sprintf("%x", uint16(arg))
	case arg.IsRegister():
		return fmt.Sprintf("r%d", arg-REGISTER_BASE+1)
	default:
		return fmt.Sprintf("?%x", uint16(arg))
	}
}

// String returns the disassembly of the instruction.
func (inst Instruction) String() string {
	if inst.Op == OP_DATA {
		return fmt.Sprintf(".word 0x%04x", uint16(inst.Args[0]))
	}

	words := []string{inst.Op.String()}
	for _, arg := range inst.Operands() {
		words = append(words, FormatArg(arg))
	}

	return strings.Join(words, " ")
}
