// Package cpu implements the virtual machine and assembler for the synvm system.
//
// The machine has a flat memory of 32768 16-bit words holding both code and
// data, eight general-purpose registers (r0-r7), an unbounded stack, and
// character input and output channels. Each instruction is an opcode word
// followed by zero to three operand words; operands 0-32767 are literals and
// 32768-32775 name the registers.
//
// The assembler provides a small assembly language for the instruction set,
// supporting macros, labels, equates, and compile-time expression evaluation.
package cpu
