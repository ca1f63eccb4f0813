package cpu

import (
	"errors"

	"github.com/ezrec/synvm/translate"
)

var f = translate.From

var (
	// Machine faults
	ErrUnknownOpcode  = errors.New(f("unknown opcode"))
	ErrInvalidOperand = errors.New(f("invalid operand"))
	ErrLiteralTarget  = errors.New(f("literal destination"))
	ErrAddressRange   = errors.New(f("address out of range"))
	ErrStackEmpty     = errors.New(f("stack empty"))
	ErrDivideByZero   = errors.New(f("divide by zero"))

	// Image load errors
	ErrImageOdd  = errors.New(f("image has an odd number of bytes"))
	ErrImageSize = errors.New(f("image larger than memory"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrStringSyntax       = errors.New(f(".string syntax"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrTargetInvalid      = errors.New(f("target invalid"))
	ErrValueRange         = errors.New(f("value out of range"))
)

// ErrOpcode reports an undecodable opcode word.
type ErrOpcode Word

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x", uint16(eo))
}

func (eo ErrOpcode) Unwrap() error {
	return ErrUnknownOpcode
}

// ErrFault is a fatal machine fault, located at the faulting instruction.
type ErrFault struct {
	Ip  Word // Address of the faulting instruction.
	Op  Op   // Opcode of the faulting instruction, if it decoded.
	Err error
}

func (err *ErrFault) Error() string {
	if err.Op.Valid() {
		return f("fault at 0x%04x (%v): %v", uint16(err.Ip), err.Op.String(), err.Err)
	}
	return f("fault at 0x%04x: %v", uint16(err.Ip), err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

// ErrOperand reports a bad operand value, and which operand held it.
type ErrOperand struct {
	Index int
	Value Word
	Err   error
}

func (err ErrOperand) Error() string {
	return f("arg%d 0x%04x: %v", err.Index+1, uint16(err.Value), err.Err)
}

func (err ErrOperand) Unwrap() error {
	return err.Err
}

// ErrAddress reports the address of an out of range memory access.
type ErrAddress Word

func (ea ErrAddress) Error() string {
	return f("address 0x%04x out of range", uint16(ea))
}

func (ea ErrAddress) Unwrap() error {
	return ErrAddressRange
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a value or register", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
