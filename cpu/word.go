package cpu

// Word is the machine's 16-bit unit of memory, registers, and the stack.
type Word uint16

const (
	MEMORY_SIZE    = 32768  // Number of addressable memory words.
	REGISTER_BASE  = 32768  // Operand value naming register 0.
	REGISTER_COUNT = 8      // Number of general purpose registers.
	WORD_LIMIT     = 32776  // First invalid operand value.
	WORD_MODULO    = 32768  // Modulus of add and mul results.
	WORD_MASK      = 0x7fff // Mask of the 15 significant bits of a value.
)

// IsLiteral returns true if the word denotes itself as an operand.
func (w Word) IsLiteral() bool {
	return w < REGISTER_BASE
}

// IsRegister returns true if the word names a register as an operand.
func (w Word) IsRegister() bool {
	return w >= REGISTER_BASE && w < WORD_LIMIT
}

// Valid returns true if the word is usable as an operand.
func (w Word) Valid() bool {
	return w < WORD_LIMIT
}

// Resolve returns the value of an operand: literals are passed through,
// register references read the register.
func (cpu *Cpu) Resolve(arg Word) (value Word, err error) {
	switch {
	case arg.IsLiteral():
		value = arg
	case arg.IsRegister():
		value = cpu.Register[arg-REGISTER_BASE]
	default:
		err = ErrInvalidOperand
	}
	return
}

// Target returns the register index of a destination operand.
func (cpu *Cpu) Target(arg Word) (index int, err error) {
	switch {
	case arg.IsRegister():
		index = int(arg - REGISTER_BASE)
	case arg.IsLiteral():
		err = ErrLiteralTarget
	default:
		err = ErrInvalidOperand
	}
	return
}

// Add returns a+b modulo 32768.
func Add(a, b Word) Word {
	return Word((uint32(a) + uint32(b)) % WORD_MODULO)
}

// Mul returns a*b modulo 32768.
func Mul(a, b Word) Word {
	return Word((uint32(a) * uint32(b)) % WORD_MODULO)
}

// Mod returns the remainder of a divided by b.
func Mod(a, b Word) (value Word, err error) {
	if b == 0 {
		err = ErrDivideByZero
		return
	}
	value = a % b
	return
}

// And returns the bitwise and of a and b.
func And(a, b Word) Word {
	return a & b
}

// Or returns the bitwise or of a and b.
func Or(a, b Word) Word {
	return a | b
}

// Not returns the 15-bit bitwise inverse of v.
func Not(v Word) Word {
	return ^v & WORD_MASK
}
