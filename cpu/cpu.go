package cpu

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/synvm/io"
)

// Sink is the character output channel.
type Sink io.Sink

// Source is the character input channel.
type Source io.Source

// InputHook observes each byte taken by the in instruction before it is
// stored. It may modify the machine. If it returns true, the byte is
// discarded and the next byte is taken instead.
type InputHook func(cpu *Cpu, char byte) (consume bool)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("%d", MEMORY_SIZE),
	"REGISTER_BASE":  fmt.Sprintf("%d", REGISTER_BASE),
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
	"WORD_MASK":      fmt.Sprintf("0x%x", WORD_MASK),
}

// Cpu is the complete state of one virtual machine.
type Cpu struct {
	Verbose bool               // Set to trace every instruction, at logrus Debug level.
	Log     logrus.FieldLogger // Trace destination. Defaults to the logrus standard logger, whose level must then allow Debug.

	Ip       Word                 // Address of the next instruction.
	Register [REGISTER_COUNT]Word // Register bank.
	Stack    Stack                // Data and return address stack.
	Memory   Memory               // Code and data.

	Output    Sink      // Destination of the out instruction.
	Input     Source    // Source of the in instruction.
	InputHook InputHook // Optional observer of input bytes.

	Ticks int // Instructions completed since reset.
}

// NewCpu creates a new machine attached to the given channels.
func NewCpu(output Sink, input Source) (cpu *Cpu) {
	cpu = &Cpu{
		Output: output,
		Input:  input,
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

func (cpu *Cpu) logger() logrus.FieldLogger {
	if cpu.Log == nil {
		return logrus.StandardLogger()
	}
	return cpu.Log
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	var lines []string

	lines = append(lines, fmt.Sprintf("% 5s: %04x", "ip", uint16(cpu.Ip)))
	for n, val := range cpu.Register {
		lines = append(lines, fmt.Sprintf("% 5s: %04x", fmt.Sprintf("r%d", n), uint16(val)))
	}

	top := "----"
	val, ok := cpu.Stack.Peek()
	if ok {
		top = fmt.Sprintf("%04x", uint16(val))
	}
	lines = append(lines, fmt.Sprintf("% 5s: %v (%d)", "stack", top, cpu.Stack.Len()))

	return strings.Join(lines, "\n") + "\n"
}

// Reset the CPU state.
// - Clears the registers, stack, and memory.
// - Zeros the instruction pointer and tick counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		cpu.logger().Debug("cpu: reset")
	}

	clear(cpu.Register[:])
	clear(cpu.Memory[:])
	cpu.Stack.Reset()
	cpu.Ip = 0
	cpu.Ticks = 0
}

// Load resets the CPU, and loads a program image at address 0.
func (cpu *Cpu) Load(image []byte) (err error) {
	cpu.Reset()

	return cpu.Memory.Load(image)
}

// Fetch decodes the instruction at the instruction pointer.
func (cpu *Cpu) Fetch() (inst Instruction, next Word, err error) {
	return Decode(&cpu.Memory, cpu.Ip)
}

// Tick executes a single instruction. On a graceful halt the instruction
// pointer is left on the halting instruction, so that a later Tick
// re-executes it; an in instruction waiting for input resumes this way.
func (cpu *Cpu) Tick() (halt Halt, err error) {
	ip := cpu.Ip

	inst, next, err := cpu.Fetch()
	if err == nil {
		if cpu.Verbose {
			cpu.logger().WithFields(logrus.Fields{
				"ip": fmt.Sprintf("%04x", uint16(ip)),
				"op": inst.Op.String(),
			}).Debugf("[%06x] %v", uint16(ip), inst)
		}
		next, halt, err = cpu.Execute(inst, next)
	}
	if err != nil {
		err = &ErrFault{Ip: ip, Op: inst.Op, Err: err}
		return
	}

	// An in waiting for input, or a ret with nothing to return to,
	// did not execute.
	if halt == HALT_NONE || halt == HALT_OPCODE {
		cpu.Ticks++
	}

	if halt != HALT_NONE {
		if cpu.Verbose {
			cpu.logger().Debugf("cpu: %v at %04x", halt, uint16(ip))
		}
		return
	}

	cpu.Ip = next

	return
}

// Execute executes a single decoded instruction, and returns the address of
// the next instruction. next is the address following the instruction.
func (cpu *Cpu) Execute(inst Instruction, next Word) (ip Word, halt Halt, err error) {
	ip = next

	var dst int
	var vals [3]Word
	for n, arg := range inst.Operands() {
		if n == 0 && inst.Op.Writes() {
			dst, err = cpu.Target(arg)
		} else {
			vals[n], err = cpu.Resolve(arg)
		}
		if err != nil {
			err = ErrOperand{Index: n, Value: arg, Err: err}
			return
		}
	}

	a, b, c := vals[0], vals[1], vals[2]
	set := func(value Word) { cpu.Register[dst] = value }
	flag := func(cond bool) Word {
		if cond {
			return 1
		}
		return 0
	}

	switch inst.Op {
	case OP_HALT:
		halt = HALT_OPCODE
	case OP_SET:
		set(b)
	case OP_PUSH:
		cpu.Stack.Push(a)
	case OP_POP:
		value, ok := cpu.Stack.Pop()
		if !ok {
			err = ErrStackEmpty
			return
		}
		set(value)
	case OP_EQ:
		set(flag(b == c))
	case OP_GT:
		set(flag(b > c))
	case OP_JMP:
		ip = a
	case OP_JT:
		if a != 0 {
			ip = b
		}
	case OP_JF:
		if a == 0 {
			ip = b
		}
	case OP_ADD:
		set(Add(b, c))
	case OP_MUL:
		set(Mul(b, c))
	case OP_MOD:
		var value Word
		value, err = Mod(b, c)
		if err != nil {
			return
		}
		set(value)
	case OP_AND:
		set(And(b, c))
	case OP_OR:
		set(Or(b, c))
	case OP_NOT:
		set(Not(b))
	case OP_RMEM:
		var value Word
		value, err = cpu.Memory.Read(b)
		if err != nil {
			return
		}
		set(value)
	case OP_WMEM:
		err = cpu.Memory.Write(a, b)
	case OP_CALL:
		cpu.Stack.Push(next)
		ip = a
	case OP_RET:
		value, ok := cpu.Stack.Pop()
		if !ok {
			halt = HALT_RETURN
			return
		}
		ip = value
	case OP_OUT:
		if cpu.Output != nil {
			err = cpu.Output.Emit(rune(a))
		}
	case OP_IN:
		var char byte
		char, err = cpu.readChar()
		if errors.Is(err, io.ErrInputEmpty) {
			err = nil
			halt = HALT_INPUT
			return
		}
		if err != nil {
			return
		}
		set(Word(char))
	case OP_NOOP:
		// pass
	default:
		err = ErrUnknownOpcode
	}

	return
}

// readChar takes the next input byte, offering each to the input hook.
func (cpu *Cpu) readChar() (char byte, err error) {
	if cpu.Input == nil {
		err = io.ErrInputEmpty
		return
	}

	for {
		char, err = cpu.Input.Next()
		if err != nil {
			return
		}
		if cpu.InputHook == nil || !cpu.InputHook(cpu, char) {
			return
		}
	}
}
