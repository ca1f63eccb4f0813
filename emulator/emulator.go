// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	goio "io"
	"iter"
	"maps"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/synvm/cpu"
	"github.com/ezrec/synvm/internal"
	"github.com/ezrec/synvm/io"
)

const (
	SCRIPT_COMMENT = "//" // Prefix of a comment line in a command script.
)

var _emulator_defines = map[string]string{
	"PROGRAM_BASE": "0",
}

// Emulator state. CPU + console + keyboard.
type Emulator struct {
	Verbose  bool         // If set, traces at Debug level to the Cpu logger.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.

	Console  io.Console  // Output sink.
	Keyboard io.Keyboard // Input queue.

	Halt cpu.Halt // Reason the last run stopped.

	image []byte // Image restored by Reset.
}

// NewEmulator creates a new emulator.
// An interactive emulator blocks on the keyboard line reader when it
// runs out of input; a scripted one halts with HALT_INPUT instead.
func NewEmulator(interactive bool) (emu *Emulator) {
	emu = &Emulator{
		Program: &cpu.Program{},
	}

	emu.Keyboard.Interactive = interactive
	emu.Cpu = cpu.NewCpu(&emu.Console, &emu.Keyboard)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		io.Defines(),
	)
}

// Load a raw program image, and reset the emulator to run it.
func (emu *Emulator) Load(image []byte) (err error) {
	var mem cpu.Memory
	err = mem.Load(image)
	if err != nil {
		return
	}

	emu.image = image
	emu.Program = &cpu.Program{}

	emu.Reset()

	return
}

// LoadProgram loads an assembled program, and resets the emulator to run it.
func (emu *Emulator) LoadProgram(prog *cpu.Program) (err error) {
	err = emu.Load(prog.Binary())
	if err != nil {
		return
	}

	emu.Program = prog

	return
}

// Reset the emulator state.
// Memory is restored from the last loaded image, and all pending
// input and collected output are discarded.
func (emu *Emulator) Reset() {
	emu.setVerbose()

	// The image was validated when loaded.
	_ = emu.Cpu.Load(emu.image)

	emu.Console.Rewind()
	emu.Keyboard.Rewind()
	emu.Halt = cpu.HALT_NONE
}

// logger returns the Cpu logger, creating one at Debug level if unset.
func (emu *Emulator) logger() logrus.FieldLogger {
	if emu.Cpu.Log == nil {
		log := logrus.New()
		log.SetLevel(logrus.DebugLevel)
		emu.Cpu.Log = log
	}
	return emu.Cpu.Log
}

// setVerbose propagates the verbosity to the Cpu.
func (emu *Emulator) setVerbose() {
	emu.Cpu.Verbose = emu.Verbose
	if emu.Verbose {
		emu.logger()
	}
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Ip)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
// done is set when the machine has halted gracefully.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.setVerbose()

	ip := emu.Cpu.Ip
	defer func() {
		if err != nil {
			lineno := 0
			dbg := emu.Program.Debug(ip)
			if dbg.Opcode != nil {
				lineno = dbg.LineNo
			}
			err = &ErrRuntime{Ip: ip, LineNo: lineno, Err: err}
		}
	}()

	halt, err := emu.Cpu.Tick()
	if err != nil {
		return
	}

	emu.Halt = halt
	done = halt != cpu.HALT_NONE

	return
}

// Run ticks the machine until it halts, faults, or the context is done.
// The context is checked between instructions only.
func (emu *Emulator) Run(ctx context.Context) (halt cpu.Halt, err error) {
	emu.Halt = cpu.HALT_NONE

	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		var done bool
		done, err = emu.Tick()
		if err != nil {
			return
		}
		if done {
			break
		}
	}

	halt = emu.Halt

	if emu.Verbose {
		emu.logger().WithFields(logrus.Fields{
			"halt":  halt.String(),
			"ticks": emu.Cpu.Ticks,
		}).Debug("emulator: stopped")
	}

	return
}

// Send queues a command line for the machine to read.
func (emu *Emulator) Send(command string) {
	emu.Keyboard.Send(command)
}

// Output returns the output collected since the last ClearOutput.
func (emu *Emulator) Output() string {
	return emu.Console.String()
}

// ClearOutput discards the collected output.
func (emu *Emulator) ClearOutput() {
	emu.Console.Rewind()
}

// Patch writes words into memory, starting at addr.
// It may only be used between runs.
func (emu *Emulator) Patch(addr cpu.Word, words ...cpu.Word) (err error) {
	for n, word := range words {
		err = emu.Cpu.Memory.Write(addr+cpu.Word(n), word)
		if err != nil {
			return
		}
	}

	return
}

// Turn sends one command, runs until the machine stops, and returns the
// output the command produced. An empty command only resumes the machine.
func (emu *Emulator) Turn(ctx context.Context, command string) (output string, err error) {
	emu.ClearOutput()
	if len(command) != 0 {
		emu.Send(command)
	}

	_, err = emu.Run(ctx)
	output = emu.Output()

	return
}

// RunScript performs one turn for every command line in r.
// Blank lines and lines starting with '//' are skipped. each, if set, is
// called with the command and its output after every turn. The script
// stops early when the machine halts for any reason other than input.
func (emu *Emulator) RunScript(ctx context.Context, r goio.Reader, each func(command, output string) error) (err error) {
	lines := io.NewLines(r)

	for {
		var line string
		line, err = lines.ReadLine()
		if err != nil {
			if errors.Is(err, goio.EOF) {
				err = nil
			}
			return
		}

		command := strings.TrimSpace(line)
		if len(command) == 0 || strings.HasPrefix(command, SCRIPT_COMMENT) {
			continue
		}

		var output string
		output, err = emu.Turn(ctx, command)
		if err != nil {
			return
		}

		if each != nil {
			err = each(command, output)
			if err != nil {
				return
			}
		}

		if emu.Halt != cpu.HALT_INPUT {
			return
		}
	}
}

// Feed queues everything in r as input, unchanged, and runs the machine.
func (emu *Emulator) Feed(ctx context.Context, r goio.Reader) (halt cpu.Halt, err error) {
	data, err := goio.ReadAll(r)
	if err != nil {
		return
	}

	emu.Keyboard.Enqueue(data)

	return emu.Run(ctx)
}
