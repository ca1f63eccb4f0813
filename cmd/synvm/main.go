// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/synvm/cpu"
	"github.com/ezrec/synvm/emulator"
	"github.com/ezrec/synvm/io"
)

// parseRange parses a 'start:count' disassembly range.
func parseRange(text string) (start cpu.Word, count int, err error) {
	first, second, found := strings.Cut(text, ":")

	value, err := strconv.ParseUint(first, 0, 16)
	if err != nil {
		return
	}
	start = cpu.Word(value)

	count = cpu.MEMORY_SIZE
	if found {
		value, err = strconv.ParseUint(second, 0, 16)
		if err != nil {
			return
		}
		count = int(value)
	}

	return
}

// loadImage reads a program image file, trimmed of trailing zero words.
func loadImage(path string) (image []byte, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	var mem cpu.Memory
	err = mem.LoadFrom(inf)
	if err != nil {
		return
	}

	image = mem.Image()
	return
}

// saveImage writes the memory image to path, or to stdout for '-'.
func saveImage(path string, mem *cpu.Memory) (err error) {
	image := mem.Image()
	if path == "-" {
		_, err = os.Stdout.Write(image)
		return
	}

	return os.WriteFile(path, image, 0o644)
}

func main() {
	var binary string
	var compile string
	var save bool
	var output string
	var interactive bool
	var scripted bool
	var script string
	var disasm string
	var verbose bool

	flag.StringVar(&binary, "b", "", "program image to run")
	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.BoolVar(&save, "s", false, "Save program image to output, do not execute")
	flag.StringVar(&output, "o", "-", "Program image output")
	flag.BoolVar(&interactive, "i", false, "Force interactive input")
	flag.BoolVar(&scripted, "n", false, "Force scripted input")
	flag.StringVar(&script, "script", "", "Command script to run before interactive input")
	flag.StringVar(&disasm, "d", "", "Disassemble 'start:count' words, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if interactive && scripted {
		log.Fatalf("%v: -i and -n are exclusive", os.Args[0])
	}

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if !interactive && !scripted {
		interactive = io.IsTerminal(os.Stdin.Fd())
	}

	emu := emulator.NewEmulator(interactive)
	emu.Verbose = verbose
	emu.Console.Output = os.Stdout

	name := binary

	switch {
	case len(compile) != 0:
		// Compile a new instruction stream.
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		prog, err := asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		err = emu.LoadProgram(prog)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		name = compile
	case len(binary) != 0:
		image, err := loadImage(binary)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}

		err = emu.Load(image)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
	default:
		log.Fatalf("%v: one of -b or -c is required", os.Args[0])
	}

	if len(disasm) != 0 {
		start, count, err := parseRange(disasm)
		if err != nil {
			log.Fatalf("%v: -d %v: %v", os.Args[0], disasm, err)
		}

		err = cpu.Listing(os.Stdout, &emu.Cpu.Memory, start, count)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}
		return
	}

	if save {
		err := saveImage(output, &emu.Cpu.Memory)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	var liner *io.Liner
	if interactive {
		if io.IsTerminal(os.Stdin.Fd()) {
			liner = io.NewLiner("")
			defer liner.Close()
			emu.Keyboard.Lines = liner
		} else {
			emu.Keyboard.Lines = io.NewLines(os.Stdin)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fatal := func(err error) {
		if verbose {
			log.Print(emu.Cpu.String())
		}
		if liner != nil {
			liner.Close()
		}
		log.Fatalf("%v: %v", name, err)
	}

	// Scripted turns run first, without blocking on input.
	emu.Keyboard.Interactive = false
	_, err := emu.Run(ctx)
	if err != nil {
		fatal(err)
	}

	if len(script) != 0 {
		inf, err := os.Open(script)
		if err != nil {
			log.Fatalf("%v: %v", script, err)
		}
		defer inf.Close()

		err = emu.RunScript(ctx, inf, nil)
		if err != nil {
			fatal(err)
		}
	} else if !interactive {
		_, err = emu.Feed(ctx, os.Stdin)
		if err != nil {
			fatal(err)
		}
	}

	if interactive && emu.Halt == cpu.HALT_INPUT {
		emu.Keyboard.Interactive = true
		_, err = emu.Run(ctx)
		if err != nil {
			fatal(err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"halt":  emu.Halt.String(),
		"ticks": emu.Cpu.Ticks,
	}).Debug("synvm: stopped")
}
