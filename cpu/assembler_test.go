package cpu

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal(fmt.Sprintf("%d", MEMORY_SIZE), asm.Equate["MEMORY_SIZE"])
	assert.Equal(fmt.Sprintf("%d", REGISTER_BASE), asm.Equate["REGISTER_BASE"])
	assert.Equal(fmt.Sprintf("%d", REGISTER_COUNT), asm.Equate["REGISTER_COUNT"])
	assert.Equal("0x7fff", asm.Equate["WORD_MASK"])
}

func opEqual(t *testing.T, expected, opcodes []Opcode) {
	assert := assert.New(t)

	assert.Equal(len(expected), len(opcodes))
	if len(expected) == len(opcodes) {
		for n := range len(expected) {
			assert.Equal(expected[n], opcodes[n])
		}
	}
}

func assemble(t *testing.T, program []string) *Program {
	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	return prog
}

func TestAssemblerBasic(t *testing.T) {
	prog := assemble(t, []string{
		"start: set r0 5",
		"loop: add r0 r0 0x7fff ; decrement",
		"jt r0, loop",
		"HALT",
	})

	expected := []Opcode{
		{1, 0, []string{"set", "r0", "5"}, []Word{1, r0, 5}, nil},
		{2, 3, []string{"add", "r0", "r0", "0x7fff"}, []Word{9, r0, r0, 0x7fff}, nil},
		{3, 7, []string{"jt", "r0", "loop"}, []Word{7, r0, 3}, map[int]string{2: "loop"}},
		{4, 10, []string{"HALT"}, []Word{0}, nil},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerSeparators(t *testing.T) {
	table := [](struct {
		line  string
		words []string
	}){
		{"start: out 65", []string{"out", "65"}},
		{"start:\tout 65", []string{"out", "65"}},
		{"start:\tout\t65", []string{"out", "65"}},
		{"start:,out,65", []string{"out", "65"}},
		{"\tstart:  \t out 65", []string{"out", "65"}},
	}

	for _, entry := range table {
		prog := assemble(t, []string{entry.line, "\thalt", "\tjmp start"})

		expected := []Opcode{
			{1, 0, entry.words, []Word{19, 65}, nil},
			{2, 2, []string{"halt"}, []Word{0}, nil},
			{3, 3, []string{"jmp", "start"}, []Word{6, 0}, map[int]string{1: "start"}},
		}

		opEqual(t, expected, prog.Opcodes)
	}
}

func TestAssemblerAliases(t *testing.T) {
	prog := assemble(t, []string{
		"mult r1 r2 3",
		"nop",
	})

	expected := []Opcode{
		{1, 0, []string{"mult", "r1", "r2", "3"}, []Word{10, r1, r2, 3}, nil},
		{2, 4, []string{"nop"}, []Word{21}, nil},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerData(t *testing.T) {
	prog := assemble(t, []string{
		"out 'H'",
		`msg: .string "hi;\n" ; greeting`,
		"out ' '",
		".word msg 0xffff",
		"out '\\n'",
	})

	expected := []Opcode{
		{1, 0, []string{"out", "72"}, []Word{19, 72}, nil},
		{2, 2, []string{".string", `"hi;\n"`}, []Word{'h', 'i', ';', '\n'}, nil},
		{3, 6, []string{"out", "32"}, []Word{19, 32}, nil},
		{4, 8, []string{".word", "msg", "0xffff"}, []Word{2, 0xffff}, map[int]string{0: "msg"}},
		{5, 10, []string{"out", "10"}, []Word{19, 10}, nil},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerExpression(t *testing.T) {
	prog := assemble(t, []string{
		".equ COUNT 3",
		".equ ACC r1",
		"set ACC $(COUNT * 2 + 1)",
		"out $(ip)",
		"top: jmp $(top + WORD_MASK - 0x7fff)",
	})

	expected := []Opcode{
		{3, 0, []string{"set", "r1", "0x7"}, []Word{1, r1, 7}, nil},
		{4, 3, []string{"out", "0x3"}, []Word{19, 3}, nil},
		{5, 5, []string{"jmp", "0x5"}, []Word{6, 5}, nil},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("BASE", "0x10")
	asm.Predefine("BASE", "0x20")
	asm.Predefine("COUNTER", "r7")

	prog, err := asm.Parse(strings.NewReader("set COUNTER BASE\n"))
	assert.NoError(err)

	expected := []Opcode{
		{1, 0, []string{"set", "r7", "0x20"}, []Word{1, r7, 0x20}, nil},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerMacro(t *testing.T) {
	prog := assemble(t, []string{
		".macro countdown reg",
		"@top: add reg reg 32767",
		"jt reg @top",
		".endm",
		"set r2 2",
		"countdown r2",
		"countdown r3",
	})

	expected := []Opcode{
		{5, 0, []string{"set", "r2", "2"}, []Word{1, r2, 2}, nil},
		{2, 3, []string{"add", "r2", "r2", "32767"}, []Word{9, r2, r2, 32767}, nil},
		{3, 7, []string{"jt", "r2", "countdown_6_top"}, []Word{7, r2, 3}, map[int]string{2: "countdown_6_top"}},
		{2, 10, []string{"add", "r3", "r3", "32767"}, []Word{9, r3, r3, 32767}, nil},
		{3, 14, []string{"jt", "r3", "countdown_7_top"}, []Word{7, r3, 10}, map[int]string{2: "countdown_7_top"}},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerNestedMacro(t *testing.T) {
	prog := assemble(t, []string{
		".macro emit ch",
		"out ch",
		".endm",
		".macro pair a b",
		"emit a",
		"emit b",
		".endm",
		"pair 'o' 'k'",
	})

	expected := []Opcode{
		{2, 0, []string{"out", "111"}, []Word{19, 'o'}, nil},
		{2, 2, []string{"out", "107"}, []Word{19, 'k'}, nil},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerLabel(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"jmp L0",
		"L1: set r1 0x20",
		"jmp L2",
		"L0: AND_ALSO:",
		"set r0 0x10",
		"jmp L1",
		"L2:",
		"",
		"halt",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal(6, len(prog.Opcodes))
	assert.Equal(7, asm.Label["L0"])
	assert.Equal(7, asm.Label["AND_ALSO"])
	assert.Equal(2, asm.Label["L1"])
	assert.Equal(12, asm.Label["L2"])
	assert.Equal([]Word{6, 7}, prog.Opcodes[0].Codes)
	assert.Equal([]Word{6, 12}, prog.Opcodes[2].Codes)
}

func TestAssemblerRun(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, []string{
		"        set r0 msg",
		"loop:   rmem r1 r0",
		"        jf r1 done",
		"        out r1",
		"        add r0 r0 1",
		"        jmp loop",
		"done:   halt",
		`msg:    .string "Hi\n"`,
		"        .word 0",
	})

	cpu, con, _ := newTestCpu(prog.Words(), "")

	halt, err := runCpu(cpu)
	assert.NoError(err)
	assert.Equal(HALT_OPCODE, halt)
	assert.Equal("Hi\n", con.String())
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	table := [](struct {
		prog string
		line int
		err  error
	}){
		{"DUP:\nDUP:\n", 2, ErrLabelDuplicate},
		{"9bad: halt", 1, ErrParseValue("9bad")},
		{"set 5 1", 1, ErrTargetInvalid},
		{"eq here r0 r1\nhere: halt", 1, ErrTargetInvalid},
		{"add r0 r1", 1, ErrOpcodeValueMissing},
		{"halt 1", 1, ErrOpcodeExtraArgs},
		{"jmp r0 r1", 1, ErrOpcodeExtraArgs},
		{"bogus r0", 1, ErrInstructionInvalid},
		{"out 40000", 1, ErrValueRange},
		{"out 0x10000", 1, ErrValueRange},
		{"out 0xzz", 1, ErrParseNumber("0xzz")},
		{"halt\njmp nowhere", 2, ErrLabelMissing("nowhere")},
		{".word", 1, ErrOpcodeValueMissing},
		{".equ", 1, ErrEquateSyntax},
		{".equ A", 1, ErrEquateSyntax},
		{".equ A 1\n.equ A 2\n", 2, ErrEquateDuplicate},
		{".endm", 1, ErrMacroLonelyEndm},
		{".macro A\nhalt", 2, ErrMacroLonely},
		{".macro A\n.macro B\n.endm\n.endm", 2, ErrMacroNesting},
		{".macro A\n.endm\n.macro A\n.endm", 3, ErrMacroDuplicate},
		{".macro", 1, ErrMacroSyntax},
		{".macro A x\n.endm\nA", 3, ErrMacroSyntax},
		{".macro A\nout 99999\n.endm\n\nA", 5, ErrValueRange},
		{`.string "a\q"`, 1, ErrStringSyntax},
		{"out 'ab'", 1, ErrParseCharacter("'ab'")},
		{"out $(-1)", 1, ErrParseExpression("-1")},
		{"out $(\"aaa\")", 1, ErrParseExpression("\"aaa\"")},
	}

	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		assert.ErrorIs(err, entry.err, entry.prog)
		var syntax ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.prog) {
			assert.Equal(entry.line, syntax.LineNo, entry.prog)
		}
	}
}

func TestAssemblerErrExpression(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	for _, prog := range []string{
		"out $(undefined)",
		"out $(1/0)",
		"out $(0x10000000000000000)",
	} {
		_, err := asm.Parse(strings.NewReader(prog))
		assert.Error(err, prog)
	}
}
