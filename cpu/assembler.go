// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

func init() {
	maps.Copy(sysEquate, _cpu_defines)
}

// Assembler is a single pass macro assembler for the synvm instruction set.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of jump labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var (
	reCharacter  = regexp.MustCompile(`'(\\.|[^'\\])+'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reLabel      = regexp.MustCompile(`^[A-Za-z_.@][A-Za-z0-9_.@]*$`)
	reRegister   = regexp.MustCompile(`^[rR][0-7]$`)
	reString     = regexp.MustCompile(`^\.string\s+(".*")$`)
)

// valueOf returns the value of a simple word: a register, or a number.
func (asm *Assembler) valueOf(word string) (value Word, err error) {
	if reRegister.MatchString(word) {
		value = Word(REGISTER_BASE + int(word[1]-'0'))
		return
	}

	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word)
		return
	}

	v64, err := strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 < 0 || v64 > 0xffff {
		err = ErrValueRange
		return
	}

	value = Word(v64)
	return
}

// argOf returns the operand value of a word, or the label it links to.
func (asm *Assembler) argOf(word string) (value Word, label string, err error) {
	value, err = asm.valueOf(word)
	if err == nil || !reLabel.MatchString(word) {
		return
	}

	err = nil
	label = word
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value Word, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		if reRegister.MatchString(str) {
			continue
		}
		word, _err := asm.valueOf(str)
		if _err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt(int(word))
	}
	for key, ip := range asm.Label {
		pred[key] = starlark.MakeInt(ip)
	}
	pred["ip"] = starlark.MakeInt(asm.currentIp())

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < 0 || st_int64 > 0xffff {
		err = ErrParseExpression(expr)
		return
	}
	value = Word(st_int64)
	return
}

// stripComment removes a trailing ';' comment, ignoring quoted semicolons.
func stripComment(text string) string {
	var quote byte
	for n := 0; n < len(text); n++ {
		ch := text[n]
		switch {
		case quote != 0 && ch == '\\':
			n++
		case quote != 0 && ch == quote:
			quote = 0
		case quote != 0:
			// pass
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == ';':
			return text[:n]
		}
	}
	return text
}

// isSeparator is true for the characters that separate words.
func isSeparator(r rune) bool {
	return r == ' ' || r == '\t' || r == ','
}

// splitWords splits a line on spaces, tabs, and commas.
func splitWords(line string) []string {
	return strings.FieldsFunc(line, isSeparator)
}

// parseLabels consumes any leading labels of a line.
func (asm *Assembler) parseLabels(line string) (rest string, err error) {
	rest = strings.TrimSpace(line)
	for {
		word, after := rest, ""
		if n := strings.IndexFunc(rest, isSeparator); n >= 0 {
			word, after = rest[:n], rest[n+1:]
		}
		if !strings.HasSuffix(word, ":") {
			return
		}
		label := word[:len(word)-1]
		if !reLabel.MatchString(label) {
			err = ErrParseValue(label)
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentIp()
		rest = strings.TrimSpace(after)
	}
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	line, err = asm.parseLabels(line)
	if err != nil || len(line) == 0 {
		return
	}

	// .string "TEXT"
	match := reString.FindStringSubmatch(line)
	if match != nil {
		var text string
		text, err = strconv.Unquote(match[1])
		if err != nil {
			err = ErrStringSyntax
			return
		}
		codes := make([]Word, 0, len(text))
		for _, ch := range []byte(text) {
			codes = append(codes, Word(ch))
		}
		asm.emit(lineno, []string{".string", match[1]}, codes, nil)
		return
	}

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str, _err := strconv.Unquote(word)
		if _err != nil || len(str) != 1 {
			err = ErrParseCharacter(word)
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})
	if err != nil {
		return
	}

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#x", uint16(value))
	})
	if err != nil {
		return
	}

	words = splitWords(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		// '@' is unique per expansion.
		mangle := fmt.Sprintf("%v_%v_", name, lineno)
		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", mangle)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: lineno, Err: err}
				err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: lineno, Err: err}
				err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentIp gets the current Ip
func (asm *Assembler) currentIp() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Ip + len(last.Codes)
}

// emit appends generated words to the listing.
func (asm *Assembler) emit(lineno int, words []string, codes []Word, links map[int]string) {
	if len(codes) == 0 {
		return
	}

	opcode := Opcode{LineNo: lineno, Ip: asm.currentIp(), Words: words, Codes: codes, Links: links}
	asm.Opcode = append(asm.Opcode, opcode)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))
		words := splitWords(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		for index, label := range op.Links {
			ip, ok := asm.Label[label]
			if !ok {
				lineno = op.LineNo
				line = strings.Join(op.Words, " ")
				err = ErrLabelMissing(label)
				return
			}
			op.Codes[index] = Word(ip)
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	var codes []Word
	var links map[int]string

	link := func(word string) (err error) {
		value, label, err := asm.argOf(word)
		if err != nil {
			return
		}
		if len(label) != 0 {
			if links == nil {
				links = make(map[int]string)
			}
			links[len(codes)] = label
		}
		codes = append(codes, value)
		return
	}

	// .word VALUE...
	if words[0] == ".word" {
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			err = link(word)
			if err != nil {
				return
			}
		}
		asm.emit(lineno, words, codes, links)
		return
	}

	op, ok := OpByName(words[0])
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	args := words[1:]
	switch {
	case len(args) < op.Arity():
		err = ErrOpcodeValueMissing
		return
	case len(args) > op.Arity():
		err = ErrOpcodeExtraArgs
		return
	}

	codes = append(codes, Word(op))
	for n, word := range args {
		err = link(word)
		if err != nil {
			return
		}
		arg := codes[len(codes)-1]
		if n == 0 && op.Writes() && (len(links[len(codes)-1]) != 0 || !arg.IsRegister()) {
			err = ErrTargetInvalid
			return
		}
		if !arg.Valid() {
			err = ErrValueRange
			return
		}
	}

	asm.emit(lineno, words, codes, links)

	return
}
