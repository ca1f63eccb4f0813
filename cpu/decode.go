package cpu

// Decode reads the instruction at ip, returning it and the address of the
// word that follows it. Memory is read fresh on every call, so code written
// by wmem is seen the next time it is decoded.
//
// An undecodable opcode word is returned as an OP_DATA instruction along
// with the error.
func Decode(mem *Memory, ip Word) (inst Instruction, next Word, err error) {
	next = ip
	inst.Op = OP_DATA

	word, err := mem.Read(next)
	if err != nil {
		return
	}
	next++

	op := Op(word)
	if !op.Valid() {
		inst.Args[0] = word
		err = ErrOpcode(word)
		return
	}
	inst.Op = op

	for n := range op.Arity() {
		inst.Args[n], err = mem.Read(next)
		if err != nil {
			return
		}
		next++
	}

	return
}
