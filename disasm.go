package vthook

// Instruction is one decoded instruction of a slot target.
type Instruction struct {
	Addr uintptr
	Len  int
	// mnemonic, e.g. "MOV"
	Op string
	// full instruction in Intel syntax
	Text string
}

// lookWindow is how many bytes are read at a slot target.
const lookWindow = 32

// Disasm decodes up to n instructions at the original entry of slot index,
// which must be a machine code address. Decoding stops at the first return.
// At most lookWindow bytes are read.
func (h *Hook) Disasm(index, n int) ([]Instruction, error) {
	h.mu.Lock()
	if err := h.check(index); err != nil {
		h.mu.Unlock()
		return nil, err
	}
	target := h.original(index)
	h.mu.Unlock()
	return decode(target, n)
}
