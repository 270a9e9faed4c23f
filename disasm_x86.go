//go:build 386 || amd64

package vthook

import (
	"golang.org/x/arch/x86/x86asm"
)

// decode reads up to lookWindow bytes at addr, so a target near the end of a
// mapping or outside any mapping faults inside guard.
func decode(addr uintptr, n int) ([]Instruction, error) {
	var (
		out  []Instruction
		derr error
	)
	if err := guard(func() {
		out, derr = decodeWindow(addr, makeSlice(addr, lookWindow), n)
	}); err != nil {
		return nil, err
	}
	return out, derr
}

func decodeWindow(addr uintptr, src []byte, n int) ([]Instruction, error) {
	mode := int(ptrSize) * 8
	var out []Instruction
	for x := 0; x < len(src) && len(out) < n; {
		inst, err := x86asm.Decode(src[x:], mode)
		if err != nil {
			if len(out) > 0 {
				break
			}
			return nil, err
		}
		pc := addr + uintptr(x)
		out = append(out, Instruction{
			Addr: pc,
			Len:  inst.Len,
			Op:   inst.Op.String(),
			Text: x86asm.IntelSyntax(inst, uint64(pc), nil),
		})
		if inst.Op == x86asm.RET {
			break
		}
		x += inst.Len
	}
	return out, nil
}
