//go:build !386 && !amd64

package vthook

func decode(addr uintptr, n int) ([]Instruction, error) {
	return nil, ErrUnsupportedArch
}
