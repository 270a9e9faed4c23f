package vthook

import (
	"go.uber.org/multierr"
)

// Protector grants temporary write access to memory.
//
// Unprotect makes [addr, addr+size) writable and returns a function that puts
// back the protection it found. When Unprotect fails nothing has changed.
type Protector interface {
	Unprotect(addr, size uintptr) (restore func() error, err error)
}

// ProtectorFunc adapts a function to Protector.
type ProtectorFunc func(addr, size uintptr) (func() error, error)

// Unprotect calls f.
func (f ProtectorFunc) Unprotect(addr, size uintptr) (func() error, error) {
	return f(addr, size)
}

// withWritable runs op with [addr, addr+size) writable. The previous
// protection is restored on every return path, including a panicking op.
func withWritable(p Protector, addr, size uintptr, op func()) (err error) {
	restore, err := p.Unprotect(addr, size)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, restore())
	}()
	op()
	return nil
}
