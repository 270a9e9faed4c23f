package vthook

import (
	"fmt"
	"runtime/debug"
	"unsafe"
)

func readWord(addr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(addr))
}

func writeWord(addr, v uintptr) {
	*(*uintptr)(unsafe.Pointer(addr)) = v
}

// makeSlice views size bytes at addr as a byte slice.
func makeSlice(addr, size uintptr) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
}

// makeWords views n words at addr as a word slice.
func makeWords(addr uintptr, n int) []uintptr {
	return unsafe.Slice((*uintptr)(unsafe.Pointer(addr)), n)
}

func slicePtr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// pageSpan returns the page-aligned start and length covering [addr, addr+size).
func pageSpan(addr, size uintptr) (uintptr, uintptr) {
	start := pageSize * (addr / pageSize)
	length := pageSize * ((addr + size + pageSize - 1 - start) / pageSize)
	return start, length
}

// faultError is the runtime error raised for a faulting access while
// panic-on-fault is enabled.
type faultError interface {
	error
	Addr() uintptr
}

// guard runs op and turns a memory fault inside it into ErrUnreadable.
// Other panics pass through.
func guard(op func()) (err error) {
	defer debug.SetPanicOnFault(debug.SetPanicOnFault(true))
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if f, ok := r.(faultError); ok {
			err = fmt.Errorf("%w at %#x", ErrUnreadable, f.Addr())
			return
		}
		panic(r)
	}()
	op()
	return nil
}
