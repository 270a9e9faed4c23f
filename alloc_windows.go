package vthook

import (
	"golang.org/x/sys/windows"
)

// allocTable commits n zeroed words with VirtualAlloc. The region is
// invisible to the garbage collector and lives until free is called.
func allocTable(n int) ([]uintptr, func() error, error) {
	_, size := pageSpan(0, uintptr(n)*ptrSize)
	addr, err := windows.VirtualAlloc(0, size, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, nil, err
	}
	return makeWords(addr, n), func() error {
		return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
	}, nil
}
