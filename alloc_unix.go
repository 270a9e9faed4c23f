//go:build !windows

package vthook

import (
	"golang.org/x/sys/unix"
)

// allocTable maps n zeroed words of anonymous memory. The mapping is
// invisible to the garbage collector and lives until free is called.
func allocTable(n int) ([]uintptr, func() error, error) {
	_, size := pageSpan(0, uintptr(n)*ptrSize)
	b, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	return makeWords(slicePtr(b), n), func() error {
		return unix.Munmap(b)
	}, nil
}
