//go:build !windows

package vthook

import (
	"go.uber.org/multierr"
	"golang.org/x/sys/unix"
)

// PageProtector flips page protection with mprotect. Pages keep whatever
// access they had and gain write access.
//
// On Linux the previous protection of every page is read from
// /proc/self/maps and restore puts it back exactly. Other Unix systems offer
// no portable query, so restore leaves their pages read/write and a page
// that was read-only stays writable afterwards. Pass a Protector that knows
// the real protection with WithProtector where that matters.
type PageProtector struct{}

// Unprotect makes the pages covering [addr, addr+size) writable.
func (PageProtector) Unprotect(addr, size uintptr) (func() error, error) {
	start, length := pageSpan(addr, size)
	prev := make([]int, 0, length/pageSize)
	for i := uintptr(0); i < length; i += pageSize {
		p, err := pageProt(start + i)
		if err != nil {
			return nil, err
		}
		prev = append(prev, p)
	}
	page := func(i int) []byte {
		return makeSlice(start+uintptr(i)*pageSize, pageSize)
	}
	for i, p := range prev {
		if err := unix.Mprotect(page(i), p|unix.PROT_READ|unix.PROT_WRITE); err != nil {
			for j := 0; j < i; j++ {
				err = multierr.Append(err, unix.Mprotect(page(j), prev[j]))
			}
			return nil, err
		}
	}
	return func() error {
		var err error
		for i, p := range prev {
			err = multierr.Append(err, unix.Mprotect(page(i), p))
		}
		return err
	}, nil
}

func init() {
	pageSize = uintptr(unix.Getpagesize())
}
