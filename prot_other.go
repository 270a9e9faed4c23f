//go:build !windows && !linux

package vthook

import (
	"golang.org/x/sys/unix"
)

// pageProt reports read/write for every page because the current protection
// cannot be queried portably. Restoring it over-permissions read-only pages.
func pageProt(addr uintptr) (int, error) {
	return unix.PROT_READ | unix.PROT_WRITE, nil
}
