package vthook

import (
	"fmt"

	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"
)

// pageProt reads the protection of the mapping holding addr.
func pageProt(addr uintptr) (int, error) {
	self, err := procfs.Self()
	if err != nil {
		return 0, fmt.Errorf("vthook: open /proc/self: %w", err)
	}
	maps, err := self.ProcMaps()
	if err != nil {
		return 0, fmt.Errorf("vthook: read mappings: %w", err)
	}
	for _, m := range maps {
		if addr < m.StartAddr || addr >= m.EndAddr {
			continue
		}
		prot := unix.PROT_NONE
		if m.Perms == nil {
			return prot, nil
		}
		if m.Perms.Read {
			prot |= unix.PROT_READ
		}
		if m.Perms.Write {
			prot |= unix.PROT_WRITE
		}
		if m.Perms.Execute {
			prot |= unix.PROT_EXEC
		}
		return prot, nil
	}
	return 0, fmt.Errorf("vthook: address %#x is not mapped", addr)
}
