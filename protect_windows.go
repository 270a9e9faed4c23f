package vthook

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

const executeMask = windows.PAGE_EXECUTE | windows.PAGE_EXECUTE_READ |
	windows.PAGE_EXECUTE_READWRITE | windows.PAGE_EXECUTE_WRITECOPY

// PageProtector flips page protection with VirtualProtect. Ranges that were
// executable stay executable while writable.
type PageProtector struct{}

// Unprotect makes [addr, addr+size) writable.
func (PageProtector) Unprotect(addr, size uintptr) (func() error, error) {
	var mbi windows.MemoryBasicInformation
	if err := windows.VirtualQuery(addr, &mbi, unsafe.Sizeof(mbi)); err != nil {
		return nil, err
	}
	prot := uint32(windows.PAGE_READWRITE)
	if mbi.Protect&executeMask != 0 {
		prot = windows.PAGE_EXECUTE_READWRITE
	}
	var old uint32
	if err := windows.VirtualProtect(addr, size, prot, &old); err != nil {
		return nil, err
	}
	return func() error {
		var tmp uint32
		return windows.VirtualProtect(addr, size, old, &tmp)
	}, nil
}

func init() {
	pageSize = uintptr(windows.Getpagesize())
}
