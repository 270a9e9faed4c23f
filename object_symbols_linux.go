package vthook

import (
	"fmt"

	"github.com/prometheus/procfs"

	sym "github.com/k2io/vthook/internal/symbols"
)

// executableBias finds the lowest mapping of name in /proc/self/maps and
// compares it with the file's first loadable segment.
func executableBias(name string) (uintptr, error) {
	self, err := procfs.Self()
	if err != nil {
		return 0, fmt.Errorf("open /proc/self: %w", err)
	}
	maps, err := self.ProcMaps()
	if err != nil {
		return 0, fmt.Errorf("read mappings: %w", err)
	}
	var start uintptr
	for _, m := range maps {
		if m.Pathname != name || m.Offset != 0 {
			continue
		}
		if start == 0 || m.StartAddr < start {
			start = m.StartAddr
		}
	}
	if start == 0 {
		return 0, fmt.Errorf("%s is not mapped", name)
	}
	return sym.LoadBias(name, start)
}
