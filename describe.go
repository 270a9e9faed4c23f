package vthook

// Resolver names code addresses.
type Resolver interface {
	Lookup(addr uintptr) (name string, ok bool)
}

// Slot describes one entry of an installed table.
type Slot struct {
	Index int
	// entry before installation
	Original uintptr
	// entry the object dispatches through now
	Current uintptr
	// name of Original, if a resolver knows it
	Symbol string
}

// Hooked reports whether the slot is redirected.
func (s Slot) Hooked() bool {
	return s.Current != s.Original
}

// Slots lists every slot of the installed table. It is nil when the hook is
// not installed.
func (h *Hook) Slots() []Slot {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.orig == 0 {
		return nil
	}
	slots := make([]Slot, h.length)
	for i := range slots {
		s := Slot{
			Index:    i,
			Original: h.original(i),
			Current:  h.shadow[i+1],
		}
		if h.resolver != nil {
			s.Symbol, _ = h.resolver.Lookup(s.Original)
		}
		slots[i] = s
	}
	return slots
}
