package vthook

// Terminator reports whether a table word ends the dispatch table.
type Terminator func(word uintptr) bool

// NullTerminator ends a table at the first zero word.
func NullTerminator(word uintptr) bool {
	return word == 0
}

// ResourceIDTerminator ends a table at the first word whose upper bits are
// all clear, the IS_INTRESOURCE test of Windows. Small integers placed after
// a table by some toolchains are not code addresses, so they are treated as
// the end.
//
// This is a heuristic. A genuine entry below 0x10000 would be cut off and
// a table followed by a large non-zero word still runs on, so counts it
// produces are best effort.
func ResourceIDTerminator(word uintptr) bool {
	return word>>16 == 0
}

// DefaultMaxSlots bounds a scan when no terminator shows up.
const DefaultMaxSlots = 0xffff

// Scanner sizes a dispatch table by reading words until a terminator.
type Scanner struct {
	// Terminator decides where the table ends; nil means the platform default
	Terminator Terminator
	// Limit caps the slot count; zero means DefaultMaxSlots
	Limit int
}

// DefaultScanner uses the platform terminator and DefaultMaxSlots.
var DefaultScanner = Scanner{}

// Len counts the entries of the table starting at table. A zero table yields
// zero without reading memory.
func (s Scanner) Len(table uintptr) (int, error) {
	if table == 0 {
		return 0, nil
	}
	term := s.Terminator
	if term == nil {
		term = defaultTerminator
	}
	limit := s.Limit
	if limit <= 0 {
		limit = DefaultMaxSlots
	}
	for length := 0; length <= limit; length++ {
		if term(readWord(table + uintptr(length)*ptrSize)) {
			return length, nil
		}
	}
	return 0, ErrTableUnbounded
}

// Scan sizes the table at table with DefaultScanner.
func Scan(table uintptr) (int, error) {
	return DefaultScanner.Len(table)
}
