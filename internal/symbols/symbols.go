// Package symbols reads symbol tables of ELF, Mach-O and PE files and maps
// addresses back to names.
package symbols

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// ErrUnrecognized means no supported object format matched the file.
var ErrUnrecognized = errors.New("unrecognized object file")

// Symbol is a named address range. Size is zero when the format does not
// record it.
type Symbol struct {
	Name string
	Addr uintptr
	Size uintptr
}

type rawFile interface {
	Symbols() ([]Symbol, error)
}

var objType = []func(io.ReaderAt) (rawFile, error){
	openElf,
	openMacho,
	openPE,
}

type symbolSlice []Symbol

func (a symbolSlice) Len() int           { return len(a) }
func (a symbolSlice) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a symbolSlice) Less(i, j int) bool { return a[i].Addr < a[j].Addr }

// Table is an address sorted symbol table.
type Table struct {
	syms symbolSlice
}

// New builds a table from syms. Symbols at address zero are dropped.
func New(syms []Symbol) *Table {
	t := &Table{syms: make(symbolSlice, 0, len(syms))}
	for _, s := range syms {
		if s.Addr != 0 && s.Name != "" {
			t.syms = append(t.syms, s)
		}
	}
	sort.Stable(t.syms)
	return t
}

// Open reads the symbol table of the object file name.
func Open(name string) (*Table, error) {
	r, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, try := range objType {
		raw, err := try(r)
		if err != nil {
			continue
		}
		syms, err := raw.Symbols()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return New(syms), nil
	}
	return nil, fmt.Errorf("open %s: %w", name, ErrUnrecognized)
}

// Rebase returns a copy of t with every address moved up by bias.
func (t *Table) Rebase(bias uintptr) *Table {
	r := &Table{syms: make(symbolSlice, len(t.syms))}
	for i, s := range t.syms {
		s.Addr += bias
		r.syms[i] = s
	}
	return r
}

// Len returns the number of symbols.
func (t *Table) Len() int {
	return len(t.syms)
}

// Lookup returns the name of the symbol covering addr. Symbols without a
// size only match their exact address.
func (t *Table) Lookup(addr uintptr) (string, bool) {
	i := sort.Search(len(t.syms), func(i int) bool { return t.syms[i].Addr > addr })
	for i--; i >= 0; i-- {
		s := t.syms[i]
		if s.Addr == addr || addr < s.Addr+s.Size {
			return s.Name, true
		}
		if s.Size != 0 {
			return "", false
		}
	}
	return "", false
}
