package symbols

import (
	"debug/elf"
	"errors"
	"io"
)

type elfFile struct {
	elf *elf.File
}

func openElf(r io.ReaderAt) (rawFile, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, err
	}
	return &elfFile{f}, nil
}

func (e *elfFile) Symbols() ([]Symbol, error) {
	stab, err := e.elf.Symbols()
	if err = present(err); err != nil {
		return nil, err
	}
	dyn, err := e.elf.DynamicSymbols()
	if err = present(err); err != nil {
		return nil, err
	}
	syms := make([]Symbol, 0, len(stab)+len(dyn))
	for _, k := range append(stab, dyn...) {
		switch elf.ST_TYPE(k.Info) {
		case elf.STT_FUNC, elf.STT_OBJECT:
			syms = append(syms, Symbol{Name: k.Name, Addr: uintptr(k.Value), Size: uintptr(k.Size)})
		}
	}
	return syms, nil
}

// present drops the error of a symbol section that is simply missing.
func present(err error) error {
	if errors.Is(err, elf.ErrNoSymbols) {
		return nil
	}
	return err
}

// LoadBias returns the distance between the link-time addresses of the ELF
// file name and the addresses it runs at, given start, the lowest address
// the file is mapped at. Executables linked at a fixed address have no bias.
func LoadBias(name string, start uintptr) (uintptr, error) {
	f, err := elf.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return loadBias(f, start)
}

func loadBias(f *elf.File, start uintptr) (uintptr, error) {
	if f.Type != elf.ET_DYN {
		return 0, nil
	}
	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD {
			continue
		}
		base := p.Vaddr - p.Off
		if p.Align > 1 {
			base &^= p.Align - 1
		}
		return start - uintptr(base), nil
	}
	return 0, errNoLoad
}

var errNoLoad = errors.New("no loadable segment")
