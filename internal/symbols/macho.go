package symbols

import (
	"debug/macho"
	"io"
)

type machoFile struct {
	macho *macho.File
}

func openMacho(r io.ReaderAt) (rawFile, error) {
	f, err := macho.NewFile(r)
	if err != nil {
		return nil, err
	}
	return &machoFile{f}, nil
}

func (f *machoFile) Symbols() ([]Symbol, error) {
	if f.macho.Symtab == nil {
		return nil, nil
	}
	syms := make([]Symbol, 0, len(f.macho.Symtab.Syms))
	for _, s := range f.macho.Symtab.Syms {
		// skip undefined and debugging entries
		if s.Sect == 0 || s.Type&0xe0 != 0 {
			continue
		}
		syms = append(syms, Symbol{Name: s.Name, Addr: uintptr(s.Value)})
	}
	return syms, nil
}
