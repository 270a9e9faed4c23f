package vthook

import (
	"fmt"
	"os"

	sym "github.com/k2io/vthook/internal/symbols"
)

// Symbols reads the symbol table of the object file at name. Addresses are
// the link-time addresses recorded in the file.
func Symbols(name string) (Resolver, error) {
	t, err := sym.Open(name)
	if err != nil {
		return nil, fmt.Errorf("vthook: read symbols: %w", err)
	}
	return t, nil
}

// ExecutableSymbols reads the symbol table of the running executable and
// moves it to the addresses the executable is loaded at, so the result can
// be passed to WithResolver. The load bias is only known on Linux; elsewhere
// the addresses stay link-time and position independent builds will not
// resolve.
func ExecutableSymbols() (Resolver, error) {
	name, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("vthook: locate executable: %w", err)
	}
	t, err := sym.Open(name)
	if err != nil {
		return nil, fmt.Errorf("vthook: read symbols: %w", err)
	}
	bias, err := executableBias(name)
	if err != nil {
		return nil, fmt.Errorf("vthook: load bias of %s: %w", name, err)
	}
	return t.Rebase(bias), nil
}
