package vthook

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutableSymbols(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("ELF only")
	}
	r, err := ExecutableSymbols()
	require.NoError(t, err)
	require.NotNil(t, r)

	// run-time code addresses resolve whether or not the binary is PIE
	name, ok := r.Lookup(reflect.ValueOf(greet).Pointer())
	assert.True(t, ok)
	assert.Equal(t, "github.com/k2io/vthook.greet", name)
}

func TestSymbolsBadFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "junk")
	require.NoError(t, os.WriteFile(name, []byte{1, 2, 3}, 0o600))
	_, err := Symbols(name)
	assert.Error(t, err)
}
