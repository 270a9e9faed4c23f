package vthook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestDisasmUnreadableTarget(t *testing.T) {
	page, err := unix.Mmap(-1, 0, int(pageSize), unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
	require.NoError(t, err)
	defer unix.Munmap(page)

	f := newFixture(slicePtr(page), entry(t, count))
	h := New(f.addr(), WithProtector(&recorder{}))
	require.NoError(t, h.Init())
	defer h.Close()

	insts, err := h.Disasm(0, 4)
	assert.ErrorIs(t, err, ErrUnreadable)
	assert.Empty(t, insts)

	// the window runs past the last readable byte of the mapping
	pages, err := unix.Mmap(-1, 0, 2*int(pageSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	require.NoError(t, err)
	defer unix.Munmap(pages)
	tail := pages[pageSize-4 : pageSize]
	copy(tail, []byte{0x48, 0x89, 0xc8, 0xc3})
	require.NoError(t, unix.Mprotect(pages[pageSize:], unix.PROT_NONE))

	g := newFixture(slicePtr(tail))
	edge := New(g.addr(), WithProtector(&recorder{}))
	require.NoError(t, edge.Init())
	defer edge.Close()
	_, err = edge.Disasm(0, 4)
	assert.ErrorIs(t, err, ErrUnreadable)
}
