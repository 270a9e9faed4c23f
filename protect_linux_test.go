package vthook

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestPageProtector(t *testing.T) {
	page, err := unix.Mmap(-1, 0, int(pageSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	require.NoError(t, err)
	defer unix.Munmap(page)
	addr := slicePtr(page)
	require.NoError(t, unix.Mprotect(page, unix.PROT_READ))

	prot, err := pageProt(addr)
	require.NoError(t, err)
	assert.Equal(t, unix.PROT_READ, prot)

	restore, err := PageProtector{}.Unprotect(addr+ptrSize, ptrSize)
	require.NoError(t, err)
	prot, err = pageProt(addr)
	require.NoError(t, err)
	assert.Equal(t, unix.PROT_READ|unix.PROT_WRITE, prot)

	writeWord(addr+ptrSize, 0xfeed)
	require.NoError(t, restore())

	prot, err = pageProt(addr)
	require.NoError(t, err)
	assert.Equal(t, unix.PROT_READ, prot)
	assert.Equal(t, uintptr(0xfeed), readWord(addr+ptrSize))
}

func TestInitWithPageProtector(t *testing.T) {
	f := goFixture(t)
	before, err := pageProt(f.addr())
	require.NoError(t, err)

	h := New(f.addr())
	require.NoError(t, h.Init())
	require.NoError(t, h.HookFunc(0, intercepted))
	assert.Equal(t, "intercepted", f.call(0))

	after, err := pageProt(f.addr())
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// the shadow table lives in its own anonymous mapping
	shadow := uintptr(unsafe.Pointer(&h.shadow[0]))
	prot, err := pageProt(shadow)
	require.NoError(t, err)
	assert.Equal(t, unix.PROT_READ|unix.PROT_WRITE, prot)

	require.NoError(t, h.UnhookAll())
	assert.Equal(t, f.vptr, f.obj.vptr)
	assert.Equal(t, "greet", f.call(0))
}

func TestInitUnreadableTable(t *testing.T) {
	page, err := unix.Mmap(-1, 0, int(pageSize), unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
	require.NoError(t, err)
	defer unix.Munmap(page)

	f := goFixture(t)
	f.obj.vptr = slicePtr(page) + ptrSize
	r := &recorder{}
	h := New(f.addr(), WithProtector(r))

	assert.ErrorIs(t, h.Init(), ErrUnreadable)
	assert.False(t, h.Installed())
	assert.Equal(t, slicePtr(page)+ptrSize, f.obj.vptr)
	assert.Zero(t, r.calls)
}
