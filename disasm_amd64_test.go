package vthook

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// movRet holds MOV RAX, RCX; RET padded with INT3.
var movRet = func() []byte {
	code := make([]byte, lookWindow)
	for i := range code {
		code[i] = 0xcc
	}
	copy(code, []byte{0x48, 0x89, 0xc8, 0xc3})
	return code
}()

func TestDisasm(t *testing.T) {
	code := movRet
	f := newFixture(slicePtr(code), entry(t, count))
	h := New(f.addr(), WithProtector(&recorder{}))
	require.NoError(t, h.Init())
	defer h.Close()

	insts, err := h.Disasm(0, 8)
	require.NoError(t, err)
	require.Len(t, insts, 2)
	assert.Equal(t, "MOV", insts[0].Op)
	assert.Equal(t, 3, insts[0].Len)
	assert.Equal(t, slicePtr(code), insts[0].Addr)
	assert.Contains(t, strings.ToLower(insts[0].Text), "rcx")
	assert.Equal(t, "RET", insts[1].Op)
	assert.Equal(t, slicePtr(code)+3, insts[1].Addr)

	insts, err = h.Disasm(0, 1)
	require.NoError(t, err)
	assert.Len(t, insts, 1)

	// hooking does not change what Disasm reads
	require.NoError(t, h.HookFunc(0, intercepted))
	insts, err = h.Disasm(0, 8)
	require.NoError(t, err)
	assert.Len(t, insts, 2)

	_, err = h.Disasm(2, 8)
	assert.ErrorIs(t, err, ErrIndexRange)
}
