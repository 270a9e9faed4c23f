//go:build !windows

package vthook

var defaultTerminator Terminator = NullTerminator
