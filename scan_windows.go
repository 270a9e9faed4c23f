package vthook

var defaultTerminator Terminator = ResourceIDTerminator
