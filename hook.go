// Package vthook redirects virtual dispatch table slots of a live object.
//
// The object model it expects is the common one of C++ compilers: the first
// machine word of an object points at slot 0 of a contiguous array of
// pointer-width entries, and the word immediately before slot 0 holds the
// run-time type information pointer of the class. A Hook copies that table
// (including the type information word) into memory it owns, points the
// object at the copy and then lets individual slots be replaced and restored.
//
// Nothing here rewrites code. Only the object's table pointer is written, and
// only inside a scoped page permission change.
package vthook

import (
	"errors"
	"fmt"
	"unsafe"

	"go.uber.org/zap"
)

var (
	// ErrUnbound means the hook has no target object
	ErrUnbound = errors.New("vthook: no target object bound")
	// ErrReleased means the hook was already torn down by UnhookAll
	ErrReleased = errors.New("vthook: hook released")
	// ErrInstalled means the shadow table is already installed
	ErrInstalled = errors.New("vthook: already installed")
	// ErrNotInstalled means the operation needs an installed shadow table
	ErrNotInstalled = errors.New("vthook: not installed")
	// ErrEmptyTable means scanning found no slots
	ErrEmptyTable = errors.New("vthook: empty dispatch table")
	// ErrUnreadable means the table or the object could not be read
	ErrUnreadable = errors.New("vthook: unreadable memory")
	// ErrTableUnbounded means no terminator was found within the scan limit
	ErrTableUnbounded = errors.New("vthook: no table terminator within scan limit")
	// ErrIndexRange means the slot index is outside the scanned table
	ErrIndexRange = errors.New("vthook: slot index out of range")
	// ErrInputType means the input is not a func value
	ErrInputType = errors.New("vthook: input is not func type")
	// ErrUnsupportedArch means instruction decoding is not available here
	ErrUnsupportedArch = errors.New("vthook: unsupported architecture")
	// ErrProtectionRestore means the table pointer was written but the page
	// protection around it could not be put back
	ErrProtectionRestore = errors.New("vthook: page protection not restored")
)

const ptrSize = unsafe.Sizeof(uintptr(0))

var pageSize uintptr

var logger = zap.NewNop()

// SetLogger replaces the package logger used by hooks created without
// WithLogger. A nil logger disables logging.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

var newDevelopment = zap.NewDevelopment

// SetDebug switches the package logger between a development logger and a
// no-op one. When the development logger cannot be built, debug output goes
// to an example logger on stdout instead.
func SetDebug(x bool) {
	if !x {
		logger = zap.NewNop()
		return
	}
	l, err := newDevelopment()
	if err != nil {
		l = zap.NewExample()
		l.Warn("development logger unavailable", zap.Error(err))
	}
	logger = l
}

// eface is the runtime layout of an empty interface.
type eface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

func hex(key string, v uintptr) zap.Field {
	return zap.String(key, fmt.Sprintf("%#x", v))
}
