package vthook

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Hook owns the shadow dispatch table of one object.
//
// The zero Hook is unbound; New or Bind gives it a target, Init installs the
// shadow table and UnhookAll puts the original table back and retires the
// Hook for good. Slot indexes count virtual functions from zero in
// declaration order, the type information word is not a slot.
//
// A Hook does not synchronise virtual calls made through the object. Callers
// keep other threads away from the object while Init and UnhookAll swap its
// table pointer.
type Hook struct {
	mu sync.Mutex

	// address of the object, whose first word is the table pointer
	object uintptr

	// original table, zero unless installed
	orig   uintptr
	length int

	// shadow[0] is the type information word, shadow[1:] the slots
	shadow []uintptr
	free   func() error

	// set by UnhookAll, the hook cannot be bound again
	released bool

	scanner  Scanner
	prot     Protector
	log      *zap.Logger
	resolver Resolver
}

// Option configures a Hook.
type Option func(*Hook)

// WithScanner sets the table scanner.
func WithScanner(s Scanner) Option {
	return func(h *Hook) { h.scanner = s }
}

// WithTerminator sets the terminator of the table scanner.
func WithTerminator(t Terminator) Option {
	return func(h *Hook) { h.scanner.Terminator = t }
}

// WithMaxSlots caps the number of slots the scanner accepts.
func WithMaxSlots(n int) Option {
	return func(h *Hook) { h.scanner.Limit = n }
}

// WithProtector sets the primitive used to make the table pointer writable.
func WithProtector(p Protector) Option {
	return func(h *Hook) { h.prot = p }
}

// WithLogger sets the logger of the hook.
func WithLogger(l *zap.Logger) Option {
	return func(h *Hook) { h.log = l }
}

// WithResolver sets the symbol resolver used by Slots.
func WithResolver(r Resolver) Option {
	return func(h *Hook) { h.resolver = r }
}

// New returns a Hook bound to the object at address object.
func New(object uintptr, opts ...Option) *Hook {
	h := &Hook{object: object}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewPointer returns a Hook bound to the object p points at.
func NewPointer(p unsafe.Pointer, opts ...Option) *Hook {
	return New(uintptr(p), opts...)
}

// Bind sets the target object of a hook that is not installed.
func (h *Hook) Bind(object uintptr) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch {
	case h.released:
		return ErrReleased
	case h.orig != 0:
		return ErrInstalled
	}
	h.object = object
	return nil
}

// Init sizes the object's table, builds the shadow table and points the object
// at it. On error the object is untouched, except for an error matching
// ErrProtectionRestore: the shadow table is then installed and the hook must
// still be torn down with UnhookAll.
func (h *Hook) Init() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch {
	case h.released:
		return ErrReleased
	case h.orig != 0:
		return ErrInstalled
	case h.object == 0:
		return ErrUnbound
	}

	var (
		orig   uintptr
		length int
		err    error
	)
	if ferr := guard(func() {
		orig = readWord(h.object)
		length, err = h.scanner.Len(orig)
	}); ferr != nil {
		return fmt.Errorf("vthook: read table of %#x: %w", h.object, ferr)
	}
	if err != nil {
		return fmt.Errorf("vthook: scan table %#x: %w", orig, err)
	}
	if length == 0 {
		return ErrEmptyTable
	}

	shadow, free, err := allocTable(length + 1)
	if err != nil {
		return fmt.Errorf("vthook: allocate shadow table: %w", err)
	}
	if err := guard(func() {
		shadow[0] = readWord(orig - ptrSize)
		copy(shadow[1:], makeWords(orig, length))
	}); err != nil {
		return multierr.Append(fmt.Errorf("vthook: copy table %#x: %w", orig, err), free())
	}

	table := uintptr(unsafe.Pointer(&shadow[1]))
	written := false
	err = withWritable(h.protector(), h.object, ptrSize, func() {
		writeWord(h.object, table)
		written = true
	})
	if !written {
		return multierr.Append(fmt.Errorf("vthook: install table: %w", err), free())
	}

	h.orig = orig
	h.length = length
	h.shadow = shadow
	h.free = free
	h.logger().Debug("shadow table installed",
		hex("object", h.object),
		hex("original", orig),
		hex("shadow", table),
		zap.Int("slots", length),
	)
	if err != nil {
		return fmt.Errorf("%w after install: %w", ErrProtectionRestore, err)
	}
	return nil
}

// Hook points slot index at replacement.
func (h *Hook) Hook(index int, replacement uintptr) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.check(index); err != nil {
		return err
	}
	h.shadow[index+1] = replacement
	h.logger().Debug("slot hooked", zap.Int("slot", index), hex("replacement", replacement))
	return nil
}

// HookFunc points slot index at the Go func value fn. The closure fn refers
// to must stay reachable for as long as the slot can be called.
func (h *Hook) HookFunc(index int, fn interface{}) error {
	entry, err := FuncEntry(fn)
	if err != nil {
		return err
	}
	return h.Hook(index, entry)
}

// Unhook puts the original entry back into slot index.
func (h *Hook) Unhook(index int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.check(index); err != nil {
		return err
	}
	h.shadow[index+1] = h.original(index)
	h.logger().Debug("slot restored", zap.Int("slot", index))
	return nil
}

// Original returns the entry slot index held before installation, whatever
// the slot holds now. It is zero when the index is out of range or the hook
// is not installed.
func (h *Hook) Original(index int) uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.check(index) != nil {
		return 0
	}
	return h.original(index)
}

// OriginalFunc reinterprets the original entry of slot index as a Go func
// value of type F. This is the one place where a raw table word becomes
// callable: the entry must be the closure pointer of a func of exactly type
// F, as FuncEntry produces. Code addresses of foreign functions are not Go
// closures; call those through Original with cgo or an FFI instead.
//
// ok is false when F is not a func type, the index is out of range or the
// hook is not installed.
func OriginalFunc[F any](h *Hook, index int) (fn F, ok bool) {
	if reflect.TypeOf((*F)(nil)).Elem().Kind() != reflect.Func {
		return fn, false
	}
	entry := h.Original(index)
	if entry == 0 {
		return fn, false
	}
	*(*uintptr)(unsafe.Pointer(&fn)) = entry
	return fn, true
}

// FuncEntry returns the table word for the Go func value fn.
func FuncEntry(fn interface{}) (uintptr, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return 0, ErrInputType
	}
	e := (*eface)(unsafe.Pointer(&fn))
	return uintptr(e.data), nil
}

// UnhookAll restores the object's original table pointer and releases the
// shadow table. It does nothing unless the hook is installed. When the table
// pointer cannot be written the hook stays installed. An error matching
// ErrProtectionRestore still leaves the hook released.
func (h *Hook) UnhookAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.orig == 0 {
		return nil
	}

	orig := h.orig
	written := false
	err := withWritable(h.protector(), h.object, ptrSize, func() {
		writeWord(h.object, orig)
		written = true
	})
	if !written {
		return fmt.Errorf("vthook: restore table pointer: %w", err)
	}
	if err != nil {
		err = fmt.Errorf("%w after uninstall: %w", ErrProtectionRestore, err)
	}

	h.logger().Debug("original table restored", hex("object", h.object), hex("original", orig))
	err = multierr.Append(err, h.free())
	h.orig = 0
	h.length = 0
	h.shadow = nil
	h.free = nil
	h.object = 0
	h.released = true
	return err
}

// Close calls UnhookAll.
func (h *Hook) Close() error {
	return h.UnhookAll()
}

// Len returns the number of slots of the installed table.
func (h *Hook) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.length
}

// Installed reports whether the object currently uses the shadow table.
func (h *Hook) Installed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.orig != 0
}

// Object returns the bound object address.
func (h *Hook) Object() uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.object
}

// TablePointer returns the address of the original table while installed.
func (h *Hook) TablePointer() uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.orig
}

// Shadow returns a copy of the shadow table, type information word first.
func (h *Hook) Shadow() []uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.shadow == nil {
		return nil
	}
	return append([]uintptr(nil), h.shadow...)
}

func (h *Hook) check(index int) error {
	if h.orig == 0 {
		return ErrNotInstalled
	}
	if index < 0 || index >= h.length {
		return ErrIndexRange
	}
	return nil
}

func (h *Hook) original(index int) uintptr {
	return readWord(h.orig + uintptr(index)*ptrSize)
}

func (h *Hook) protector() Protector {
	if h.prot == nil {
		return PageProtector{}
	}
	return h.prot
}

func (h *Hook) logger() *zap.Logger {
	if h.log == nil {
		return logger
	}
	return h.log
}
