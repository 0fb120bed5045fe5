package internal

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// ErrOutOfMemory is returned when a block cannot be allocated: the size is
// negative, exceeds MaxAllocBytes, or the runtime rejects the slice length.
// A request under MaxAllocBytes that exceeds the memory actually available
// is still a fatal runtime error, so this is not a complete OOM signal.
var ErrOutOfMemory = errors.New("out of memory")

// MaxAllocBytes caps the size of a single block.
const MaxAllocBytes uint64 = 1 << 40

// noCopy may be embedded into structs which must not be copied after first
// use. See go vet's copylocks check.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// RawMemory owns a block of slots for up to Capacity() values of T. It only
// manages the block: it never initializes or destroys the values stored in
// it, that is up to the owner. A slot that holds no live value holds the
// zero value of T.
//
// The zero value is an empty RawMemory with a nil buffer.
type RawMemory[T any] struct {
	_      noCopy
	buffer []T
}

// Allocate gives r a fresh block for capacity slots. A zero capacity leaves
// the buffer nil. r must not own a block already.
func (r *RawMemory[T]) Allocate(capacity int) error {
	if r.buffer != nil {
		return errors.AssertionFailedf("allocating into a block that is still owned")
	}
	buf, err := allocate[T](capacity)
	if err != nil {
		return err
	}
	r.buffer = buf
	return nil
}

func allocate[T any](n int) (buf []T, err error) {
	if n == 0 {
		return nil, nil
	}
	if n < 0 {
		return nil, errors.Wrapf(ErrOutOfMemory, "invalid capacity %d", redact.SafeInt(n))
	}
	var zero T
	if size := uint64(unsafe.Sizeof(zero)); size > 0 && uint64(n) > MaxAllocBytes/size {
		return nil, errors.Wrapf(ErrOutOfMemory, "%d slots of %d bytes", redact.SafeInt(n), redact.SafeInt(size))
	}
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = errors.Wrapf(ErrOutOfMemory, "%d slots: %v", redact.SafeInt(n), r)
		}
	}()
	return make([]T, n), nil
}

// Release drops the block. Any values still live in it are not destroyed.
func (r *RawMemory[T]) Release() {
	r.buffer = nil
}

// MoveFrom releases r's block and takes over other's, leaving other empty.
func (r *RawMemory[T]) MoveFrom(other *RawMemory[T]) {
	if r == other {
		return
	}
	r.buffer = other.buffer
	other.buffer = nil
}

// Swap exchanges the blocks of r and other.
func (r *RawMemory[T]) Swap(other *RawMemory[T]) {
	r.buffer, other.buffer = other.buffer, r.buffer
}

// Capacity returns the number of slots in the block.
func (r *RawMemory[T]) Capacity() int {
	return len(r.buffer)
}

// At returns the address of slot i.
func (r *RawMemory[T]) At(i int) *T {
	if Invariants && (i < 0 || i >= len(r.buffer)) {
		panic(errors.AssertionFailedf("slot %d out of range [0, %d)", i, len(r.buffer)))
	}
	return &r.buffer[i]
}

// Slots returns the slots [from, to) of the block.
func (r *RawMemory[T]) Slots(from, to int) []T {
	if Invariants && (from < 0 || from > to || to > len(r.buffer)) {
		panic(errors.AssertionFailedf("slots [%d, %d) out of range [0, %d)", from, to, len(r.buffer)))
	}
	return r.buffer[from:to:to]
}
