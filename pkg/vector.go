// Package vector provides Vector, a growable array of T with value semantics.
package vector

import (
	"iter"

	"advvector/internal"

	"github.com/cockroachdb/errors"
)

// ErrOutOfMemory is returned when the vector cannot get a block big enough
// for the requested capacity. The vector is left unchanged. Exhausting real
// memory below internal.MaxAllocBytes is fatal instead, see
// internal.ErrOutOfMemory.
var ErrOutOfMemory = internal.ErrOutOfMemory

// Vector is a dynamic array over a single block of slots. Slots [0, Len())
// hold live elements, slots [Len(), Cap()) are free.
//
// Every operation that needs a bigger block builds the new block completely
// before the old elements are destroyed, so a failing element hook or a
// failed allocation leaves the vector as it was. When T's move can fail and T
// is copyable, elements are copied into the new block instead of moved.
//
// The zero value is an empty vector ready to use. A Vector must not be copied
// by assignment, use Clone. It is not safe for concurrent use.
type Vector[T any] struct {
	data internal.RawMemory[T]
	size int
}

// New returns an empty vector.
func New[T any]() *Vector[T] {
	return &Vector[T]{}
}

// NewSized returns a vector of n value-initialized elements with capacity n.
func NewSized[T any](n int) (*Vector[T], error) {
	v := &Vector[T]{}
	if err := v.data.Allocate(n); err != nil {
		return nil, err
	}
	l := lifecycleOf[T]()
	slots := v.data.Slots(0, n)
	for i := range slots {
		if err := l.initialize(&slots[i]); err != nil {
			l.destroyAll(slots[:i])
			v.data.Release()
			return nil, err
		}
	}
	v.size = n
	return v, nil
}

// Clone returns a copy of v with capacity v.Len().
func (v *Vector[T]) Clone() (*Vector[T], error) {
	c := &Vector[T]{}
	if err := c.data.Allocate(v.size); err != nil {
		return nil, err
	}
	if err := lifecycleOf[T]().copyAll(c.data.Slots(0, v.size), v.data.Slots(0, v.size)); err != nil {
		c.data.Release()
		return nil, err
	}
	c.size = v.size
	return c, nil
}

// Move returns a vector that took over v's elements and block. v is left
// empty.
func (v *Vector[T]) Move() *Vector[T] {
	m := &Vector[T]{}
	m.Swap(v)
	return m
}

// Release destroys all elements and drops the block. The vector is empty
// afterwards and may be reused.
func (v *Vector[T]) Release() {
	lifecycleOf[T]().destroyAll(v.data.Slots(0, v.size))
	v.size = 0
	v.data.Release()
}

func (v *Vector[T]) Len() int {
	return v.size
}

func (v *Vector[T]) Cap() int {
	return v.data.Capacity()
}

// At returns the address of element i. i must be in [0, Len()); this is only
// checked when built with invariants.
func (v *Vector[T]) At(i int) *T {
	if internal.Invariants && (i < 0 || i >= v.size) {
		panic(errors.AssertionFailedf("index %d out of range [0, %d)", i, v.size))
	}
	return v.data.At(i)
}

// Get returns element i. See At.
func (v *Vector[T]) Get(i int) T {
	return *v.At(i)
}

// Back returns the last element, or nil if the vector is empty.
func (v *Vector[T]) Back() *T {
	if v.size == 0 {
		return nil
	}
	return v.data.At(v.size - 1)
}

// Slice returns the live elements. The slice aliases the vector and is
// invalidated by any operation that changes its capacity.
func (v *Vector[T]) Slice() []T {
	return v.data.Slots(0, v.size)
}

// All iterates over the indexes and addresses of the live elements.
func (v *Vector[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := 0; i < v.size; i++ {
			if !yield(i, v.data.At(i)) {
				return
			}
		}
	}
}

// Values iterates over the live elements by value.
func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.size; i++ {
			if !yield(*v.data.At(i)) {
				return
			}
		}
	}
}

// Reserve makes the capacity at least capacity. A bigger block is allocated
// with exactly the requested capacity.
func (v *Vector[T]) Reserve(capacity int) error {
	if capacity <= v.data.Capacity() {
		return nil
	}
	var grown internal.RawMemory[T]
	if err := grown.Allocate(capacity); err != nil {
		return err
	}
	if err := v.relocate(lifecycleOf[T](), &grown, v.size, 0); err != nil {
		grown.Release()
		return err
	}
	return nil
}

// relocate transfers the live elements into grown, leaving gap free slots
// before the element at index at, then destroys the old elements and swaps
// grown in. On failure v is unchanged (unless T is an uncopyable type whose
// move failed) and grown holds no elements from v.
func (v *Vector[T]) relocate(l lifecycle[T], grown *internal.RawMemory[T], at, gap int) error {
	if err := l.transferConstruct(grown.Slots(0, at), v.data.Slots(0, at)); err != nil {
		return err
	}
	if err := l.transferConstruct(grown.Slots(at+gap, v.size+gap), v.data.Slots(at, v.size)); err != nil {
		l.destroyAll(grown.Slots(0, at))
		return err
	}
	l.destroyAll(v.data.Slots(0, v.size))
	v.data.Swap(grown)
	grown.Release()
	return nil
}

// Resize changes the length to n. New elements are value-initialized, removed
// ones destroyed. Growing reserves exactly n slots, it does not double.
// If initializing a new element fails the length is unchanged, although the
// capacity may already have grown.
func (v *Vector[T]) Resize(n int) error {
	if internal.Invariants && n < 0 {
		panic(errors.AssertionFailedf("negative length %d", n))
	}
	l := lifecycleOf[T]()
	if n > v.size {
		if err := v.Reserve(n); err != nil {
			return err
		}
		fresh := v.data.Slots(v.size, n)
		for i := range fresh {
			if err := l.initialize(&fresh[i]); err != nil {
				l.destroyAll(fresh[:i])
				return err
			}
		}
	} else if n < v.size {
		l.destroyAll(v.data.Slots(n, v.size))
	}
	v.size = n
	return nil
}

// grow returns the capacity of the next block when the current one is full.
func (v *Vector[T]) grow() int {
	return max(1, v.size*2)
}

// EmplaceBack appends an element built by construct directly in its slot and
// returns its address. construct receives a slot holding the zero value.
//
// When the vector is full, the new element is built in the new block before
// the existing elements are transferred; if construct fails nothing has been
// touched.
func (v *Vector[T]) EmplaceBack(construct func(slot *T) error) (*T, error) {
	var zero T
	if v.size < v.data.Capacity() {
		slot := v.data.At(v.size)
		if err := construct(slot); err != nil {
			*slot = zero
			return nil, err
		}
		v.size++
		return slot, nil
	}

	var grown internal.RawMemory[T]
	if err := grown.Allocate(v.grow()); err != nil {
		return nil, err
	}
	slot := grown.At(v.size)
	if err := construct(slot); err != nil {
		grown.Release()
		return nil, err
	}
	l := lifecycleOf[T]()
	if err := v.relocate(l, &grown, v.size, 1); err != nil {
		l.destroy(slot)
		grown.Release()
		return nil, err
	}
	v.size++
	return slot, nil
}

// PushBack appends a copy of value.
func (v *Vector[T]) PushBack(value T) (*T, error) {
	l := lifecycleOf[T]()
	return v.EmplaceBack(func(slot *T) error {
		return l.copyConstruct(slot, &value)
	})
}

// PushBackMove appends value by moving it. value is left moved-from.
func (v *Vector[T]) PushBackMove(value *T) (*T, error) {
	l := lifecycleOf[T]()
	return v.EmplaceBack(func(slot *T) error {
		return l.moveConstruct(slot, value)
	})
}

// PopBack destroys the last element. The vector must not be empty.
func (v *Vector[T]) PopBack() {
	if internal.Invariants && v.size == 0 {
		panic(errors.AssertionFailedf("PopBack on an empty vector"))
	}
	v.size--
	lifecycleOf[T]().destroy(v.data.At(v.size))
}

// Emplace inserts an element built by construct before position pos, which
// must be in [0, Len()], and returns the position of the new element.
//
// With free capacity the element is built aside first and then moved into
// place after the tail is shifted right. A failing shift of an element type
// with a fallible move leaves the vector one element longer with every slot
// destructible. Without free capacity the vector doubles, building the new
// element in the new block before anything else, and fails without changes.
func (v *Vector[T]) Emplace(pos int, construct func(slot *T) error) (int, error) {
	if internal.Invariants && (pos < 0 || pos > v.size) {
		panic(errors.AssertionFailedf("position %d out of range [0, %d]", pos, v.size))
	}
	if pos == v.size {
		_, err := v.EmplaceBack(construct)
		return pos, err
	}

	l := lifecycleOf[T]()
	if v.size < v.data.Capacity() {
		var tmp T
		if err := construct(&tmp); err != nil {
			return pos, err
		}
		if err := l.moveConstruct(v.data.At(v.size), v.data.At(v.size-1)); err != nil {
			l.destroy(&tmp)
			return pos, err
		}
		v.size++
		for i := v.size - 2; i > pos; i-- {
			if err := l.moveAssign(v.data.At(i), v.data.At(i-1)); err != nil {
				l.destroy(&tmp)
				return pos, err
			}
		}
		err := l.moveAssign(v.data.At(pos), &tmp)
		l.destroy(&tmp)
		return pos, err
	}

	var grown internal.RawMemory[T]
	if err := grown.Allocate(v.grow()); err != nil {
		return pos, err
	}
	slot := grown.At(pos)
	if err := construct(slot); err != nil {
		grown.Release()
		return pos, err
	}
	if err := v.relocate(l, &grown, pos, 1); err != nil {
		l.destroy(slot)
		grown.Release()
		return pos, err
	}
	v.size++
	return pos, nil
}

// Insert inserts a copy of value before position pos.
func (v *Vector[T]) Insert(pos int, value T) (int, error) {
	l := lifecycleOf[T]()
	return v.Emplace(pos, func(slot *T) error {
		return l.copyConstruct(slot, &value)
	})
}

// InsertMove inserts value before position pos by moving it.
func (v *Vector[T]) InsertMove(pos int, value *T) (int, error) {
	l := lifecycleOf[T]()
	return v.Emplace(pos, func(slot *T) error {
		return l.moveConstruct(slot, value)
	})
}

// Erase removes the element at pos, which must be in [0, Len()), and returns
// pos, now the position of the element that followed it. The capacity never
// changes.
func (v *Vector[T]) Erase(pos int) (int, error) {
	if internal.Invariants && (pos < 0 || pos >= v.size) {
		panic(errors.AssertionFailedf("position %d out of range [0, %d)", pos, v.size))
	}
	l := lifecycleOf[T]()
	for i := pos; i < v.size-1; i++ {
		if err := l.moveAssign(v.data.At(i), v.data.At(i+1)); err != nil {
			return pos, err
		}
	}
	v.size--
	l.destroy(v.data.At(v.size))
	return pos, nil
}

// Swap exchanges the contents of v and other.
func (v *Vector[T]) Swap(other *Vector[T]) {
	v.data.Swap(&other.data)
	v.size, other.size = other.size, v.size
}

// Assign makes v a copy of rhs. If rhs does not fit in v's capacity a full
// copy is built first and swapped in, so a failure leaves v unchanged.
// Otherwise the elements are copied over v's own.
func (v *Vector[T]) Assign(rhs *Vector[T]) error {
	if v == rhs {
		return nil
	}
	if rhs.size > v.data.Capacity() {
		tmp, err := rhs.Clone()
		if err != nil {
			return err
		}
		v.Swap(tmp)
		tmp.Release()
		return nil
	}

	l := lifecycleOf[T]()
	common := min(v.size, rhs.size)
	for i := 0; i < common; i++ {
		if err := l.copyAssign(v.data.At(i), rhs.data.At(i)); err != nil {
			return err
		}
	}
	if rhs.size < v.size {
		l.destroyAll(v.data.Slots(rhs.size, v.size))
	} else if err := l.copyAll(v.data.Slots(v.size, rhs.size), rhs.data.Slots(v.size, rhs.size)); err != nil {
		return err
	}
	v.size = rhs.size
	return nil
}

// MoveAssign exchanges the contents of v and rhs. rhs ends up with what v
// held before.
func (v *Vector[T]) MoveAssign(rhs *Vector[T]) {
	v.Swap(rhs)
}
