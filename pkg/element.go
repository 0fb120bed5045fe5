package vector

import (
	"github.com/cockroachdb/errors"
)

// ErrNotCopyable is returned when a copy of an Uncopyable element is needed.
var ErrNotCopyable = errors.New("element type is not copyable")

// The interfaces below are implemented on *T by element types that need
// more than plain Go assignment over their lifetime. Slots that hold no live
// element hold the zero value of T; every hook that constructs into a slot
// receives it in that state.

// Initializer value-initializes a fresh element. Without it a fresh element
// is the zero value.
type Initializer interface {
	Init() error
}

// Copier constructs the receiver as a copy of src.
type Copier[T any] interface {
	CopyFrom(src *T) error
}

// Mover constructs the receiver by taking over the state of src. src is
// destroyed afterwards, so it must be left destructible.
type Mover[T any] interface {
	MoveFrom(src *T) error
}

// NothrowMover declares that MoveFrom never fails. Such elements are always
// moved when a vector relocates them.
type NothrowMover interface {
	NothrowMove()
}

// Uncopyable marks element types that must never be copied.
type Uncopyable interface {
	Uncopyable()
}

// Destroyer releases whatever an element holds. Destroy is also called on
// moved-from elements, which are left as the zero value by default moves.
type Destroyer interface {
	Destroy()
}

// lifecycle carries the capabilities of T, queried once per operation.
type lifecycle[T any] struct {
	initializer bool
	copier      bool
	mover       bool
	nothrowMove bool
	uncopyable  bool
	destroyer   bool
}

func lifecycleOf[T any]() lifecycle[T] {
	p := any((*T)(nil))
	var l lifecycle[T]
	_, l.initializer = p.(Initializer)
	_, l.copier = p.(Copier[T])
	_, l.mover = p.(Mover[T])
	_, l.nothrowMove = p.(NothrowMover)
	_, l.uncopyable = p.(Uncopyable)
	_, l.destroyer = p.(Destroyer)
	return l
}

// moves reports whether bulk transfers relocate elements by moving them.
// Moving is used when it cannot fail, or when copying is not an option.
// Otherwise elements are copied so the source survives a failed transfer.
func (l lifecycle[T]) moves() bool {
	return !l.mover || l.nothrowMove || l.uncopyable
}

func (l lifecycle[T]) initialize(dst *T) error {
	if !l.initializer {
		return nil
	}
	if err := any(dst).(Initializer).Init(); err != nil {
		var zero T
		*dst = zero
		return err
	}
	return nil
}

func (l lifecycle[T]) copyConstruct(dst, src *T) error {
	if l.uncopyable {
		return errors.WithStack(ErrNotCopyable)
	}
	if !l.copier {
		*dst = *src
		return nil
	}
	if err := any(dst).(Copier[T]).CopyFrom(src); err != nil {
		var zero T
		*dst = zero
		return err
	}
	return nil
}

func (l lifecycle[T]) moveConstruct(dst, src *T) error {
	var zero T
	if !l.mover {
		*dst = *src
		*src = zero
		return nil
	}
	if err := any(dst).(Mover[T]).MoveFrom(src); err != nil {
		*dst = zero
		if l.nothrowMove {
			panic(errors.NewAssertionErrorWithWrappedErrf(err, "move declared not to fail failed"))
		}
		return err
	}
	return nil
}

// transferConstruct constructs dst[i] from src[i] following the move-or-copy
// policy. On failure the elements already constructed in dst are destroyed.
func (l lifecycle[T]) transferConstruct(dst, src []T) error {
	move := l.moves()
	for i := range src {
		var err error
		if move {
			err = l.moveConstruct(&dst[i], &src[i])
		} else {
			err = l.copyConstruct(&dst[i], &src[i])
		}
		if err != nil {
			l.destroyAll(dst[:i])
			return err
		}
	}
	return nil
}

// copyAll copy-constructs dst[i] from src[i], unwinding on failure.
func (l lifecycle[T]) copyAll(dst, src []T) error {
	for i := range src {
		if err := l.copyConstruct(&dst[i], &src[i]); err != nil {
			l.destroyAll(dst[:i])
			return err
		}
	}
	return nil
}

// moveAssign replaces the live element dst with the state of src. If the move
// fails dst is left as the zero value.
func (l lifecycle[T]) moveAssign(dst, src *T) error {
	l.destroy(dst)
	return l.moveConstruct(dst, src)
}

// copyAssign replaces the live element dst with a copy of src. The copy is
// built before dst is destroyed.
func (l lifecycle[T]) copyAssign(dst, src *T) error {
	var tmp T
	if err := l.copyConstruct(&tmp, src); err != nil {
		return err
	}
	l.destroy(dst)
	*dst = tmp
	return nil
}

func (l lifecycle[T]) destroy(p *T) {
	if l.destroyer {
		any(p).(Destroyer).Destroy()
	}
	var zero T
	*p = zero
}

func (l lifecycle[T]) destroyAll(s []T) {
	if !l.destroyer {
		clear(s)
		return
	}
	for i := range s {
		l.destroy(&s[i])
	}
}
