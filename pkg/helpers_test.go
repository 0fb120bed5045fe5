package vector

import (
	"github.com/cockroachdb/errors"
)

var errInjected = errors.New("injected failure")

// stats counts the lifecycle hooks run on the elements that share it.
type stats struct {
	copies   int
	moves    int
	destroys int
	// copyBudget is the number of copies that succeed before CopyFrom starts
	// failing. Negative means unlimited.
	copyBudget int
}

func newStats() *stats {
	return &stats{copyBudget: -1}
}

func (s *stats) copy() error {
	if s.copyBudget == 0 {
		return errInjected
	}
	if s.copyBudget > 0 {
		s.copyBudget--
	}
	s.copies++
	return nil
}

// tracked has a move declared not to fail.
type tracked struct {
	val int
	st  *stats
}

func (t *tracked) CopyFrom(src *tracked) error {
	if src.st != nil {
		if err := src.st.copy(); err != nil {
			return err
		}
	}
	*t = *src
	return nil
}

func (t *tracked) MoveFrom(src *tracked) error {
	if src.st != nil {
		src.st.moves++
	}
	*t = *src
	*src = tracked{}
	return nil
}

func (*tracked) NothrowMove() {}

func (t *tracked) Destroy() {
	if t.st != nil {
		t.st.destroys++
	}
}

// fragile has a move that may fail, so vectors copy it when relocating.
type fragile struct {
	val int
	st  *stats
}

func (f *fragile) CopyFrom(src *fragile) error {
	if src.st != nil {
		if err := src.st.copy(); err != nil {
			return err
		}
	}
	*f = *src
	return nil
}

func (f *fragile) MoveFrom(src *fragile) error {
	if src.st != nil {
		src.st.moves++
	}
	*f = *src
	*src = fragile{}
	return nil
}

func (f *fragile) Destroy() {
	if f.st != nil {
		f.st.destroys++
	}
}

// brittle is copyable and its move fails when failMove is set on the source.
type brittle struct {
	val      int
	failMove bool
	st       *stats
}

func (b *brittle) CopyFrom(src *brittle) error {
	if src.st != nil {
		if err := src.st.copy(); err != nil {
			return err
		}
	}
	*b = *src
	return nil
}

func (b *brittle) MoveFrom(src *brittle) error {
	if src.failMove {
		return errInjected
	}
	if src.st != nil {
		src.st.moves++
	}
	*b = *src
	*src = brittle{}
	return nil
}

func (b *brittle) Destroy() {
	if b.st != nil {
		b.st.destroys++
	}
}

// handle cannot be copied and has a fallible move.
type handle struct {
	id int
	st *stats
}

func (*handle) Uncopyable() {}

func (h *handle) MoveFrom(src *handle) error {
	if src.st != nil {
		src.st.moves++
	}
	*h = *src
	*src = handle{}
	return nil
}

// liar declares a move that cannot fail, then fails.
type liar struct {
	val int
}

func (l *liar) MoveFrom(src *liar) error {
	if src.val < 0 {
		return errInjected
	}
	*l = *src
	return nil
}

func (*liar) NothrowMove() {}

// defaulted is value-initialized to 7.
type defaulted struct {
	v int
}

func (d *defaulted) Init() error {
	d.v = 7
	return nil
}

// initBudget is the number of budgeted values that initialize successfully.
var initBudget int

type budgeted struct {
	ok bool
}

func (b *budgeted) Init() error {
	if initBudget == 0 {
		return errInjected
	}
	initBudget--
	b.ok = true
	return nil
}

func ints(v *Vector[int]) []int {
	return append([]int(nil), v.Slice()...)
}

func fromInts(xs ...int) *Vector[int] {
	v := New[int]()
	for _, x := range xs {
		if _, err := v.PushBack(x); err != nil {
			panic(err)
		}
	}
	return v
}

func emplaceTracked(v *Vector[tracked], st *stats, vals ...int) error {
	for _, val := range vals {
		if _, err := v.EmplaceBack(func(slot *tracked) error {
			*slot = tracked{val: val, st: st}
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func emplaceFragile(v *Vector[fragile], st *stats, vals ...int) error {
	for _, val := range vals {
		if _, err := v.EmplaceBack(func(slot *fragile) error {
			*slot = fragile{val: val, st: st}
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}
