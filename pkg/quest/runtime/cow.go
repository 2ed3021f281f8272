package runtime

import (
	"sync"
	"sync/atomic"
)

// Cloner is implemented by payloads a Cow can detach.
type Cloner[T any] interface {
	Clone() T
}

// shared is a payload viewed by more than one Cow. It is never mutated.
type shared[T any] struct {
	val  T
	refs atomic.Int32
}

// Cow is a copy-on-write cell. It is Owned until cloned; cloning moves it to
// Shared and hands the clone the same payload. The first write through any
// holder of a shared payload detaches that holder onto a private copy, unless
// it is the last holder, in which case it simply takes the payload back.
//
// Readers never observe a write that started after their read began: a write
// either mutates an owned payload under the write lock or clones out of the
// shared one first.
type Cow[T Cloner[T]] struct {
	mu     sync.RWMutex
	owned  T
	shared *shared[T]
}

// NewCow returns an owned cell holding val.
func NewCow[T Cloner[T]](val T) *Cow[T] {
	return &Cow[T]{owned: val}
}

// WithRef calls f with the current payload under the read lock. f must not
// mutate the payload or retain it.
func (c *Cow[T]) WithRef(f func(T)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.shared != nil {
		f(c.shared.val)
		return
	}
	f(c.owned)
}

// WithMut calls f with an exclusively owned payload under the write lock,
// detaching from shared state first.
func (c *Cow[T]) WithMut(f func(T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detach()
	f(c.owned)
}

func (c *Cow[T]) detach() {
	s := c.shared
	if s == nil {
		return
	}
	if s.refs.Load() == 1 {
		c.owned = s.val
	} else {
		c.owned = s.val.Clone()
		s.refs.Add(-1)
	}
	c.shared = nil
}

// Clone returns a new cell viewing the same payload. No copy is made until
// one side writes.
func (c *Cow[T]) Clone() *Cow[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shared == nil {
		c.shared = &shared[T]{val: c.owned}
		c.shared.refs.Store(1)
		var zero T
		c.owned = zero
	}
	c.shared.refs.Add(1)
	return &Cow[T]{shared: c.shared}
}

// IsShared reports whether the cell currently views shared state.
func (c *Cow[T]) IsShared() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.shared != nil
}
