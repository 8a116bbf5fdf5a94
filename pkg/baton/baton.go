package baton

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Handle is a lease on the value of one chain. It is a small value: copying
// it moves the lease to a new place without changing what it observes. Once
// its node is discarded every copy becomes stale. The zero Handle is stale.
type Handle[T any] struct {
	c   *chain[T]
	idx int32
	gen uint32
}

// New creates the root handle of a new chain holding value.
func New[T any](value T) Handle[T] {
	return NewWith(value, Options[T]{})
}

// NewDefault creates a chain holding the zero value of T.
func NewDefault[T any]() Handle[T] {
	var zero T
	return New(zero)
}

// NewWith creates the root handle of a new chain configured by opts.
func NewWith[T any](value T, opts Options[T]) Handle[T] {
	c := newChain(value, opts)
	idx := c.alloc(none, holding)
	return Handle[T]{c: c, idx: idx, gen: c.nodes[idx].gen}
}

func (h Handle[T]) node() *node {
	if h.c == nil {
		return nil
	}
	return h.c.lookup(h.idx, h.gen)
}

// Peek returns the value when h is the current holder.
func (h Handle[T]) Peek() (T, bool) {
	if !h.Holding() {
		var zero T
		return zero, false
	}
	return *h.c.value, true
}

// PeekMut returns a pointer to the value when h is the current holder. The
// pointer stays the same across transfers and is valid until the value is
// released; writes through it after h stops holding are a caller bug.
func (h Handle[T]) PeekMut() (*T, bool) {
	if !h.Holding() {
		return nil, false
	}
	return h.c.value, true
}

// Update runs fn on the value if h holds it and reports whether it ran.
func (h Handle[T]) Update(fn func(v *T)) bool {
	v, ok := h.PeekMut()
	if !ok {
		return false
	}
	fn(v)
	return true
}

// Transfer moves the value to a new successor handle. h becomes empty but
// stays usable. It returns false when h has nothing to give.
func (h Handle[T]) Transfer() (Handle[T], bool) {
	if !h.Holding() {
		return Handle[T]{}, false
	}

	c := h.c
	c.nodes[h.idx].slot = empty
	next := c.alloc(h.idx, holding)
	c.nodes[h.idx].next = next

	glog.V(2).Infof("baton %s: #%d transferred to #%d", c.name, h.idx, next)
	return Handle[T]{c: c, idx: next, gen: c.nodes[next].gen}, true
}

// Discard ends the lease. A holding handle returns the value to its nearest
// living predecessor, or releases it when there is none. An empty handle is
// spliced out so its neighbours stay linked. Discarding a stale handle does
// nothing and returns ErrStaleHandle.
func (h Handle[T]) Discard() error {
	if h.node() == nil {
		glog.V(1).Infof("discard of stale %s", h)
		return errors.Wrapf(ErrStaleHandle, "discard %s", h)
	}
	h.c.discard(h.idx)
	return nil
}

// Holding reports whether h is the current holder of the value.
func (h Handle[T]) Holding() bool {
	nd := h.node()
	return nd != nil && nd.slot == holding
}

// Valid reports whether h still refers to a live node.
func (h Handle[T]) Valid() bool {
	return h.node() != nil
}

// Released reports whether the chain's value has been released. The zero
// Handle belongs to no chain and reports false.
func (h Handle[T]) Released() bool {
	return h.c != nil && h.c.value == nil
}

// Len returns the number of live handles in h's chain.
func (h Handle[T]) Len() int {
	if h.c == nil {
		return 0
	}
	return h.c.live
}

// ChainID identifies the chain h was minted from.
func (h Handle[T]) ChainID() uuid.UUID {
	if h.c == nil {
		return uuid.Nil
	}
	return h.c.id
}

// CreatedAt is the time (UTC) the chain was created.
func (h Handle[T]) CreatedAt() time.Time {
	if h.c == nil {
		return time.Time{}
	}
	return h.c.createdAt
}

// String returns baton(<chain>#<index>:<state>), state being holding, empty or stale.
func (h Handle[T]) String() string {
	if h.c == nil {
		return "baton(nil)"
	}
	nd := h.node()
	if nd == nil {
		return fmt.Sprintf("baton(%s#%d:stale)", h.c.name, h.idx)
	}
	return fmt.Sprintf("baton(%s#%d:%s)", h.c.name, h.idx, nd.slot)
}
