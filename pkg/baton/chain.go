package baton

import (
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
)

type slotState uint8

const (
	empty slotState = iota
	holding
)

func (s slotState) String() string {
	if s == holding {
		return "holding"
	}
	return "empty"
}

// none marks a missing prev/next link.
const none int32 = -1

// node is an arena slot. prev and next are indices into the same arena and
// never keep a node alive; only Discard frees a node.
type node struct {
	gen   uint32
	prev  int32
	next  int32
	slot  slotState
	alive bool
}

// chain is the arena shared by every handle minted from one New call.
// value is the only allocation of the leased value; it moves between nodes
// by flipping their slot state and is never copied.
type chain[T any] struct {
	id        uuid.UUID
	createdAt time.Time
	name      string

	nodes    []node
	freeList []int32
	minCap   int
	gen      uint32
	live     int

	value     *T
	onRelease func(T)
}

func newChain[T any](value T, opts Options[T]) *chain[T] {
	id := uuid.New()
	name := opts.Name
	if name == "" {
		name = id.String()[:8]
	}

	v := new(T)
	*v = value

	return &chain[T]{
		id:        id,
		createdAt: time.Now().UTC(),
		name:      name,
		nodes:     make([]node, 0, opts.capacity()),
		minCap:    opts.capacity(),
		value:     v,
		onRelease: opts.OnRelease,
	}
}

// alloc takes a slot from the free list or grows the arena. Every
// allocation gets a fresh chain-wide generation, so a slot that was trimmed
// and grown again never matches an old Handle. Pointers into nodes are
// invalid after alloc returns.
func (c *chain[T]) alloc(prev int32, slot slotState) int32 {
	var idx int32
	if n := len(c.freeList); n > 0 {
		idx = c.freeList[n-1]
		c.freeList = c.freeList[:n-1]
	} else {
		c.nodes = append(c.nodes, node{})
		idx = int32(len(c.nodes) - 1)
	}

	c.gen++
	nd := &c.nodes[idx]
	nd.gen, nd.prev, nd.next, nd.slot, nd.alive = c.gen, prev, none, slot, true
	c.live++
	return idx
}

// free retires a slot. Dead slots at the end of the arena are cut off so
// the arena follows the current chain length rather than its peak.
func (c *chain[T]) free(idx int32) {
	nd := &c.nodes[idx]
	nd.prev, nd.next, nd.slot, nd.alive = none, none, empty, false
	c.live--

	if int(idx) != len(c.nodes)-1 {
		c.freeList = append(c.freeList, idx)
		return
	}
	c.trim()
}

func (c *chain[T]) trim() {
	n := len(c.nodes)
	for n > 0 && !c.nodes[n-1].alive {
		n--
	}
	c.nodes = c.nodes[:n]

	kept := c.freeList[:0]
	for _, i := range c.freeList {
		if int(i) < n {
			kept = append(kept, i)
		}
	}
	c.freeList = kept

	if cap(c.nodes) > 4*c.minCap && n < cap(c.nodes)/4 {
		nodes := make([]node, n, cap(c.nodes)/2)
		copy(nodes, c.nodes)
		c.nodes = nodes
		c.freeList = append([]int32(nil), c.freeList...)
	}
}

func (c *chain[T]) lookup(idx int32, gen uint32) *node {
	if idx < 0 || int(idx) >= len(c.nodes) {
		return nil
	}
	nd := &c.nodes[idx]
	if !nd.alive || nd.gen != gen {
		return nil
	}
	return nd
}

// discard runs the reclaim step for idx and frees it.
//
//	holding, prev    -> prev becomes the holder
//	holding, no prev -> value is released
//	empty            -> node is spliced out between prev and next
//
// An empty node always has a live next, and a holding node never has one.
// The release hook runs last, after the arena is consistent again.
func (c *chain[T]) discard(idx int32) {
	nd := &c.nodes[idx]
	var released *T

	switch {
	case nd.slot == holding && nd.prev != none:
		p := &c.nodes[nd.prev]
		p.slot = holding
		p.next = none
		glog.V(2).Infof("baton %s: #%d returned value to #%d", c.name, idx, nd.prev)
	case nd.slot == holding:
		released, c.value = c.value, nil
	default:
		c.nodes[nd.next].prev = nd.prev
		if nd.prev != none {
			c.nodes[nd.prev].next = nd.next
		}
		glog.V(2).Infof("baton %s: #%d spliced out (prev=%d next=%d)", c.name, idx, nd.prev, nd.next)
	}

	c.free(idx)

	if released != nil {
		glog.V(1).Infof("baton %s: value released", c.name)
		if c.onRelease != nil {
			c.onRelease(*released)
		}
	}
}
