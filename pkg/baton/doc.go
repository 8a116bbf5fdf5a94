// Package baton provides Handle[T], an exclusive and transferable lease on a
// single value. Handles form a chain: Transfer passes the value forward to a
// freshly minted successor, and Discard hands it back to the nearest living
// predecessor or releases it when no predecessor is left. At most one live
// handle of a chain holds the value at any time.
//
// Highlights:
// - New/NewWith/NewDefault: create the root handle of a chain
// - Peek/PeekMut/Update: observe or mutate the value through the holder
// - Transfer: move the value to a new successor handle
// - Discard: reclaim backward when holding, splice out when empty
//
// Nodes live in a per-chain arena addressed by index and generation, so a
// copied Handle that outlived its node is detected as stale instead of
// touching a reused slot. A chain is not safe for concurrent use.
package baton
