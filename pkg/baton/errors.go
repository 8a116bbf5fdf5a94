package baton

import "github.com/pkg/errors"

// ErrStaleHandle is returned when a handle no longer refers to a live node:
// it was already discarded, it is a copy of a discarded handle, or it is the
// zero Handle.
var ErrStaleHandle = errors.New("baton: stale handle")
