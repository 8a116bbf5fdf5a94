package baton

const defaultCapacity = 4

// Options configures a chain created with NewWith.
type Options[T any] struct {
	// Name labels the chain in logs and String output. Defaults to the
	// short form of the chain id.
	Name string
	// Capacity preallocates arena slots for the expected chain length. The
	// arena never shrinks below it.
	Capacity int
	// OnRelease is called exactly once with the value when the last holder
	// without a living predecessor is discarded.
	OnRelease func(value T)
}

func (o Options[T]) capacity() int {
	if o.Capacity > 0 {
		return o.Capacity
	}
	return defaultCapacity
}
