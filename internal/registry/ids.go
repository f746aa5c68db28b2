package registry

// DefaultFirstID is the identifier handed to the first image of a run.
const DefaultFirstID = 1

// IDAllocator hands out increasing image identifiers. Identifiers are never
// reused, even when the image they were handed to is discarded.
type IDAllocator struct {
	next int
}

// NewIDAllocator returns an allocator whose first identifier is first.
func NewIDAllocator(first int) *IDAllocator {
	return &IDAllocator{next: first}
}

// Next returns a fresh identifier.
func (a *IDAllocator) Next() int {
	id := a.next
	a.next++
	return id
}

// Peek returns the identifier the next call to Next will return.
func (a *IDAllocator) Peek() int {
	return a.next
}
