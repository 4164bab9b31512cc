// Package aggregate provides the collect-then-apply buffer used wherever many
// units produce events in parallel that must land exactly once in shared
// state.
package aggregate

import "sync"

// Buffer is an append-only multi-producer buffer. Producers call Push from
// any goroutine; a single consumer drains it in a serial phase.
type Buffer[T any] struct {
	mu    sync.Mutex
	items []T
}

// Push appends one event.
func (b *Buffer[T]) Push(v T) {
	b.mu.Lock()
	b.items = append(b.items, v)
	b.mu.Unlock()
}

func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Drain swaps the contents out and leaves the buffer empty. Each event is
// returned by exactly one Drain.
func (b *Buffer[T]) Drain() []T {
	b.mu.Lock()
	out := b.items
	b.items = nil
	b.mu.Unlock()
	return out
}

// Apply drains the buffer and calls fn for every event in push order. It
// returns the number of events applied; a second Apply with no new pushes
// applies nothing.
func (b *Buffer[T]) Apply(fn func(T)) int {
	items := b.Drain()
	for _, v := range items {
		fn(v)
	}
	return len(items)
}
