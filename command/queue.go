package command

import "errors"

// ErrQueueOverflow is returned when a command is offered to a full queue.
// The queue is left unchanged.
var ErrQueueOverflow = errors.New("command queue full")

// DefaultCapacity is used when a queue is built with a non-positive capacity.
const DefaultCapacity = 16

// Queue is one unit's bounded, ordered list of pending orders. The head is
// the active command. A Queue is owned by a single unit and is not safe for
// concurrent use.
type Queue struct {
	items []*Command
	cap   int
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{items: make([]*Command, 0, capacity), cap: capacity}
}

func (q *Queue) Len() int { return len(q.items) }
func (q *Queue) Cap() int { return q.cap }

// Push appends c to the tail.
func (q *Queue) Push(c *Command) error {
	if len(q.items) >= q.cap {
		return ErrQueueOverflow
	}
	q.items = append(q.items, c)
	return nil
}

// PushFront makes c the new head. The previous head is reset to Queued so
// its lifecycle restarts when it becomes active again.
func (q *Queue) PushFront(c *Command) error {
	if len(q.items) >= q.cap {
		return ErrQueueOverflow
	}
	if len(q.items) > 0 {
		q.items[0].Reset()
	}
	q.items = append(q.items, nil)
	copy(q.items[1:], q.items)
	q.items[0] = c
	return nil
}

// Head returns the active command, or nil when the queue is empty.
func (q *Queue) Head() *Command {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}

// Pop removes and returns the head.
func (q *Queue) Pop() *Command {
	if len(q.items) == 0 {
		return nil
	}
	c := q.items[0]
	copy(q.items, q.items[1:])
	q.items[len(q.items)-1] = nil
	q.items = q.items[:len(q.items)-1]
	return c
}

// Clear drops every queued command and returns how many were dropped.
func (q *Queue) Clear() int {
	n := len(q.items)
	clear(q.items)
	q.items = q.items[:0]
	return n
}

// Items returns a copy of the queue contents, head first.
func (q *Queue) Items() []Command {
	out := make([]Command, len(q.items))
	for i, c := range q.items {
		out[i] = *c
	}
	return out
}
