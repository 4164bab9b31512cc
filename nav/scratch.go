package nav

import "container/heap"

type searchState uint8

const (
	untested searchState = iota
	open
	closed
)

func (s searchState) String() string {
	switch s {
	case untested:
		return "untested"
	case open:
		return "open"
	case closed:
		return "closed"
	default:
		return "unknown"
	}
}

// cell is the search bookkeeping for one node, addressed by node index.
// parent and child are indices into the same table; -1 means none.
type cell struct {
	state   searchState
	g, h, f float64
	parent  int32
	child   int32
	heapIdx int
}

var blankCell = cell{parent: -1, child: -1, heapIdx: -1}

// scratch is one search's arena. Concurrent searches each hold their own,
// so parent/child links of one search are never visible to another.
type scratch struct {
	cells   []cell
	touched []int32
	open    openSet
}

func newScratch(n int) *scratch {
	s := &scratch{cells: make([]cell, n)}
	for i := range s.cells {
		s.cells[i] = blankCell
	}
	s.open.cells = s.cells
	return s
}

// touch records i for the next reset the first time a search visits it.
// Callers move the cell out of untested immediately afterwards.
func (s *scratch) touch(i int32) *cell {
	c := &s.cells[i]
	if c.state == untested {
		s.touched = append(s.touched, i)
	}
	return c
}

// reset clears only the cells the previous search touched.
func (s *scratch) reset() {
	for _, i := range s.touched {
		s.cells[i] = blankCell
	}
	s.touched = s.touched[:0]
	s.open.items = s.open.items[:0]
}

// countState is used by tests to inspect what a search left behind.
func (s *scratch) countState(st searchState) int {
	n := 0
	for _, i := range s.touched {
		if s.cells[i].state == st {
			n++
		}
	}
	return n
}

// openSet is a binary heap of node indices ordered by ascending f, ties
// broken by lowest h.
type openSet struct {
	items []int32
	cells []cell
}

var _ heap.Interface = (*openSet)(nil)

func (o *openSet) Len() int { return len(o.items) }

func (o *openSet) Less(i, j int) bool {
	a, b := &o.cells[o.items[i]], &o.cells[o.items[j]]
	if a.f != b.f {
		return a.f < b.f
	}
	return a.h < b.h
}

func (o *openSet) Swap(i, j int) {
	o.items[i], o.items[j] = o.items[j], o.items[i]
	o.cells[o.items[i]].heapIdx = i
	o.cells[o.items[j]].heapIdx = j
}

func (o *openSet) Push(x any) {
	i := x.(int32)
	o.cells[i].heapIdx = len(o.items)
	o.items = append(o.items, i)
}

func (o *openSet) Pop() any {
	old := o.items
	n := len(old)
	i := old[n-1]
	o.items = old[:n-1]
	o.cells[i].heapIdx = -1
	return i
}
