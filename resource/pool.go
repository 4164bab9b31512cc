package resource

import (
	"sync"

	"github.com/Kode-Bolds/Froggies-sub002/aggregate"
	"github.com/Kode-Bolds/Froggies-sub002/model"
)

// Deposit is one aggregation event. A negative Amount spends from the pool.
type Deposit struct {
	Unit   int                `json:"unit"`
	Owner  int                `json:"owner"`
	Type   model.ResourceType `json:"type"`
	Amount int                `json:"amount"`
}

// Pool holds the global resource counters. It has no exported mutators;
// counters change only when an Aggregator applies its buffer.
type Pool struct {
	mu       sync.RWMutex
	counters map[model.ResourceType]int64
}

func NewPool() *Pool {
	p := &Pool{counters: make(map[model.ResourceType]int64, len(model.ResourceTypes))}
	for _, t := range model.ResourceTypes {
		p.counters[t] = 0
	}
	return p
}

func (p *Pool) Get(t model.ResourceType) int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.counters[t]
}

// Snapshot returns a copy of every counter.
func (p *Pool) Snapshot() map[model.ResourceType]int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[model.ResourceType]int64, len(p.counters))
	for t, v := range p.counters {
		out[t] = v
	}
	return out
}

func (p *Pool) add(t model.ResourceType, n int64) {
	p.mu.Lock()
	p.counters[t] += n
	p.mu.Unlock()
}

// Aggregator collects deposits from parallel producers and merges them into
// its Pool in a serial apply phase.
type Aggregator struct {
	buf  aggregate.Buffer[Deposit]
	pool *Pool
}

func NewAggregator(pool *Pool) *Aggregator {
	return &Aggregator{pool: pool}
}

func (a *Aggregator) Pool() *Pool { return a.pool }

// Emit records a deposit. Safe for concurrent use.
func (a *Aggregator) Emit(d Deposit) { a.buf.Push(d) }

// Pending is the number of deposits waiting to be applied.
func (a *Aggregator) Pending() int { return a.buf.Len() }

// Apply merges every pending deposit into the pool exactly once and returns
// the applied events.
func (a *Aggregator) Apply() []Deposit {
	applied := a.buf.Drain()
	for _, d := range applied {
		if d.Type == model.ResourceNone || d.Amount == 0 {
			continue
		}
		a.pool.add(d.Type, int64(d.Amount))
	}
	return applied
}
