package spawn

import (
	"errors"
	"fmt"

	"github.com/Kode-Bolds/Froggies-sub002/aggregate"
	"github.com/Kode-Bolds/Froggies-sub002/model"
)

// Request asks for one unit of Kind to be instantiated at Pose.
type Request struct {
	Kind  model.UnitKind `json:"kind"`
	Owner int            `json:"owner"`
	Pose  model.Pose     `json:"pose"`
}

// Factory turns a request into a live unit and returns its id.
type Factory interface {
	Instantiate(r Request) (int, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(r Request) (int, error)

func (f FactoryFunc) Instantiate(r Request) (int, error) { return f(r) }

// Spawned pairs an applied request with the id the factory assigned.
type Spawned struct {
	Request
	ID int `json:"id"`
}

// Queue decouples spawn requests from instantiation. Requests may arrive from
// any goroutine; Apply runs in the serial phase.
type Queue struct {
	buf aggregate.Buffer[Request]
}

func (q *Queue) Request(r Request) { q.buf.Push(r) }

func (q *Queue) Pending() int { return q.buf.Len() }

// Apply hands every pending request to f exactly once. Failed requests are
// dropped and their errors joined.
func (q *Queue) Apply(f Factory) ([]Spawned, error) {
	var (
		out  []Spawned
		errs []error
	)
	q.buf.Apply(func(r Request) {
		id, err := f.Instantiate(r)
		if err != nil {
			errs = append(errs, fmt.Errorf("spawn %s for owner %d: %w", r.Kind, r.Owner, err))
			return
		}
		out = append(out, Spawned{Request: r, ID: id})
	})
	return out, errors.Join(errs...)
}
