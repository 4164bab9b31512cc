package sim

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Kode-Bolds/Froggies-sub002/aggregate"
	"github.com/Kode-Bolds/Froggies-sub002/model"
	"github.com/Kode-Bolds/Froggies-sub002/nav"
	"github.com/Kode-Bolds/Froggies-sub002/resource"
	"github.com/Kode-Bolds/Froggies-sub002/spawn"
	"github.com/Kode-Bolds/Froggies-sub002/unit"
)

var (
	ErrUnknownUnit           = errors.New("unknown unit")
	ErrUnknownKind           = errors.New("unknown unit kind")
	ErrInvalidTarget         = errors.New("invalid command target")
	ErrOutOfBounds           = errors.New("position outside grid")
	ErrInsufficientResources = errors.New("insufficient resources")
)

// Config is the pre-validated data the world is built from.
type Config struct {
	Grid          model.GridSpec
	BlockPolicy   nav.BlockPolicy
	Workers       int // parallel advance workers; <= 0 uses GOMAXPROCS
	QueueCapacity int // default per-unit queue capacity
	Kinds         map[model.UnitKind]unit.Stats
}

// World owns every unit, node and depot. Boundary calls and ticks are
// serialised by mu; inside a tick units advance in parallel.
type World struct {
	mu sync.Mutex

	tick    uint64
	grid    *nav.Grid
	pf      *nav.Pathfinder
	kinds   map[model.UnitKind]unit.Stats
	workers int

	units     map[int]*unit.Unit
	order     []int
	nextUnit  int
	nodes     map[int]*resource.Node
	nodeOrder []int
	depots    map[int]resource.Depot
	depotIDs  []int

	pool     *resource.Pool
	agg      *resource.Aggregator
	reserved map[model.ResourceType]int64
	damage   aggregate.Buffer[unit.Damage]
	spawns   spawn.Queue
	factory  spawn.Factory

	nextCmd atomic.Uint64
	view    map[int]unit.TargetInfo
	dirty   map[model.Coord]struct{}
}

type Option func(*World)

// WithFactory replaces the world's own instantiation for spawn requests.
func WithFactory(f spawn.Factory) Option {
	return func(w *World) { w.factory = f }
}

func New(cfg Config, opts ...Option) (*World, error) {
	g, err := nav.NewGrid(cfg.Grid)
	if err != nil {
		return nil, err
	}
	kinds := make(map[model.UnitKind]unit.Stats, len(cfg.Kinds))
	for k, s := range cfg.Kinds {
		s.Kind = k
		if s.QueueCapacity <= 0 {
			s.QueueCapacity = cfg.QueueCapacity
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("unit kind: %w", err)
		}
		kinds[k] = s
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	pool := resource.NewPool()
	w := &World{
		grid:     g,
		pf:       nav.NewPathfinder(g, cfg.BlockPolicy),
		kinds:    kinds,
		workers:  workers,
		units:    make(map[int]*unit.Unit),
		nextUnit: 1,
		nodes:    make(map[int]*resource.Node),
		depots:   make(map[int]resource.Depot),
		pool:     pool,
		agg:      resource.NewAggregator(pool),
		reserved: make(map[model.ResourceType]int64),
		view:     make(map[int]unit.TargetInfo),
		dirty:    make(map[model.Coord]struct{}),
	}
	w.factory = spawn.FactoryFunc(w.instantiate)
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *World) Grid() *nav.Grid { return w.grid }

// Kinds lists the registered unit kinds in name order.
func (w *World) Kinds() []model.UnitKind {
	out := make([]model.UnitKind, 0, len(w.kinds))
	for k := range w.kinds {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Stats returns the stats for kind.
func (w *World) Stats(kind model.UnitKind) (unit.Stats, bool) {
	s, ok := w.kinds[kind]
	return s, ok
}

// AddUnit instantiates a unit immediately, outside the spawn queue. It is
// meant for initial placement.
func (w *World) AddUnit(kind model.UnitKind, owner int, pose model.Pose) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.instantiate(spawn.Request{Kind: kind, Owner: owner, Pose: pose})
}

// Instantiate creates a unit from a spawn request. Custom factories wrap it.
// It must only be called from the serial apply phase or with the world lock
// held.
func (w *World) Instantiate(r spawn.Request) (int, error) { return w.instantiate(r) }

func (w *World) instantiate(r spawn.Request) (int, error) {
	stats, ok := w.kinds[r.Kind]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
	}
	if _, ok := w.grid.CoordOf(r.Pose.Position); !ok {
		return 0, fmt.Errorf("%w: %s", ErrOutOfBounds, r.Pose.Position)
	}
	id := w.nextUnit
	w.nextUnit++
	w.units[id] = unit.New(id, r.Owner, stats, r.Pose)
	w.order = append(w.order, id)
	return id, nil
}

func (w *World) removeUnit(id int) {
	delete(w.units, id)
	w.order = slices.DeleteFunc(w.order, func(v int) bool { return v == id })
}

// AddResourceNode places a node. Ids must be unique.
func (w *World) AddResourceNode(id int, typ model.ResourceType, pos model.Vec3, radius float64, amount int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, dup := w.nodes[id]; dup {
		return fmt.Errorf("resource node %d already exists", id)
	}
	if typ == model.ResourceNone {
		return fmt.Errorf("resource node %d: no resource type", id)
	}
	if _, ok := w.grid.CoordOf(pos); !ok {
		return fmt.Errorf("resource node %d: %w", id, ErrOutOfBounds)
	}
	w.nodes[id] = resource.NewNode(id, typ, pos, radius, amount)
	w.nodeOrder = append(w.nodeOrder, id)
	slices.Sort(w.nodeOrder)
	return nil
}

// AddDepot places a depot. Ids must be unique.
func (w *World) AddDepot(d resource.Depot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, dup := w.depots[d.ID]; dup {
		return fmt.Errorf("depot %d already exists", d.ID)
	}
	if _, ok := w.grid.CoordOf(d.Position); !ok {
		return fmt.Errorf("depot %d: %w", d.ID, ErrOutOfBounds)
	}
	w.depots[d.ID] = d
	w.depotIDs = append(w.depotIDs, d.ID)
	slices.Sort(w.depotIDs)
	return nil
}
