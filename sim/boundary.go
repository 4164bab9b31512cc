package sim

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/Kode-Bolds/Froggies-sub002/command"
	"github.com/Kode-Bolds/Froggies-sub002/model"
	"github.com/Kode-Bolds/Froggies-sub002/resource"
	"github.com/Kode-Bolds/Froggies-sub002/spawn"
	"github.com/Kode-Bolds/Froggies-sub002/unit"
)

// Enqueue issues an order to a unit. With front set the order preempts the
// active command. It returns the new command's id.
func (w *World) Enqueue(unitID int, typ command.Type, target command.Target, front bool) (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enqueue(unitID, typ, target, front)
}

func (w *World) enqueue(unitID int, typ command.Type, target command.Target, front bool) (uint64, error) {
	u, ok := w.units[unitID]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownUnit, unitID)
	}
	if err := w.checkTarget(unitID, typ, &target); err != nil {
		return 0, fmt.Errorf("unit %d %s: %w", unitID, typ, err)
	}
	c := command.New(w.nextCmd.Add(1), typ, target)
	if err := u.Enqueue(c, front); err != nil {
		return 0, fmt.Errorf("unit %d: %w", unitID, err)
	}
	slog.Debug("command enqueued", "unit", unitID, "command", c.Type, "target", c.Target, "front", front)
	return c.ID, nil
}

// checkTarget rejects targets that can never be valid. Entities that exist
// but later disappear are handled by the unit's own fallback.
func (w *World) checkTarget(unitID int, typ command.Type, t *command.Target) error {
	switch typ {
	case command.Move:
		if t.Kind != command.TargetPosition {
			return fmt.Errorf("%w: move needs a position, got %s", ErrInvalidTarget, t.Kind)
		}
		if _, ok := w.grid.CoordOf(t.Position); !ok {
			return fmt.Errorf("%w: %s", ErrOutOfBounds, t.Position)
		}
	case command.Harvest:
		switch t.Kind {
		case command.TargetResourceNode:
			n, ok := w.nodes[t.ID]
			if !ok {
				return fmt.Errorf("%w: resource node %d", ErrInvalidTarget, t.ID)
			}
			t.Resource, t.Position = n.Type(), n.Position()
		case command.TargetAnyResource:
		default:
			return fmt.Errorf("%w: harvest needs a resource node, got %s", ErrInvalidTarget, t.Kind)
		}
	case command.Deposit:
		switch t.Kind {
		case command.TargetDepot:
			d, ok := w.depots[t.ID]
			if !ok {
				return fmt.Errorf("%w: depot %d", ErrInvalidTarget, t.ID)
			}
			t.Position = d.Position
		case command.TargetAnyDepot:
		default:
			return fmt.Errorf("%w: deposit needs a depot, got %s", ErrInvalidTarget, t.Kind)
		}
	case command.Attack:
		if t.Kind != command.TargetUnit || t.ID == unitID {
			return fmt.Errorf("%w: attack needs another unit", ErrInvalidTarget)
		}
		target, ok := w.units[t.ID]
		if !ok {
			return fmt.Errorf("%w: unit %d", ErrInvalidTarget, t.ID)
		}
		t.Position = target.Position()
	default:
		return fmt.Errorf("%w: unknown command type %d", ErrInvalidTarget, int(typ))
	}
	return nil
}

// Stop clears a unit's queue. It returns the number of dropped commands.
func (w *World) Stop(unitID int) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, ok := w.units[unitID]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownUnit, unitID)
	}
	return u.Stop(), nil
}

// Replace clears the unit's queue and issues typ as its only order. An
// order that fails validation leaves the queue untouched.
func (w *World) Replace(unitID int, typ command.Type, target command.Target) (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, ok := w.units[unitID]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownUnit, unitID)
	}
	resolved := target
	if err := w.checkTarget(unitID, typ, &resolved); err != nil {
		return 0, fmt.Errorf("unit %d %s: %w", unitID, typ, err)
	}
	u.Stop()
	return w.enqueue(unitID, typ, target, false)
}

// CurrentState is the unit's applied state; requests made this tick are
// not visible until the tick's apply point.
func (w *World) CurrentState(unitID int) (unit.State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, ok := w.units[unitID]
	if !ok {
		return unit.State{}, fmt.Errorf("%w: %d", ErrUnknownUnit, unitID)
	}
	return u.State(), nil
}

func (w *World) CarriedInventory(unitID int) (model.ResourceType, int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, ok := w.units[unitID]
	if !ok {
		return model.ResourceNone, 0, fmt.Errorf("%w: %d", ErrUnknownUnit, unitID)
	}
	inv := u.Inventory()
	return inv.Type, inv.Amount, nil
}

// Commands returns a copy of a unit's queue, active command first.
func (w *World) Commands(unitID int) ([]command.Command, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, ok := w.units[unitID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownUnit, unitID)
	}
	return u.Commands(), nil
}

func (w *World) ResourcePool() map[model.ResourceType]int64 {
	return w.pool.Snapshot()
}

// RequestSpawn queues a unit for instantiation at the next apply phase.
func (w *World) RequestSpawn(kind model.UnitKind, owner int, pose model.Pose) error {
	if _, ok := w.kinds[kind]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if _, ok := w.grid.CoordOf(pose.Position); !ok {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, pose.Position)
	}
	w.spawns.Request(spawn.Request{Kind: kind, Owner: owner, Pose: pose})
	return nil
}

// Spend reserves cost from the pool. The withdrawal is an aggregation event
// like any deposit and lands at the next apply phase; until then the amount
// is held back from further Spend calls.
func (w *World) Spend(owner int, cost map[model.ResourceType]int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for t, n := range cost {
		if n < 0 {
			return fmt.Errorf("negative cost %d for %s", n, t)
		}
		if avail := w.pool.Get(t) - w.reserved[t]; avail < int64(n) {
			return fmt.Errorf("%w: %s needs %d, have %d", ErrInsufficientResources, t, n, avail)
		}
	}
	for t, n := range cost {
		if n == 0 {
			continue
		}
		w.reserved[t] += int64(n)
		w.agg.Emit(resource.Deposit{Unit: -1, Owner: owner, Type: t, Amount: -n})
	}
	return nil
}

// SetOccupancy retags a grid node. Changes that flip passability are
// picked up by the re-path pass at the start of the next tick.
func (w *World) SetOccupancy(c model.Coord, tag model.Occupancy) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.grid.InBounds(c) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	prev := w.grid.SetOccupancy(c, tag)
	policy := w.pf.Policy()
	if policy.Blocks(prev) != policy.Blocks(tag) {
		w.dirty[c] = struct{}{}
	}
	return nil
}

// Snapshot copies the read-back state.
func (w *World) Snapshot() model.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := model.Snapshot{
		Tick:   w.tick,
		Pool:   w.pool.Snapshot(),
		Units:  make([]model.UnitView, 0, len(w.order)),
		Nodes:  make([]model.NodeView, 0, len(w.nodeOrder)),
		Depots: make([]model.DepotView, 0, len(w.depotIDs)),
	}
	for _, id := range w.order {
		s.Units = append(s.Units, w.units[id].View())
	}
	for _, id := range w.nodeOrder {
		s.Nodes = append(s.Nodes, w.nodes[id].View())
	}
	for _, id := range w.depotIDs {
		s.Depots = append(s.Depots, w.depots[id].View())
	}
	return s
}

// Tick returns the number of completed ticks.
func (w *World) Tick() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tick
}

// UnitIDs lists live units in creation order.
func (w *World) UnitIDs() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.order)
}
