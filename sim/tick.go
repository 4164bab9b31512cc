package sim

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Kode-Bolds/Froggies-sub002/command"
	"github.com/Kode-Bolds/Froggies-sub002/resource"
	"github.com/Kode-Bolds/Froggies-sub002/spawn"
	"github.com/Kode-Bolds/Froggies-sub002/unit"
)

// TickReport is everything the serial apply phase of one tick changed.
type TickReport struct {
	Tick        uint64             `json:"tick"`
	Repathed    int                `json:"repathed,omitempty"`
	Transitions []unit.Transition  `json:"transitions,omitempty"`
	Deposits    []resource.Deposit `json:"deposits,omitempty"`
	Damage      []unit.Damage      `json:"damage,omitempty"`
	Killed      []int              `json:"killed,omitempty"`
	Spawned     []spawn.Spawned    `json:"spawned,omitempty"`
}

// Empty reports a tick in which nothing observable happened.
func (r TickReport) Empty() bool {
	return r.Repathed == 0 && len(r.Transitions) == 0 && len(r.Deposits) == 0 &&
		len(r.Damage) == 0 && len(r.Killed) == 0 && len(r.Spawned) == 0
}

// Step runs one tick: re-path pass, parallel advance of every unit, then
// the serial apply phase (transitions, deposits, damage, spawns). ctx is
// checked before the tick starts; a cancelled ctx leaves the world untouched.
func (w *World) Step(ctx context.Context) (TickReport, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return TickReport{Tick: w.tick}, fmt.Errorf("step tick %d: %w", w.tick+1, err)
	}
	w.tick++
	rep := TickReport{Tick: w.tick}
	rep.Repathed = w.processOccupancy()
	w.buildView()

	// Once started, a tick always reaches its apply point so no unit is
	// left advanced with its transition and events unapplied.
	env := tickEnv{w: w}
	var g errgroup.Group
	g.SetLimit(w.workers)
	for _, id := range w.order {
		u := w.units[id]
		g.Go(func() error {
			u.Advance(env)
			return nil
		})
	}
	g.Wait()

	for _, id := range w.order {
		if tr, ok := w.units[id].ApplyTransition(); ok {
			rep.Transitions = append(rep.Transitions, tr)
		}
	}

	rep.Deposits = w.agg.Apply()
	clear(w.reserved)

	w.damage.Apply(func(d unit.Damage) {
		target, ok := w.units[d.Target]
		if !ok || !target.Alive() {
			return
		}
		rep.Damage = append(rep.Damage, d)
		if target.TakeDamage(d.Amount) {
			rep.Killed = append(rep.Killed, d.Target)
		}
	})
	for _, id := range rep.Killed {
		slog.Info("unit destroyed", "unit", id, "tick", w.tick)
		w.removeUnit(id)
	}

	spawned, err := w.spawns.Apply(w.factory)
	if err != nil {
		slog.Warn("spawn requests failed", "tick", w.tick, "error", err)
	}
	rep.Spawned = spawned
	return rep, nil
}

func (w *World) buildView() {
	clear(w.view)
	for _, id := range w.order {
		u := w.units[id]
		w.view[id] = unit.TargetInfo{ID: id, Owner: u.Owner(), Position: u.Position(), Health: u.Health()}
	}
}

// processOccupancy applies the re-path policy for passability changes made
// since the last tick. Moving units whose remaining path crosses a changed
// node, or whose last search failed, re-plan. Idle units now standing on a
// blocked node are moved to the nearest passable one.
func (w *World) processOccupancy() int {
	if len(w.dirty) == 0 {
		return 0
	}
	n := 0
	for _, id := range w.order {
		u := w.units[id]
		if u.InvalidatePath(w.dirty) {
			n++
			continue
		}
		if u.QueueLen() > 0 {
			continue
		}
		c, _ := w.grid.CoordOf(u.Position())
		if w.pf.Passable(c) {
			continue
		}
		dest, ok := w.pf.NearestPassable(c, c)
		if !ok {
			continue
		}
		target := command.Target{Kind: command.TargetPosition, Position: w.grid.PositionOf(dest)}
		if _, err := w.enqueue(id, command.Move, target, false); err != nil {
			slog.Warn("evacuating blocked unit", "unit", id, "error", err)
			continue
		}
		n++
	}
	clear(w.dirty)
	return n
}

