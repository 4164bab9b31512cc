package agent

import (
	"fmt"

	"github.com/Kode-Bolds/Froggies-sub002/ipc"
	"github.com/Kode-Bolds/Froggies-sub002/model"
)

// EventKind identifies a change between consecutive snapshots that clients
// usually want pushed rather than polled.
type EventKind string

const (
	EventNodeDepleted EventKind = "node_depleted"
	EventUnitLost     EventKind = "unit_lost"
	EventUnitSpawned  EventKind = "unit_spawned"
	EventUnitIdle     EventKind = "unit_idle"
)

// Event is one detected change.
type Event struct {
	Kind   EventKind
	Tick   uint64
	Unit   int
	Node   int
	Owner  int
	Detail string
}

func (e Event) Message() ipc.EventMessage {
	return ipc.EventMessage{Tick: e.Tick, Kind: string(e.Kind), Unit: e.Unit, Node: e.Node, Owner: e.Owner, Detail: e.Detail}
}

// detectEvents diffs cur against prev. The first snapshot has nothing to
// compare against and yields no events.
func detectEvents(prev *model.Snapshot, cur model.Snapshot) []Event {
	if prev == nil {
		return nil
	}
	var events []Event

	prevNodes := make(map[int]model.NodeView, len(prev.Nodes))
	for _, n := range prev.Nodes {
		prevNodes[n.ID] = n
	}
	for _, n := range cur.Nodes {
		if p, ok := prevNodes[n.ID]; ok && p.Remaining > 0 && n.Remaining == 0 {
			events = append(events, Event{
				Kind:   EventNodeDepleted,
				Tick:   cur.Tick,
				Node:   n.ID,
				Detail: n.Type.String(),
			})
		}
	}

	prevUnits := make(map[int]model.UnitView, len(prev.Units))
	for _, u := range prev.Units {
		prevUnits[u.ID] = u
	}
	seen := make(map[int]bool, len(cur.Units))
	for _, u := range cur.Units {
		seen[u.ID] = true
		p, ok := prevUnits[u.ID]
		if !ok {
			events = append(events, Event{Kind: EventUnitSpawned, Tick: cur.Tick, Unit: u.ID, Owner: u.Owner, Detail: string(u.Kind)})
			continue
		}
		if !p.Idle() && u.Idle() {
			events = append(events, Event{Kind: EventUnitIdle, Tick: cur.Tick, Unit: u.ID, Owner: u.Owner, Detail: carried(u)})
		}
	}
	for _, p := range prev.Units {
		if !seen[p.ID] {
			events = append(events, Event{Kind: EventUnitLost, Tick: cur.Tick, Unit: p.ID, Owner: p.Owner, Detail: string(p.Kind)})
		}
	}
	return events
}

func carried(u model.UnitView) string {
	if u.CarriedAmount == 0 {
		return ""
	}
	return fmt.Sprintf("carrying %d %s", u.CarriedAmount, u.CarriedType)
}
