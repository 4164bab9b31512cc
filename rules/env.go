package rules

import (
	"math"

	"github.com/Kode-Bolds/Froggies-sub002/model"
)

// RuleEnv wraps a snapshot and exposes helper methods callable from expr
// expressions. Everything is seen from Owner's side.
type RuleEnv struct {
	State  model.Snapshot
	Owner  int
	Memory map[string]any
	Policy Policy
	Costs  map[model.UnitKind]map[model.ResourceType]int
}

func (e RuleEnv) Tick() int { return int(e.State.Tick) }

// Own returns the owner's live units.
func (e RuleEnv) Own() []model.UnitView {
	var out []model.UnitView
	for _, u := range e.State.Units {
		if u.Owner == e.Owner {
			out = append(out, u)
		}
	}
	return out
}

// Enemies returns every unit belonging to another owner.
func (e RuleEnv) Enemies() []model.UnitView {
	var out []model.UnitView
	for _, u := range e.State.Units {
		if u.Owner != e.Owner {
			out = append(out, u)
		}
	}
	return out
}

func (e RuleEnv) HasUnit(kind string) bool  { return containsType(e.Own(), kind) }
func (e RuleEnv) UnitCount(kind string) int { return countType(e.Own(), kind) }
func (e RuleEnv) EnemyCount() int           { return len(e.Enemies()) }
func (e RuleEnv) EnemiesVisible() bool      { return e.EnemyCount() > 0 }

func (e RuleEnv) HarvesterCount() int {
	n := 0
	for _, u := range e.Own() {
		if u.Harvester {
			n++
		}
	}
	return n
}

// Stock returns the pooled amount of a resource by name, 0 if unknown.
func (e RuleEnv) Stock(resource string) int {
	t, err := model.ParseResourceType(resource)
	if err != nil {
		return 0
	}
	return int(e.State.Pool[t])
}

// IdleHarvesters are the owner's harvesters with nothing queued and nothing
// carried.
func (e RuleEnv) IdleHarvesters() []model.UnitView {
	var out []model.UnitView
	for _, u := range e.Own() {
		if u.Harvester && u.Idle() && u.CarriedAmount == 0 {
			out = append(out, u)
		}
	}
	return out
}

// LoadedIdleHarvesters are idle harvesters still carrying something.
func (e RuleEnv) LoadedIdleHarvesters() []model.UnitView {
	var out []model.UnitView
	for _, u := range e.Own() {
		if u.Harvester && u.Idle() && u.CarriedAmount > 0 {
			out = append(out, u)
		}
	}
	return out
}

// UnassignedIdleCombat are idle combat units not already in a squad.
func (e RuleEnv) UnassignedIdleCombat() []model.UnitView {
	inSquad := squadUnitIDSet(e.Memory)
	var out []model.UnitView
	for _, u := range e.Own() {
		if u.Combat && u.Idle() && !inSquad[u.ID] {
			out = append(out, u)
		}
	}
	return out
}

func (e RuleEnv) HasDepot() bool {
	_, ok := e.homeDepot()
	return ok
}

// homeDepot is the owner's first depot.
func (e RuleEnv) homeDepot() (model.DepotView, bool) {
	for _, d := range e.State.Depots {
		if d.Owner == e.Owner {
			return d, true
		}
	}
	return model.DepotView{}, false
}

// NodesRemaining sums what is left in every node of a resource type.
func (e RuleEnv) NodesRemaining(resource string) int {
	t, err := model.ParseResourceType(resource)
	if err != nil {
		return 0
	}
	n := 0
	for _, node := range e.State.Nodes {
		if node.Type == t {
			n += node.Remaining
		}
	}
	return n
}

func (e RuleEnv) AnyNodes() bool {
	for _, node := range e.State.Nodes {
		if node.Remaining > 0 {
			return true
		}
	}
	return false
}

// NeededResource picks the harvestable resource with the lowest stock.
// Ties go to display order. ResourceNone means nothing is harvestable.
func (e RuleEnv) NeededResource() model.ResourceType {
	best := model.ResourceNone
	var bestStock int64
	for _, t := range model.ResourceTypes {
		if e.NodesRemaining(t.String()) == 0 {
			continue
		}
		if s := e.State.Pool[t]; best == model.ResourceNone || s < bestStock {
			best, bestStock = t, s
		}
	}
	return best
}

// CanAfford reports whether the pool covers kind's spawn cost.
func (e RuleEnv) CanAfford(kind string) bool {
	cost, ok := e.Costs[model.UnitKind(kind)]
	if !ok {
		return false
	}
	for t, n := range cost {
		if e.State.Pool[t] < int64(n) {
			return false
		}
	}
	return true
}

// CooldownDone reports whether at least ticks have passed since key was
// last stamped in memory.
func (e RuleEnv) CooldownDone(key string, ticks int) bool {
	last, ok := e.Memory[key].(uint64)
	return !ok || e.State.Tick-last >= uint64(ticks)
}

func (e RuleEnv) stamp(key string) { e.Memory[key] = e.State.Tick }

// NearestEnemy returns the closest enemy to from, or nil.
func (e RuleEnv) NearestEnemy(from model.Vec3) *model.UnitView {
	var nearest *model.UnitView
	bestDist := math.MaxFloat64
	for i := range e.State.Units {
		u := &e.State.Units[i]
		if u.Owner == e.Owner {
			continue
		}
		if d := from.DistXZ(u.Position); d < bestDist {
			bestDist = d
			nearest = u
		}
	}
	return nearest
}

// EnemiesNearBase returns enemies within radius of the owner's home depot.
func (e RuleEnv) EnemiesNearBase(radius float64) []model.UnitView {
	home, ok := e.homeDepot()
	if !ok {
		return nil
	}
	var out []model.UnitView
	for _, u := range e.Enemies() {
		if u.Position.DistXZ(home.Position) <= radius {
			out = append(out, u)
		}
	}
	return out
}

func (e RuleEnv) SquadExists(name string) bool {
	_, ok := getSquads(e.Memory)[name]
	return ok
}
