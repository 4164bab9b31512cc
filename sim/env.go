package sim

import (
	"github.com/Kode-Bolds/Froggies-sub002/model"
	"github.com/Kode-Bolds/Froggies-sub002/nav"
	"github.com/Kode-Bolds/Froggies-sub002/resource"
	"github.com/Kode-Bolds/Froggies-sub002/unit"
)

// tickEnv is the world as seen by units during the parallel phase. Every
// method only reads world maps that are frozen for the phase, or goes
// through an atomic or a collect buffer.
type tickEnv struct {
	w *World
}

var _ unit.Env = tickEnv{}

func (e tickEnv) Grid() *nav.Grid { return e.w.grid }

func (e tickEnv) FindPath(from, to model.Coord) (nav.Path, error) {
	return e.w.pf.FindPath(from, to)
}

func (e tickEnv) Passable(c model.Coord) bool { return e.w.pf.Passable(c) }

func (e tickEnv) NearestPassable(c, from model.Coord) (model.Coord, bool) {
	return e.w.pf.NearestPassable(c, from)
}

func (e tickEnv) ResourceNode(id int) (*resource.Node, bool) {
	n, ok := e.w.nodes[id]
	return n, ok
}

// NearestResourceNode finds the closest non-depleted node of type t, or of
// any type when t is ResourceNone.
func (e tickEnv) NearestResourceNode(t model.ResourceType, from model.Vec3) (*resource.Node, bool) {
	var best *resource.Node
	bestDist := 0.0
	for _, id := range e.w.nodeOrder {
		n := e.w.nodes[id]
		if n.Depleted() || (t != model.ResourceNone && n.Type() != t) {
			continue
		}
		if d := from.DistXZ(n.Position()); best == nil || d < bestDist {
			best, bestDist = n, d
		}
	}
	return best, best != nil
}

func (e tickEnv) Depot(id int) (resource.Depot, bool) {
	d, ok := e.w.depots[id]
	return d, ok
}

func (e tickEnv) NearestDepot(owner int, from model.Vec3) (resource.Depot, bool) {
	var (
		best     resource.Depot
		bestDist float64
		found    bool
	)
	for _, id := range e.w.depotIDs {
		d := e.w.depots[id]
		if d.Owner != owner {
			continue
		}
		if dist := from.DistXZ(d.Position); !found || dist < bestDist {
			best, bestDist, found = d, dist, true
		}
	}
	return best, found
}

func (e tickEnv) Unit(id int) (unit.TargetInfo, bool) {
	t, ok := e.w.view[id]
	return t, ok
}

func (e tickEnv) EmitDeposit(d resource.Deposit) { e.w.agg.Emit(d) }
func (e tickEnv) EmitDamage(d unit.Damage)       { e.w.damage.Push(d) }
func (e tickEnv) NextCommandID() uint64          { return e.w.nextCmd.Add(1) }
