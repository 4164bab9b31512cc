package unit

import (
	"github.com/Kode-Bolds/Froggies-sub002/model"
	"github.com/Kode-Bolds/Froggies-sub002/nav"
	"github.com/Kode-Bolds/Froggies-sub002/resource"
)

// TargetInfo is what a unit may see of another unit during a tick. It comes
// from the view taken at tick start, so every unit observes the same values
// regardless of advance order.
type TargetInfo struct {
	ID       int
	Owner    int
	Position model.Vec3
	Health   int
}

func (t TargetInfo) Alive() bool { return t.Health > 0 }

// Damage is an aggregation event: Source hits Target for Amount.
type Damage struct {
	Source int `json:"source"`
	Target int `json:"target"`
	Amount int `json:"amount"`
}

// Env is everything Advance needs from the world. Implementations must be
// safe for concurrent use by many units in the same tick.
type Env interface {
	Grid() *nav.Grid
	FindPath(from, to model.Coord) (nav.Path, error)
	Passable(c model.Coord) bool
	NearestPassable(c, from model.Coord) (model.Coord, bool)

	ResourceNode(id int) (*resource.Node, bool)
	NearestResourceNode(t model.ResourceType, from model.Vec3) (*resource.Node, bool)
	Depot(id int) (resource.Depot, bool)
	NearestDepot(owner int, from model.Vec3) (resource.Depot, bool)
	Unit(id int) (TargetInfo, bool)

	EmitDeposit(d resource.Deposit)
	EmitDamage(d Damage)
	NextCommandID() uint64
}
