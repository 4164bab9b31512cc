package resource

import (
	"sync/atomic"

	"github.com/Kode-Bolds/Froggies-sub002/model"
)

// Node is a world resource source. Remaining is decremented by harvesters
// running in parallel, so Take is a compare-and-swap loop.
type Node struct {
	id        int
	typ       model.ResourceType
	position  model.Vec3
	radius    float64
	remaining atomic.Int64
}

func NewNode(id int, typ model.ResourceType, pos model.Vec3, radius float64, amount int) *Node {
	n := &Node{id: id, typ: typ, position: pos, radius: radius}
	n.remaining.Store(int64(amount))
	return n
}

func (n *Node) ID() int                  { return n.id }
func (n *Node) Type() model.ResourceType { return n.typ }
func (n *Node) Position() model.Vec3     { return n.position }
func (n *Node) Radius() float64          { return n.radius }
func (n *Node) Remaining() int           { return int(n.remaining.Load()) }
func (n *Node) Depleted() bool           { return n.remaining.Load() <= 0 }

// Take removes up to want units and returns how many were removed.
func (n *Node) Take(want int) int {
	if want <= 0 {
		return 0
	}
	for {
		cur := n.remaining.Load()
		if cur <= 0 {
			return 0
		}
		got := min(int64(want), cur)
		if n.remaining.CompareAndSwap(cur, cur-got) {
			return int(got)
		}
	}
}

func (n *Node) View() model.NodeView {
	return model.NodeView{ID: n.id, Type: n.typ, Remaining: n.Remaining(), Position: n.position}
}

// Depot accepts deposits from its owner's harvesters.
type Depot struct {
	ID       int        `json:"id"`
	Owner    int        `json:"owner"`
	Position model.Vec3 `json:"position"`
	Radius   float64    `json:"radius"`
}

func (d Depot) View() model.DepotView {
	return model.DepotView{ID: d.ID, Owner: d.Owner, Position: d.Position}
}
