package nav

import (
	"fmt"
	"math"

	"github.com/Kode-Bolds/Froggies-sub002/model"
)

// Node is one lattice cell. Geometry is fixed at construction; only
// Occupancy changes afterwards. Search bookkeeping lives in per-search
// scratch tables, never on the node.
type Node struct {
	Position  model.Vec3
	Coord     model.Coord
	Occupancy model.Occupancy
}

// Grid is a fixed-size 2D lattice of navigation nodes, stored row-major
// (index = z*width + x). It is never resized.
//
// Grid is not safe for concurrent mutation. Concurrent reads (searches) are
// safe while no SetOccupancy call is in flight.
type Grid struct {
	cellSize float64
	width    int
	depth    int
	origin   model.Vec3
	nodes    []Node
}

// NewGrid allocates every node once from the authoring spec.
func NewGrid(spec model.GridSpec) (*Grid, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("grid spec: %w", err)
	}
	g := &Grid{
		cellSize: spec.CellSize,
		width:    spec.Width,
		depth:    spec.Depth,
		origin:   spec.Origin,
		nodes:    make([]Node, spec.Width*spec.Depth),
	}
	for z := 0; z < g.depth; z++ {
		for x := 0; x < g.width; x++ {
			c := model.Coord{X: x, Z: z}
			g.nodes[z*g.width+x] = Node{Position: g.PositionOf(c), Coord: c}
		}
	}
	for _, o := range spec.Obstacles {
		g.nodes[g.Index(o.Coord)].Occupancy = o.Tag
	}
	return g, nil
}

func (g *Grid) Width() int        { return g.width }
func (g *Grid) Depth() int        { return g.depth }
func (g *Grid) CellSize() float64 { return g.cellSize }
func (g *Grid) Len() int          { return len(g.nodes) }

// InBounds reports whether c addresses a node.
func (g *Grid) InBounds(c model.Coord) bool {
	return c.X >= 0 && c.X < g.width && c.Z >= 0 && c.Z < g.depth
}

// Index returns the node array index of c. An out-of-range coordinate is a
// caller bug and panics.
func (g *Grid) Index(c model.Coord) int {
	if !g.InBounds(c) {
		panic(fmt.Sprintf("nav: coordinate %s outside %dx%d grid", c, g.width, g.depth))
	}
	return c.Z*g.width + c.X
}

// At returns a copy of the node at c.
func (g *Grid) At(c model.Coord) Node {
	return g.nodes[g.Index(c)]
}

// Occupancy returns the tag at c.
func (g *Grid) Occupancy(c model.Coord) model.Occupancy {
	return g.nodes[g.Index(c)].Occupancy
}

// SetOccupancy retags c and returns the previous tag.
func (g *Grid) SetOccupancy(c model.Coord, tag model.Occupancy) model.Occupancy {
	n := &g.nodes[g.Index(c)]
	prev := n.Occupancy
	n.Occupancy = tag
	return prev
}

// PositionOf returns the world position of node c. Nodes sit on the lattice
// points origin + (x, 0, z) * cellSize.
func (g *Grid) PositionOf(c model.Coord) model.Vec3 {
	return model.Vec3{
		X: g.origin.X + float64(c.X)*g.cellSize,
		Y: g.origin.Y,
		Z: g.origin.Z + float64(c.Z)*g.cellSize,
	}
}

// CoordOf snaps a world position to the nearest node. The result is clamped
// to the grid; ok is false when clamping was needed.
func (g *Grid) CoordOf(p model.Vec3) (model.Coord, bool) {
	x := int(math.Round((p.X - g.origin.X) / g.cellSize))
	z := int(math.Round((p.Z - g.origin.Z) / g.cellSize))
	c := model.Coord{X: clampInt(x, 0, g.width-1), Z: clampInt(z, 0, g.depth-1)}
	return c, c.X == x && c.Z == z
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
