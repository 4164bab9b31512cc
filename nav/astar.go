package nav

import (
	"container/heap"
	"errors"
	"sync"

	"github.com/Kode-Bolds/Froggies-sub002/model"
)

// ErrPathNotFound means the goal is blocked or disconnected from the start.
var ErrPathNotFound = errors.New("path not found")

// neighbours is the fixed 8-connected expansion order. Diagonals may not cut
// a blocked corner.
var neighbours = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// Pathfinder runs A* over a Grid. Searches are safe to run concurrently:
// each takes a private scratch table from a pool, so the grid itself is only
// read.
type Pathfinder struct {
	grid   *Grid
	policy BlockPolicy
	pool   sync.Pool
}

func NewPathfinder(g *Grid, policy BlockPolicy) *Pathfinder {
	pf := &Pathfinder{grid: g, policy: policy}
	pf.pool.New = func() any { return newScratch(g.Len()) }
	return pf
}

func (pf *Pathfinder) Grid() *Grid         { return pf.grid }
func (pf *Pathfinder) Policy() BlockPolicy { return pf.policy }

// Passable reports whether c is in bounds and not blocked by the policy.
func (pf *Pathfinder) Passable(c model.Coord) bool {
	return pf.grid.InBounds(c) && !pf.policy.Blocks(pf.grid.Occupancy(c))
}

// FindPath returns the shortest start-to-goal path, or ErrPathNotFound.
// The start node is never rejected for its occupancy; a blocked goal is.
func (pf *Pathfinder) FindPath(start, goal model.Coord) (Path, error) {
	s := pf.pool.Get().(*scratch)
	defer pf.pool.Put(s)
	return pf.search(s, start, goal)
}

func (pf *Pathfinder) search(s *scratch, start, goal model.Coord) (Path, error) {
	s.reset()
	g := pf.grid
	if !g.InBounds(start) || !g.InBounds(goal) {
		return Path{}, ErrPathNotFound
	}
	si := int32(g.Index(start))
	gi := int32(g.Index(goal))
	if pf.policy.Blocks(g.nodes[gi].Occupancy) {
		return Path{}, ErrPathNotFound
	}
	goalPos := g.nodes[gi].Position

	sc := s.touch(si)
	sc.g = 0
	sc.h = g.nodes[si].Position.Dist(goalPos)
	sc.f = sc.h
	sc.state = open
	heap.Push(&s.open, si)

	for s.open.Len() > 0 {
		cur := heap.Pop(&s.open).(int32)
		cc := &s.cells[cur]
		cc.state = closed
		if cur == gi {
			return s.reconstruct(g, si, gi), nil
		}

		cn := &g.nodes[cur]
		for _, d := range neighbours {
			nc := model.Coord{X: cn.Coord.X + d[0], Z: cn.Coord.Z + d[1]}
			if !pf.Passable(nc) {
				continue
			}
			if d[0] != 0 && d[1] != 0 {
				if !pf.Passable(model.Coord{X: cn.Coord.X + d[0], Z: cn.Coord.Z}) ||
					!pf.Passable(model.Coord{X: cn.Coord.X, Z: cn.Coord.Z + d[1]}) {
					continue
				}
			}
			ni := int32(g.Index(nc))
			n := &s.cells[ni]
			if n.state == closed {
				continue
			}
			tentative := cc.g + cn.Position.Dist(g.nodes[ni].Position)
			switch n.state {
			case untested:
				s.touch(ni)
				n.parent = cur
				n.g = tentative
				n.h = g.nodes[ni].Position.Dist(goalPos)
				n.f = n.g + n.h
				n.state = open
				heap.Push(&s.open, ni)
			case open:
				if tentative < n.g {
					n.parent = cur
					n.g = tentative
					n.f = n.g + n.h
					heap.Fix(&s.open, n.heapIdx)
				}
			}
		}
	}
	return Path{}, ErrPathNotFound
}

// reconstruct walks parent links goal→start, writing the reverse child links,
// then emits waypoints start→goal by following children.
func (s *scratch) reconstruct(g *Grid, si, gi int32) Path {
	steps := 1
	for i := gi; i != si; {
		p := s.cells[i].parent
		s.cells[p].child = i
		i = p
		steps++
	}
	wps := make([]Waypoint, 0, steps)
	for i := si; ; i = s.cells[i].child {
		n := &g.nodes[i]
		wps = append(wps, Waypoint{Position: n.Position, Coord: n.Coord})
		if i == gi {
			break
		}
	}
	return Path{Waypoints: wps}
}

// NearestPassable returns the passable node closest to c, c itself
// included. Among equally close nodes the one nearest to from wins, so a
// unit approaching a blocked goal stops on its own side of the obstacle.
func (pf *Pathfinder) NearestPassable(c, from model.Coord) (model.Coord, bool) {
	g := pf.grid
	if !g.InBounds(c) {
		return model.Coord{}, false
	}
	if pf.Passable(c) {
		return c, true
	}
	var best model.Coord
	bestD, bestF := -1, 0
	consider := func(dx, dz int) {
		nc := model.Coord{X: c.X + dx, Z: c.Z + dz}
		if !pf.Passable(nc) {
			return
		}
		d := dx*dx + dz*dz
		f := nc.DistSq(from)
		if bestD < 0 || d < bestD || (d == bestD && f < bestF) {
			best, bestD, bestF = nc, d, f
		}
	}
	maxR := max(g.Width(), g.Depth())
	for r := 1; r < maxR; r++ {
		// Ring r is at least r away; nothing further out can beat bestD.
		if bestD >= 0 && r*r > bestD {
			break
		}
		for d := -r; d <= r; d++ {
			consider(d, -r)
			consider(d, r)
		}
		for d := -r + 1; d < r; d++ {
			consider(-r, d)
			consider(r, d)
		}
	}
	return best, bestD >= 0
}
