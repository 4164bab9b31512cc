package nav

import "github.com/Kode-Bolds/Froggies-sub002/model"

type Waypoint struct {
	Position model.Vec3  `json:"position"`
	Coord    model.Coord `json:"coord"`
}

// Path lists waypoints start-to-goal. It is owned by the unit that asked for
// it and replaced wholesale on the next request.
type Path struct {
	Waypoints []Waypoint
}

func (p Path) Empty() bool { return len(p.Waypoints) == 0 }

// Steps is the number of edges walked, one less than the waypoint count.
func (p Path) Steps() int {
	if len(p.Waypoints) == 0 {
		return 0
	}
	return len(p.Waypoints) - 1
}

// Length is the summed world distance between consecutive waypoints.
func (p Path) Length() float64 {
	total := 0.0
	for i := 1; i < len(p.Waypoints); i++ {
		total += p.Waypoints[i-1].Position.Dist(p.Waypoints[i].Position)
	}
	return total
}

// Goal returns the last waypoint. The path must not be empty.
func (p Path) Goal() Waypoint { return p.Waypoints[len(p.Waypoints)-1] }

// Coords returns the waypoint coordinates in order.
func (p Path) Coords() []model.Coord {
	out := make([]model.Coord, len(p.Waypoints))
	for i, w := range p.Waypoints {
		out[i] = w.Coord
	}
	return out
}

// CrossesAny reports whether any waypoint from index from onward lies on one
// of the given coordinates.
func (p Path) CrossesAny(from int, coords map[model.Coord]struct{}) bool {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(p.Waypoints); i++ {
		if _, ok := coords[p.Waypoints[i].Coord]; ok {
			return true
		}
	}
	return false
}
