package model

import (
	"fmt"
	"strings"
)

// Occupancy tags what, if anything, stands on a grid node. It is advisory
// metadata; whether a tag blocks movement is decided by the pathfinder's policy.
type Occupancy byte

const (
	Nothing     Occupancy = 0
	Unit        Occupancy = 1
	Building    Occupancy = 2
	Environment Occupancy = 3 // rock, tree, water
)

func (o Occupancy) String() string {
	switch o {
	case Nothing:
		return "nothing"
	case Unit:
		return "unit"
	case Building:
		return "building"
	case Environment:
		return "environment"
	default:
		return fmt.Sprintf("occupancy(%d)", byte(o))
	}
}

// ParseOccupancy accepts the String form, case-insensitively.
func ParseOccupancy(s string) (Occupancy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nothing", "":
		return Nothing, nil
	case "unit":
		return Unit, nil
	case "building":
		return Building, nil
	case "environment":
		return Environment, nil
	}
	return Nothing, fmt.Errorf("unknown occupancy %q", s)
}

// Obstacle pre-tags one cell at grid construction time.
type Obstacle struct {
	Coord Coord     `json:"coord"`
	Tag   Occupancy `json:"tag"`
}

// GridSpec is the pre-validated lattice description handed over by the
// authoring step. It is consumed once when the grid is built.
type GridSpec struct {
	CellSize  float64    // world units between adjacent nodes
	Width     int        // nodes along X
	Depth     int        // nodes along Z
	Origin    Vec3       // world position of node (0,0)
	Obstacles []Obstacle // initial occupancy
}

// Validate rejects specs the grid cannot be built from.
func (s GridSpec) Validate() error {
	if s.CellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %v", s.CellSize)
	}
	if s.Width <= 0 || s.Depth <= 0 {
		return fmt.Errorf("grid extents must be positive, got %dx%d", s.Width, s.Depth)
	}
	for _, o := range s.Obstacles {
		if o.Coord.X < 0 || o.Coord.X >= s.Width || o.Coord.Z < 0 || o.Coord.Z >= s.Depth {
			return fmt.Errorf("obstacle %s outside %dx%d grid", o.Coord, s.Width, s.Depth)
		}
	}
	return nil
}
