package model

import (
	"fmt"
	"math"
	"strings"
)

// Vec3 is a world-space position. Y is height; movement and ranges use the XZ plane.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(f float64) Vec3 { return Vec3{v.X * f, v.Y * f, v.Z * f} }
func (v Vec3) Len() float64         { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Dist(o Vec3) float64  { return v.Sub(o).Len() }
func (v Vec3) String() string       { return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z) }

// DistXZ ignores height.
func (v Vec3) DistXZ(o Vec3) float64 {
	dx := v.X - o.X
	dz := v.Z - o.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// Coord addresses one node of the navigation lattice.
type Coord struct {
	X int `json:"x" yaml:"x"`
	Z int `json:"z" yaml:"z"`
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Z) }

// DistSq is the squared grid distance between two nodes.
func (c Coord) DistSq(o Coord) int {
	dx, dz := c.X-o.X, c.Z-o.Z
	return dx*dx + dz*dz
}

// Pose is where a spawned unit appears and which way it faces (radians).
type Pose struct {
	Position Vec3    `json:"position"`
	Heading  float64 `json:"heading"`
}

// UnitKind names a unit archetype ("harvester", "soldier", ...). Stats are
// looked up by kind.
type UnitKind string

// ResourceType identifies one counter of the global pool.
type ResourceType int

const (
	ResourceNone ResourceType = iota
	Food
	BuildingMaterial
	RareResource
)

// ResourceTypes lists every poolable type in display order.
var ResourceTypes = []ResourceType{Food, BuildingMaterial, RareResource}

var resourceNames = map[ResourceType]string{
	ResourceNone:     "none",
	Food:             "food",
	BuildingMaterial: "building_material",
	RareResource:     "rare_resource",
}

func (r ResourceType) String() string {
	if s, ok := resourceNames[r]; ok {
		return s
	}
	return fmt.Sprintf("resource(%d)", int(r))
}

// ParseResourceType accepts the String form, case-insensitively.
func ParseResourceType(s string) (ResourceType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range resourceNames {
		if name == s {
			return t, nil
		}
	}
	return ResourceNone, fmt.Errorf("unknown resource type %q", s)
}

// MarshalText lets ResourceType be used as a JSON map key and a YAML scalar.
func (r ResourceType) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *ResourceType) UnmarshalText(b []byte) error {
	t, err := ParseResourceType(string(b))
	if err != nil {
		return err
	}
	*r = t
	return nil
}
