package nav

import "github.com/Kode-Bolds/Froggies-sub002/model"

// BlockPolicy is the set of occupancy tags that make a node impassable.
type BlockPolicy uint8

const (
	BlockUnits       BlockPolicy = 1 << model.Unit
	BlockBuildings   BlockPolicy = 1 << model.Building
	BlockEnvironment BlockPolicy = 1 << model.Environment

	// DefaultBlockPolicy lets units path through each other but not through
	// structures or terrain.
	DefaultBlockPolicy = BlockBuildings | BlockEnvironment
)

// PolicyOf builds a policy blocking exactly the given tags. Nothing is
// never blocking.
func PolicyOf(tags ...model.Occupancy) BlockPolicy {
	var p BlockPolicy
	for _, t := range tags {
		if t == model.Nothing {
			continue
		}
		p |= 1 << t
	}
	return p
}

// Blocks reports whether a node tagged t is impassable under p.
func (p BlockPolicy) Blocks(t model.Occupancy) bool {
	if t == model.Nothing {
		return false
	}
	return p&(1<<t) != 0
}
