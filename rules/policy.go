package rules

import "math"

// Policy is the high-level automation posture for one owner.
// Weights are 0.0–1.0; the compiler maps them to concrete rule parameters.
type Policy struct {
	Name            string  `yaml:"name" json:"name"`
	EconomyPriority float64 `yaml:"economy_priority" json:"economy_priority"`
	Aggression      float64 `yaml:"aggression" json:"aggression"`
	HarvesterKind   string  `yaml:"harvester_kind" json:"harvester_kind"`
	AttackGroupSize int     `yaml:"attack_group_size" json:"attack_group_size"`
}

// DefaultPolicy returns a balanced baseline.
func DefaultPolicy() Policy {
	return Policy{
		Name:            "Balanced",
		EconomyPriority: 0.5,
		Aggression:      0.5,
		HarvesterKind:   "frog",
	}
}

// Validate clamps all weights to their valid ranges and derives the attack
// group size from aggression when unset.
func (p *Policy) Validate() {
	p.EconomyPriority = clamp(p.EconomyPriority, 0, 1)
	p.Aggression = clamp(p.Aggression, 0, 1)
	if p.AttackGroupSize == 0 {
		p.AttackGroupSize = lerp(6, 1, p.Aggression)
	}
	p.AttackGroupSize = clampInt(p.AttackGroupSize, 1, 12)
}

// MaxHarvesters is how many harvesters the spawn rule builds up to.
func (p Policy) MaxHarvesters() int { return lerp(2, 12, p.EconomyPriority) }

// SpawnCooldown is the minimum number of ticks between harvester spawns.
func (p Policy) SpawnCooldown() int { return lerp(60, 10, p.EconomyPriority) }

// DefenseRadius is how far from the home depot enemies draw a response.
func (p Policy) DefenseRadius() float64 { return lerpf(12, 4, p.Aggression) }

// clampInt restricts v to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// lerp linearly interpolates between min and max by t (0–1), returning an int.
func lerp(min, max int, t float64) int {
	return min + int(math.Round(float64(max-min)*t))
}

// lerpf linearly interpolates between min and max by t (0–1), returning a float64.
func lerpf(min, max, t float64) float64 {
	return min + (max-min)*t
}

// clamp restricts v to [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
