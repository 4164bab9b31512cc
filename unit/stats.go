package unit

import (
	"fmt"

	"github.com/Kode-Bolds/Froggies-sub002/model"
)

// HarvesterStats makes a unit able to gather and carry resources.
type HarvesterStats struct {
	CarryCapacity int     `yaml:"carry_capacity" json:"carryCapacity"`
	HarvestAmount int     `yaml:"harvest_amount" json:"harvestAmount"`
	CooldownTicks int     `yaml:"cooldown_ticks" json:"cooldownTicks"`
	HarvestRange  float64 `yaml:"harvest_range" json:"harvestRange"`
	DepositRange  float64 `yaml:"deposit_range" json:"depositRange"`
	// AutoReturn queues a deposit at the owner's nearest depot whenever a
	// harvest ends with a full inventory.
	AutoReturn bool `yaml:"auto_return" json:"autoReturn"`
}

// AttackStats makes a unit able to damage other units.
type AttackStats struct {
	Damage        int     `yaml:"damage" json:"damage"`
	CooldownTicks int     `yaml:"cooldown_ticks" json:"cooldownTicks"`
	Range         float64 `yaml:"range" json:"range"`
}

// Stats are the pre-validated per-kind values a unit is built from.
type Stats struct {
	Kind          model.UnitKind             `yaml:"-" json:"kind"`
	Speed         float64                    `yaml:"speed" json:"speed"` // world units per tick
	MaxHealth     int                        `yaml:"max_health" json:"maxHealth"`
	QueueCapacity int                        `yaml:"queue_capacity" json:"queueCapacity"`
	Cost          map[model.ResourceType]int `yaml:"cost" json:"cost,omitempty"`
	Harvester     *HarvesterStats            `yaml:"harvester" json:"harvester,omitempty"`
	Attack        *AttackStats               `yaml:"attack" json:"attack,omitempty"`
}

func (s Stats) Validate() error {
	if s.Speed <= 0 {
		return fmt.Errorf("%s: speed must be positive, got %g", s.Kind, s.Speed)
	}
	if s.MaxHealth <= 0 {
		return fmt.Errorf("%s: max_health must be positive, got %d", s.Kind, s.MaxHealth)
	}
	if h := s.Harvester; h != nil {
		if h.CarryCapacity <= 0 || h.HarvestAmount <= 0 {
			return fmt.Errorf("%s: harvester needs positive carry_capacity and harvest_amount", s.Kind)
		}
		if h.CooldownTicks < 1 {
			return fmt.Errorf("%s: harvester cooldown_ticks must be at least 1", s.Kind)
		}
	}
	if a := s.Attack; a != nil {
		if a.Damage <= 0 || a.CooldownTicks < 1 || a.Range <= 0 {
			return fmt.Errorf("%s: attack needs positive damage, range and cooldown_ticks", s.Kind)
		}
	}
	return nil
}

// Inventory is what a harvester is carrying. Type is ResourceNone exactly
// when Amount is zero.
type Inventory struct {
	Type     model.ResourceType `json:"type"`
	Amount   int                `json:"amount"`
	Capacity int                `json:"capacity"`
}

func (inv Inventory) Space() int  { return inv.Capacity - inv.Amount }
func (inv Inventory) Full() bool  { return inv.Amount >= inv.Capacity }
func (inv Inventory) Empty() bool { return inv.Amount == 0 }

// add stores n units of t, capped at capacity, and returns how many fit.
// It refuses a type other than the one already carried.
func (inv *Inventory) add(t model.ResourceType, n int) int {
	if n <= 0 || (inv.Amount > 0 && inv.Type != t) {
		return 0
	}
	n = min(n, inv.Space())
	if n <= 0 {
		return 0
	}
	inv.Type = t
	inv.Amount += n
	return n
}

// take empties the inventory and returns what it held.
func (inv *Inventory) take() (model.ResourceType, int) {
	t, n := inv.Type, inv.Amount
	inv.Type, inv.Amount = model.ResourceNone, 0
	return t, n
}
