package config

import (
	"fmt"
	"maps"

	"github.com/Kode-Bolds/Froggies-sub002/model"
	"github.com/Kode-Bolds/Froggies-sub002/resource"
	"github.com/Kode-Bolds/Froggies-sub002/rules"
	"github.com/Kode-Bolds/Froggies-sub002/sim"
	"github.com/Kode-Bolds/Froggies-sub002/unit"
)

// Defaults is a small two-sided pond: side 1 is left to a client, side 2
// is automated.
func Defaults() Config {
	return Config{
		TickRateHz:    10,
		QueueCapacity: 16,
		Grid: GridConfig{
			CellSize: 1,
			Width:    32,
			Depth:    32,
			Obstacles: []ObstacleConfig{
				{X: 15, Z: 12}, {X: 15, Z: 13}, {X: 15, Z: 14}, {X: 15, Z: 15},
				{X: 15, Z: 16}, {X: 15, Z: 17}, {X: 15, Z: 18}, {X: 15, Z: 19},
			},
		},
		BlockOccupancy: []string{"building", "environment"},
		Units: map[model.UnitKind]unit.Stats{
			"frog": {
				Speed:     0.5,
				MaxHealth: 30,
				Cost:      map[model.ResourceType]int{model.Food: 25},
				Harvester: &unit.HarvesterStats{
					CarryCapacity: 10,
					HarvestAmount: 2,
					CooldownTicks: 5,
					HarvestRange:  1.5,
					DepositRange:  1.5,
					AutoReturn:    true,
				},
			},
			"heron": {
				Speed:     0.8,
				MaxHealth: 60,
				Cost:      map[model.ResourceType]int{model.Food: 40, model.BuildingMaterial: 20},
				Attack:    &unit.AttackStats{Damage: 6, CooldownTicks: 8, Range: 1.5},
			},
		},
		ResourceNodes: []NodeConfig{
			{ID: 1, Type: model.Food, Position: model.Vec3{X: 6, Z: 6}, Radius: 0.5, Amount: 400},
			{ID: 2, Type: model.BuildingMaterial, Position: model.Vec3{X: 4, Z: 20}, Radius: 0.5, Amount: 300},
			{ID: 3, Type: model.Food, Position: model.Vec3{X: 25, Z: 25}, Radius: 0.5, Amount: 400},
			{ID: 4, Type: model.BuildingMaterial, Position: model.Vec3{X: 27, Z: 11}, Radius: 0.5, Amount: 300},
			{ID: 5, Type: model.RareResource, Position: model.Vec3{X: 16, Z: 24}, Radius: 0.5, Amount: 60},
		},
		Depots: []DepotConfig{
			{ID: 1, Owner: 1, Position: model.Vec3{X: 3, Z: 3}, Radius: 1},
			{ID: 2, Owner: 2, Position: model.Vec3{X: 28, Z: 28}, Radius: 1},
		},
		StartUnits: []StartUnit{
			{Kind: "frog", Owner: 1, Position: model.Vec3{X: 4, Z: 3}, Count: 2},
			{Kind: "heron", Owner: 1, Position: model.Vec3{X: 3, Z: 5}, Count: 1},
			{Kind: "frog", Owner: 2, Position: model.Vec3{X: 27, Z: 28}, Count: 2},
			{Kind: "heron", Owner: 2, Position: model.Vec3{X: 28, Z: 26}, Count: 2},
		},
		AutomatedOwners: []int{2},
		Policy:          rules.DefaultPolicy(),
	}
}

func (c *Config) SimConfig() (sim.Config, error) {
	spec, err := c.gridSpec()
	if err != nil {
		return sim.Config{}, err
	}
	policy, err := c.blockPolicy()
	if err != nil {
		return sim.Config{}, err
	}
	return sim.Config{
		Grid:          spec,
		BlockPolicy:   policy,
		Workers:       c.Workers,
		QueueCapacity: c.QueueCapacity,
		Kinds:         maps.Clone(c.Units),
	}, nil
}

// Build creates the world and places the configured nodes, depots and
// starting units.
func (c *Config) Build(opts ...sim.Option) (*sim.World, error) {
	sc, err := c.SimConfig()
	if err != nil {
		return nil, err
	}
	w, err := sim.New(sc, opts...)
	if err != nil {
		return nil, err
	}
	for _, n := range c.ResourceNodes {
		if err := w.AddResourceNode(n.ID, n.Type, n.Position, n.Radius, n.Amount); err != nil {
			return nil, fmt.Errorf("resource node %d: %w", n.ID, err)
		}
	}
	for _, d := range c.Depots {
		if err := w.AddDepot(resource.Depot{ID: d.ID, Owner: d.Owner, Position: d.Position, Radius: d.Radius}); err != nil {
			return nil, fmt.Errorf("depot %d: %w", d.ID, err)
		}
	}
	for _, su := range c.StartUnits {
		for range max(su.Count, 1) {
			if _, err := w.AddUnit(su.Kind, su.Owner, model.Pose{Position: su.Position}); err != nil {
				return nil, fmt.Errorf("start unit %s: %w", su.Kind, err)
			}
		}
	}
	return w, nil
}

// Costs returns the spawn cost of every configured kind.
func (c *Config) Costs() map[model.UnitKind]map[model.ResourceType]int {
	out := make(map[model.UnitKind]map[model.ResourceType]int, len(c.Units))
	for k, s := range c.Units {
		if len(s.Cost) > 0 {
			out[k] = maps.Clone(s.Cost)
		}
	}
	return out
}

// RuleSet compiles the policy and appends the configured extra rules.
func (c *Config) RuleSet() ([]*rules.Rule, error) {
	set := rules.CompilePolicy(c.Policy)
	for _, r := range c.Rules {
		action, err := rules.ActionByName(r.Action)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.Name, err)
		}
		set = append(set, &rules.Rule{
			Name:         r.Name,
			Priority:     r.Priority,
			Category:     r.Category,
			Exclusive:    r.Exclusive,
			ConditionSrc: r.Condition,
			Action:       action,
		})
	}
	return set, nil
}

// Engine builds a rule engine for one automated owner.
func (c *Config) Engine() (*rules.Engine, error) {
	set, err := c.RuleSet()
	if err != nil {
		return nil, err
	}
	e, err := rules.NewEngine(set)
	if err != nil {
		return nil, err
	}
	e.SetPolicy(c.Policy)
	e.SetCosts(c.Costs())
	return e, nil
}
