// Package config loads the YAML tuning file a world is built from.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Kode-Bolds/Froggies-sub002/model"
	"github.com/Kode-Bolds/Froggies-sub002/nav"
	"github.com/Kode-Bolds/Froggies-sub002/rules"
	"github.com/Kode-Bolds/Froggies-sub002/unit"
)

type Config struct {
	TickRateHz     int                           `yaml:"tick_rate_hz"`
	Workers        int                           `yaml:"workers"`
	QueueCapacity  int                           `yaml:"queue_capacity"`
	Grid           GridConfig                    `yaml:"grid"`
	BlockOccupancy []string                      `yaml:"block_occupancy"`
	Units          map[model.UnitKind]unit.Stats `yaml:"units"`
	ResourceNodes  []NodeConfig                  `yaml:"resource_nodes"`
	Depots         []DepotConfig                 `yaml:"depots"`
	StartUnits     []StartUnit                   `yaml:"start_units"`

	// AutomatedOwners are the sides driven by the rule engine.
	AutomatedOwners []int        `yaml:"automated_owners"`
	Policy          rules.Policy `yaml:"policy"`
	Rules           []RuleSpec   `yaml:"rules"`
}

type GridConfig struct {
	CellSize  float64          `yaml:"cell_size"`
	Width     int              `yaml:"width"`
	Depth     int              `yaml:"depth"`
	Origin    model.Vec3       `yaml:"origin"`
	Obstacles []ObstacleConfig `yaml:"obstacles"`
}

// ObstacleConfig pre-tags a cell; Tag defaults to environment.
type ObstacleConfig struct {
	X   int    `yaml:"x"`
	Z   int    `yaml:"z"`
	Tag string `yaml:"tag"`
}

type NodeConfig struct {
	ID       int                `yaml:"id"`
	Type     model.ResourceType `yaml:"type"`
	Position model.Vec3         `yaml:"position"`
	Radius   float64            `yaml:"radius"`
	Amount   int                `yaml:"amount"`
}

type DepotConfig struct {
	ID       int        `yaml:"id"`
	Owner    int        `yaml:"owner"`
	Position model.Vec3 `yaml:"position"`
	Radius   float64    `yaml:"radius"`
}

type StartUnit struct {
	Kind     model.UnitKind `yaml:"kind"`
	Owner    int            `yaml:"owner"`
	Position model.Vec3     `yaml:"position"`
	Count    int            `yaml:"count"`
}

// RuleSpec is an extra automation rule. Action names a registered action
// (see rules.Actions).
type RuleSpec struct {
	Name      string `yaml:"name"`
	Priority  int    `yaml:"priority"`
	Category  string `yaml:"category"`
	Exclusive bool   `yaml:"exclusive"`
	Condition string `yaml:"condition"`
	Action    string `yaml:"action"`
}

// Load reads path over Defaults. Fields present in the file replace the
// defaults; lists are replaced whole and units merge per kind.
func Load(path string) (Config, error) {
	c := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.TickRateHz <= 0 {
		return fmt.Errorf("tick_rate_hz must be positive, got %d", c.TickRateHz)
	}
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("queue_capacity must be positive, got %d", c.QueueCapacity)
	}
	spec, err := c.gridSpec()
	if err != nil {
		return err
	}
	grid, err := nav.NewGrid(spec)
	if err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	inBounds := func(p model.Vec3) bool {
		_, ok := grid.CoordOf(p)
		return ok
	}
	if _, err := c.blockPolicy(); err != nil {
		return err
	}
	if len(c.Units) == 0 {
		return errors.New("units: at least one kind is required")
	}
	for kind, s := range c.Units {
		s.Kind = kind
		if err := s.Validate(); err != nil {
			return fmt.Errorf("units: %w", err)
		}
	}

	ids := make(map[int]bool)
	for _, n := range c.ResourceNodes {
		if ids[n.ID] {
			return fmt.Errorf("resource_nodes: duplicate id %d", n.ID)
		}
		ids[n.ID] = true
		if n.Type == model.ResourceNone || n.Amount < 0 {
			return fmt.Errorf("resource_nodes: node %d needs a type and a non-negative amount", n.ID)
		}
		if !inBounds(n.Position) {
			return fmt.Errorf("resource_nodes: node %d at %s is outside the grid", n.ID, n.Position)
		}
	}
	clear(ids)
	for _, d := range c.Depots {
		if ids[d.ID] {
			return fmt.Errorf("depots: duplicate id %d", d.ID)
		}
		ids[d.ID] = true
		if !inBounds(d.Position) {
			return fmt.Errorf("depots: depot %d at %s is outside the grid", d.ID, d.Position)
		}
	}
	for _, su := range c.StartUnits {
		if _, ok := c.Units[su.Kind]; !ok {
			return fmt.Errorf("start_units: unknown kind %q", su.Kind)
		}
		if !inBounds(su.Position) {
			return fmt.Errorf("start_units: %s at %s is outside the grid", su.Kind, su.Position)
		}
	}

	c.Policy.Validate()
	if _, ok := c.Units[model.UnitKind(c.Policy.HarvesterKind)]; !ok && len(c.AutomatedOwners) > 0 {
		return fmt.Errorf("policy: harvester_kind %q is not a configured unit", c.Policy.HarvesterKind)
	}
	for _, r := range c.Rules {
		if _, err := rules.ActionByName(r.Action); err != nil {
			return fmt.Errorf("rules: %s: %w", r.Name, err)
		}
	}
	return nil
}

func (c *Config) gridSpec() (model.GridSpec, error) {
	spec := model.GridSpec{
		CellSize: c.Grid.CellSize,
		Width:    c.Grid.Width,
		Depth:    c.Grid.Depth,
		Origin:   c.Grid.Origin,
	}
	for _, o := range c.Grid.Obstacles {
		tag := model.Environment
		if o.Tag != "" {
			t, err := model.ParseOccupancy(o.Tag)
			if err != nil {
				return spec, fmt.Errorf("grid obstacle (%d,%d): %w", o.X, o.Z, err)
			}
			tag = t
		}
		spec.Obstacles = append(spec.Obstacles, model.Obstacle{Coord: model.Coord{X: o.X, Z: o.Z}, Tag: tag})
	}
	return spec, nil
}

func (c *Config) blockPolicy() (nav.BlockPolicy, error) {
	tags := make([]model.Occupancy, 0, len(c.BlockOccupancy))
	for _, s := range c.BlockOccupancy {
		t, err := model.ParseOccupancy(s)
		if err != nil {
			return 0, fmt.Errorf("block_occupancy: %w", err)
		}
		tags = append(tags, t)
	}
	return nav.PolicyOf(tags...), nil
}
