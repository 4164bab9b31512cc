package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Kode-Bolds/Froggies-sub002/model"
	"github.com/Kode-Bolds/Froggies-sub002/nav"
)

func TestDefaultsValidate(t *testing.T) {
	c := Defaults()
	if err := c.Validate(); err != nil {
		t.Fatalf("Defaults().Validate() = %v", err)
	}
	sc, err := c.SimConfig()
	if err != nil {
		t.Fatal(err)
	}
	if sc.BlockPolicy != nav.DefaultBlockPolicy {
		t.Errorf("BlockPolicy = %b, want %b", sc.BlockPolicy, nav.DefaultBlockPolicy)
	}
	if len(sc.Grid.Obstacles) != 8 || sc.Grid.Obstacles[0].Tag != model.Environment {
		t.Errorf("obstacles = %v", sc.Grid.Obstacles)
	}
}

const sample = `
tick_rate_hz: 20
grid:
  cell_size: 2
  width: 10
  depth: 10
  obstacles:
    - {x: 3, z: 3, tag: building}
units:
  newt:
    speed: 1
    max_health: 5
resource_nodes:
  - {id: 9, type: rare_resource, position: {x: 4, z: 4}, amount: 10}
depots: []
start_units:
  - {kind: newt, owner: 1, position: {x: 2, z: 2}, count: 3}
automated_owners: []
rules:
  - name: hunt
    priority: 100
    category: military
    condition: EnemiesVisible()
    action: attack_nearest
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "froggies.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.TickRateHz != 20 || c.QueueCapacity != 16 {
		t.Errorf("tick_rate_hz = %d, queue_capacity = %d, want 20 and default 16", c.TickRateHz, c.QueueCapacity)
	}
	if _, ok := c.Units["frog"]; !ok {
		t.Error("default frog kind lost; units should merge")
	}
	if c.ResourceNodes[0].Type != model.RareResource {
		t.Errorf("node type = %s, want rare_resource", c.ResourceNodes[0].Type)
	}

	w, err := c.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	snap := w.Snapshot()
	if len(snap.Units) != 3 || len(snap.Nodes) != 1 || len(snap.Depots) != 0 {
		t.Errorf("built %d units, %d nodes, %d depots, want 3/1/0", len(snap.Units), len(snap.Nodes), len(snap.Depots))
	}
	if got := w.Grid().Occupancy(model.Coord{X: 3, Z: 3}); got != model.Building {
		t.Errorf("obstacle tag = %s, want building", got)
	}

	e, err := c.Engine()
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	names := e.Rules()
	if len(names) != 7 || !strings.Contains(strings.Join(names, ","), "hunt") {
		t.Errorf("rules = %v, want policy rules plus hunt", names)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"tick rate", func(c *Config) { c.TickRateHz = 0 }, "tick_rate_hz"},
		{"queue capacity", func(c *Config) { c.QueueCapacity = -1 }, "queue_capacity"},
		{"grid extents", func(c *Config) { c.Grid.Width = 0 }, "grid"},
		{"obstacle tag", func(c *Config) { c.Grid.Obstacles[0].Tag = "lava" }, "obstacle"},
		{"block occupancy", func(c *Config) { c.BlockOccupancy = []string{"fog"} }, "block_occupancy"},
		{"no units", func(c *Config) { c.Units = nil }, "units"},
		{"bad stats", func(c *Config) {
			s := c.Units["frog"]
			s.Speed = 0
			c.Units["frog"] = s
		}, "speed"},
		{"duplicate node", func(c *Config) { c.ResourceNodes[1].ID = c.ResourceNodes[0].ID }, "duplicate id"},
		{"node outside", func(c *Config) { c.ResourceNodes[0].Position = model.Vec3{X: 99} }, "outside the grid"},
		{"duplicate depot", func(c *Config) { c.Depots[1].ID = 1 }, "depots"},
		{"unknown start kind", func(c *Config) { c.StartUnits[0].Kind = "newt" }, "unknown kind"},
		{"harvester kind", func(c *Config) { c.Policy.HarvesterKind = "newt" }, "harvester_kind"},
		{"unknown action", func(c *Config) { c.Rules = []RuleSpec{{Name: "x", Action: "dance"}} }, "unknown action"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Defaults()
			tc.mutate(&c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tc.want)
			}
		})
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "tick_rate_hz: [")); err == nil {
		t.Error("Load accepted malformed yaml")
	}
	if _, err := Load(writeConfig(t, "resource_nodes:\n  - {id: 1, type: gold}\n")); err == nil {
		t.Error("Load accepted unknown resource type")
	}
}

func TestCostsClonesPerKind(t *testing.T) {
	c := Defaults()
	costs := c.Costs()
	costs["frog"][model.Food] = 1
	if c.Units["frog"].Cost[model.Food] != 25 {
		t.Error("Costs() aliases the configured cost map")
	}
	if _, ok := costs["heron"]; !ok {
		t.Error("heron cost missing")
	}
}
