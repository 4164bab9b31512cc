package rules

import "testing"

func TestLerp(t *testing.T) {
	tests := []struct {
		min, max int
		t        float64
		want     int
	}{
		{2, 12, 0.0, 2},
		{2, 12, 1.0, 12},
		{2, 12, 0.5, 7},
		{60, 10, 0.5, 35},
		{6, 1, 1.0, 1},
		{6, 1, 0.0, 6},
	}
	for _, tc := range tests {
		got := lerp(tc.min, tc.max, tc.t)
		if got != tc.want {
			t.Errorf("lerp(%d, %d, %.1f) = %d, want %d", tc.min, tc.max, tc.t, got, tc.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-0.5, 0, 1, 0.0},
		{1.5, 0, 1, 1.0},
	}
	for _, tc := range tests {
		got := clamp(tc.v, tc.min, tc.max)
		if got != tc.want {
			t.Errorf("clamp(%f, %f, %f) = %f, want %f", tc.v, tc.min, tc.max, got, tc.want)
		}
	}
}

func TestPolicyValidate(t *testing.T) {
	p := Policy{EconomyPriority: 1.5, Aggression: -0.5}
	p.Validate()
	if p.EconomyPriority != 1 || p.Aggression != 0 {
		t.Errorf("weights not clamped: %+v", p)
	}
	if p.AttackGroupSize != 6 {
		t.Errorf("AttackGroupSize = %d, want 6 for zero aggression", p.AttackGroupSize)
	}
	if p.MaxHarvesters() != 12 || p.SpawnCooldown() != 10 {
		t.Errorf("MaxHarvesters() = %d, SpawnCooldown() = %d", p.MaxHarvesters(), p.SpawnCooldown())
	}

	big := Policy{AttackGroupSize: 40}
	big.Validate()
	if big.AttackGroupSize != 12 {
		t.Errorf("AttackGroupSize = %d, want clamp to 12", big.AttackGroupSize)
	}
}

func TestCompilePolicyInterpolates(t *testing.T) {
	rules := CompilePolicy(Policy{EconomyPriority: 0, Aggression: 1, HarvesterKind: "toad"})
	var spawn, form *Rule
	for _, r := range rules {
		switch r.Name {
		case "spawn-harvester":
			spawn = r
		case "form-attack-squad":
			form = r
		}
	}
	if spawn == nil || form == nil {
		t.Fatal("missing spawn or squad rule")
	}
	wantSpawn := `HasDepot() && AnyNodes() && HarvesterCount() < 2 && CanAfford("toad") && CooldownDone("spawnHarvesterTick", 60)`
	if spawn.ConditionSrc != wantSpawn {
		t.Errorf("spawn condition = %s, want %s", spawn.ConditionSrc, wantSpawn)
	}
	wantForm := `EnemiesVisible() && !SquadExists("attack") && len(UnassignedIdleCombat()) >= 1`
	if form.ConditionSrc != wantForm {
		t.Errorf("form condition = %s, want %s", form.ConditionSrc, wantForm)
	}
	if _, err := NewEngine(rules); err != nil {
		t.Errorf("compiled policy rejected: %v", err)
	}
}
