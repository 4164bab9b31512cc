package rules

import "fmt"

// attackSquad is the squad name the military rules form and drive.
const attackSquad = "attack"

// CompilePolicy generates a complete rule set from a policy's weights.
// All conditions are built via fmt.Sprintf with interpolated values, so the
// compiler never generates invalid expr.
func CompilePolicy(p Policy) []*Rule {
	p.Validate()
	var rules []*Rule

	// --- Economy ---

	rules = append(rules, &Rule{
		Name:         "return-loaded-harvesters",
		Priority:     900,
		Category:     "economy",
		Exclusive:    false,
		ConditionSrc: `HasDepot() && len(LoadedIdleHarvesters()) > 0`,
		Action:       ActionReturnLoadedHarvesters,
	})

	rules = append(rules, &Rule{
		Name:         "send-idle-harvesters",
		Priority:     850,
		Category:     "economy",
		Exclusive:    false,
		ConditionSrc: `AnyNodes() && len(IdleHarvesters()) > 0`,
		Action:       ActionSendIdleHarvesters,
	})

	// Spawning is paid through the pool, so only one spawn decision per pass.
	spawnCond := fmt.Sprintf(`HasDepot() && AnyNodes() && HarvesterCount() < %d && CanAfford(%q) && CooldownDone("spawnHarvesterTick", %d)`,
		p.MaxHarvesters(), p.HarvesterKind, p.SpawnCooldown())
	rules = append(rules, &Rule{
		Name:         "spawn-harvester",
		Priority:     700,
		Category:     "production",
		Exclusive:    true,
		ConditionSrc: spawnCond,
		Action:       ActionSpawnHarvester,
	})

	// --- Military ---

	rules = append(rules, &Rule{
		Name:         "defend-base",
		Priority:     650,
		Category:     "military",
		Exclusive:    true,
		ConditionSrc: fmt.Sprintf(`len(EnemiesNearBase(%.1f)) > 0 && len(UnassignedIdleCombat()) > 0`, p.DefenseRadius()),
		Action:       ActionDefendBase(p.DefenseRadius()),
	})

	rules = append(rules, &Rule{
		Name:         "form-attack-squad",
		Priority:     610,
		Category:     "military",
		Exclusive:    false,
		ConditionSrc: fmt.Sprintf(`EnemiesVisible() && !SquadExists(%q) && len(UnassignedIdleCombat()) >= %d`, attackSquad, p.AttackGroupSize),
		Action:       FormSquad(attackSquad, p.AttackGroupSize),
	})

	rules = append(rules, &Rule{
		Name:         "squad-attack",
		Priority:     600,
		Category:     "military",
		Exclusive:    true,
		ConditionSrc: fmt.Sprintf(`EnemiesVisible() && SquadExists(%q)`, attackSquad),
		Action:       SquadAttack(attackSquad),
	})

	return rules
}

// DefaultRules is the rule set for DefaultPolicy.
func DefaultRules() []*Rule { return CompilePolicy(DefaultPolicy()) }
