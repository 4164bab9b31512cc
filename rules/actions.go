package rules

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Kode-Bolds/Froggies-sub002/command"
	"github.com/Kode-Bolds/Froggies-sub002/model"
)

// Actions maps names usable from configured rules to their actions.
var Actions = map[string]ActionFunc{
	"return_loaded_harvesters": ActionReturnLoadedHarvesters,
	"send_idle_harvesters":     ActionSendIdleHarvesters,
	"spawn_harvester":          ActionSpawnHarvester,
	"attack_nearest":           ActionAttackNearest,
}

// ActionByName looks up a registered action.
func ActionByName(name string) (ActionFunc, error) {
	if a, ok := Actions[name]; ok {
		return a, nil
	}
	names := make([]string, 0, len(Actions))
	for n := range Actions {
		names = append(names, n)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("unknown action %q (have %v)", name, names)
}

func ActionReturnLoadedHarvesters(env RuleEnv, cmd Commander) error {
	var errs []error
	for _, u := range env.LoadedIdleHarvesters() {
		slog.Debug("returning loaded harvester", "id", u.ID, "carried", u.CarriedAmount, "type", u.CarriedType)
		if _, err := cmd.Enqueue(u.ID, command.Deposit, command.Target{Kind: command.TargetAnyDepot}, false); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ActionSendIdleHarvesters sends empty idle harvesters after whichever
// resource the pool is lowest on.
func ActionSendIdleHarvesters(env RuleEnv, cmd Commander) error {
	need := env.NeededResource()
	if need == model.ResourceNone {
		return nil
	}
	var errs []error
	for _, u := range env.IdleHarvesters() {
		slog.Debug("sending idle harvester", "id", u.ID, "resource", need)
		target := command.Target{Kind: command.TargetAnyResource, Resource: need}
		if _, err := cmd.Enqueue(u.ID, command.Harvest, target, false); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ActionSpawnHarvester pays for one harvester and requests it at the home
// depot. The payment is a negative aggregation event.
func ActionSpawnHarvester(env RuleEnv, cmd Commander) error {
	kind := model.UnitKind(env.Policy.HarvesterKind)
	home, ok := env.homeDepot()
	if !ok {
		return nil
	}
	if err := cmd.Spend(env.Owner, env.Costs[kind]); err != nil {
		slog.Debug("harvester spawn not affordable", "kind", kind, "error", err)
		return nil
	}
	env.stamp("spawnHarvesterTick")
	slog.Info("spawning harvester", "kind", kind, "owner", env.Owner)
	return cmd.RequestSpawn(kind, env.Owner, model.Pose{Position: home.Position})
}

// ActionAttackNearest sends every unassigned idle combat unit at the enemy
// closest to it.
func ActionAttackNearest(env RuleEnv, cmd Commander) error {
	var errs []error
	for _, u := range env.UnassignedIdleCombat() {
		enemy := env.NearestEnemy(u.Position)
		if enemy == nil {
			return nil
		}
		if err := attack(cmd, u.ID, enemy.ID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ActionDefendBase sends idle combat units at enemies inside radius of the
// home depot.
func ActionDefendBase(radius float64) ActionFunc {
	return func(env RuleEnv, cmd Commander) error {
		threats := env.EnemiesNearBase(radius)
		if len(threats) == 0 {
			return nil
		}
		var errs []error
		for i, u := range env.UnassignedIdleCombat() {
			target := threats[i%len(threats)]
			slog.Debug("defending base", "id", u.ID, "target", target.ID)
			if err := attack(cmd, u.ID, target.ID); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}

// FormSquad assigns unit IDs to a named squad in memory but does NOT issue
// orders. Formation and action are separate rules so the compiler can set
// different priorities and conditions for each.
func FormSquad(name string, size int) ActionFunc {
	return func(env RuleEnv, cmd Commander) error {
		pool := env.UnassignedIdleCombat()
		if len(pool) < size {
			return nil
		}
		ids := make([]int, size)
		for i := range size {
			ids[i] = pool[i].ID
		}
		squads := getSquads(env.Memory)
		squads[name] = &Squad{Name: name, UnitIDs: ids}
		env.Memory["squads"] = squads
		slog.Info("squad formed", "name", name, "size", size, "owner", env.Owner)
		return nil
	}
}

// SquadAttack focuses the squad's idle members on one enemy, picked nearest
// to the first member and kept until it dies.
func SquadAttack(name string) ActionFunc {
	return func(env RuleEnv, cmd Commander) error {
		sq, ok := getSquads(env.Memory)[name]
		if !ok || len(sq.UnitIDs) == 0 {
			return nil
		}
		if sq.Target == 0 {
			lead, ok := env.State.Unit(sq.UnitIDs[0])
			if !ok {
				return nil
			}
			enemy := env.NearestEnemy(lead.Position)
			if enemy == nil {
				return nil
			}
			sq.Target = enemy.ID
		}
		ids := squadIdleIDs(env, sq)
		if len(ids) == 0 {
			return nil
		}
		slog.Debug("squad attack", "squad", name, "count", len(ids), "target", sq.Target)
		var errs []error
		for _, id := range ids {
			if err := attack(cmd, id, sq.Target); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}

func squadIdleIDs(env RuleEnv, sq *Squad) []int {
	var ids []int
	for _, id := range sq.UnitIDs {
		if u, ok := env.State.Unit(id); ok && u.Idle() {
			ids = append(ids, id)
		}
	}
	return ids
}

func attack(cmd Commander, unitID, targetID int) error {
	_, err := cmd.Enqueue(unitID, command.Attack, command.Target{Kind: command.TargetUnit, ID: targetID}, false)
	return err
}
