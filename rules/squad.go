package rules

import "github.com/Kode-Bolds/Froggies-sub002/model"

// Squad gives combat units persistent identity across evaluations so an
// attack group stays together instead of being re-picked every tick.
type Squad struct {
	Name    string
	UnitIDs []int
	Target  int // enemy unit id, 0 when none chosen yet
}

func getSquads(memory map[string]any) map[string]*Squad {
	if v, ok := memory["squads"].(map[string]*Squad); ok {
		return v
	}
	return make(map[string]*Squad)
}

// updateSquads removes dead units each evaluation. Squads with no survivors
// are dissolved so formation rules can create fresh ones.
func updateSquads(env RuleEnv) {
	squads := getSquads(env.Memory)
	aliveIDs := makeUnitIDSet(env.State.Units)

	for name, sq := range squads {
		alive := sq.UnitIDs[:0]
		for _, id := range sq.UnitIDs {
			if aliveIDs[id] {
				alive = append(alive, id)
			}
		}
		sq.UnitIDs = alive
		if sq.Target != 0 && !aliveIDs[sq.Target] {
			sq.Target = 0
		}

		if len(sq.UnitIDs) == 0 {
			delete(squads, name)
		}
	}
	env.Memory["squads"] = squads
}

func makeUnitIDSet(units []model.UnitView) map[int]bool {
	s := make(map[int]bool, len(units))
	for _, u := range units {
		s[u.ID] = true
	}
	return s
}

// squadUnitIDSet is used by UnassignedIdleCombat to exclude squad members
// from the free pool.
func squadUnitIDSet(memory map[string]any) map[int]bool {
	squads := getSquads(memory)
	s := make(map[int]bool)
	for _, sq := range squads {
		for _, id := range sq.UnitIDs {
			s[id] = true
		}
	}
	return s
}
