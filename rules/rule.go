package rules

import (
	"github.com/expr-lang/expr/vm"

	"github.com/Kode-Bolds/Froggies-sub002/command"
	"github.com/Kode-Bolds/Froggies-sub002/model"
)

// Commander is the slice of the simulation's boundary that rule actions may
// drive. *sim.World satisfies it.
type Commander interface {
	Enqueue(unitID int, typ command.Type, target command.Target, front bool) (uint64, error)
	RequestSpawn(kind model.UnitKind, owner int, pose model.Pose) error
	Spend(owner int, cost map[model.ResourceType]int) error
}

// ActionFunc issues orders when a rule's condition is true.
type ActionFunc func(env RuleEnv, cmd Commander) error

// Rule is the atomic unit of automation: a condition → action pair.
// The engine evaluates rules by priority and uses Category + Exclusive
// to keep two rules from issuing conflicting orders in one pass.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	Category     string      // grouping for exclusive semantics
	Exclusive    bool        // if true, blocks lower-priority rules in same category
	ConditionSrc string      // expr source
	program      *vm.Program // compiled bytecode
	Action       ActionFunc
}
