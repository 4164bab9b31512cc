package unit

import (
	"fmt"

	"github.com/Kode-Bolds/Froggies-sub002/command"
)

// StateKind is the behavioural state of a unit, derived from its active
// command.
type StateKind int

const (
	Idle StateKind = iota
	MovingToPosition
	MovingToHarvest
	Harvesting
	MovingToAttack
	Attacking
	MovingToDeposit
)

var stateNames = [...]string{
	Idle:             "idle",
	MovingToPosition: "moving_to_position",
	MovingToHarvest:  "moving_to_harvest",
	Harvesting:       "harvesting",
	MovingToAttack:   "moving_to_attack",
	Attacking:        "attacking",
	MovingToDeposit:  "moving_to_deposit",
}

func (k StateKind) String() string {
	if k >= 0 && int(k) < len(stateNames) {
		return stateNames[k]
	}
	return fmt.Sprintf("state(%d)", int(k))
}

// State is the variant a unit is in plus the target it is acting on.
type State struct {
	Kind   StateKind      `json:"kind"`
	Target command.Target `json:"target"`
}

func (s State) String() string {
	if s.Kind == Idle {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s %s", s.Kind, s.Target)
}

// stateFor maps a command phase to the state it implies. Queued and Complete
// imply no change.
func stateFor(c *command.Command) (State, bool) {
	var k StateKind
	switch c.Status {
	case command.MovingPhase:
		switch c.Type {
		case command.Move:
			k = MovingToPosition
		case command.Harvest:
			k = MovingToHarvest
		case command.Attack:
			k = MovingToAttack
		case command.Deposit:
			k = MovingToDeposit
		default:
			return State{}, false
		}
	case command.ExecutionPhase:
		switch c.Type {
		case command.Harvest:
			k = Harvesting
		case command.Attack:
			k = Attacking
		default:
			return State{}, false
		}
	default:
		return State{}, false
	}
	return State{Kind: k, Target: c.Target}, true
}

// Transition records one applied state change.
type Transition struct {
	Unit int   `json:"unit"`
	From State `json:"from"`
	To   State `json:"to"`
}
