package unit

import (
	"log/slog"

	"github.com/Kode-Bolds/Froggies-sub002/command"
	"github.com/Kode-Bolds/Froggies-sub002/model"
)

// Advance runs one tick of the unit's active command. State changes it
// implies are requested, not applied; see ApplyTransition.
func (u *Unit) Advance(env Env) {
	head := u.queue.Head()
	if head == nil {
		if u.state.Kind != Idle {
			u.request(State{Kind: Idle})
		}
		return
	}
	if head.ID != u.activeID {
		u.activeID = head.ID
		u.clearPath()
		u.cooldown = 0
	}

	switch head.Status {
	case command.Queued:
		u.begin(env, head)
	case command.MovingPhase:
		u.move(env, head)
	case command.ExecutionPhase:
		u.execute(env, head)
	case command.Complete:
		u.finish()
	}

	if h := u.queue.Head(); h != nil && h.Transitioned() {
		// A transition that loses to an earlier request this tick is
		// retried on the next advance.
		if s, ok := stateFor(h); !ok || u.request(s) {
			h.Settle()
		}
	}
}

// begin resolves the target and enters the moving phase, planning a path
// when the unit is not already in range.
func (u *Unit) begin(env Env, c *command.Command) {
	if !u.capable(c.Type) {
		slog.Warn("unit cannot execute command", "unit", u.id, "kind", u.stats.Kind, "command", c.Type)
		c.SetStatus(command.Complete)
		return
	}
	goal, rng, ok := u.resolve(env, c)
	if !ok {
		c.SetStatus(command.Complete)
		return
	}
	c.SetStatus(command.MovingPhase)
	if u.pose.Position.DistXZ(goal) <= rng {
		return
	}
	if cell, ok := u.approach(env, goal); ok {
		u.plan(env, cell)
	} else {
		u.pathFailed = true
	}
}

// move walks toward the target and switches to execution on arrival.
func (u *Unit) move(env Env, c *command.Command) {
	goal, rng, ok := u.resolve(env, c)
	if !ok {
		c.SetStatus(command.Complete)
		return
	}
	cell, reachable := u.approach(env, goal)
	inRange := u.pose.Position.DistXZ(goal) <= rng
	// A move to a blocked node ends beside it. Other commands need their
	// range, whatever node they stand on.
	if inRange || (c.Type == command.Move && reachable && u.arrived(cell)) {
		u.clearPath()
		u.reached(env, c)
		return
	}
	if !reachable {
		u.pathFailed = true
		return
	}
	if u.arrived(cell) && !u.repath {
		if !u.pathFailed {
			slog.Debug("target out of range from nearest passable node",
				"unit", u.id, "command", c.Type, "node", cell, "range", rng)
		}
		u.pathFailed = true
		return
	}
	if u.path.Empty() || u.repath || cell != u.pathGoal {
		if u.pathFailed && !u.repath && cell == u.pathGoal {
			// Stays in the moving phase until the map changes or the
			// command is replaced.
			return
		}
		if !u.plan(env, cell) {
			return
		}
	}
	u.step()
}

// reached is the end of the moving phase.
func (u *Unit) reached(env Env, c *command.Command) {
	switch c.Type {
	case command.Move:
		c.SetStatus(command.Complete)
	case command.Deposit:
		u.deposit(env)
		c.SetStatus(command.Complete)
	default:
		u.cooldown = 0
		c.SetStatus(command.ExecutionPhase)
	}
}

func (u *Unit) execute(env Env, c *command.Command) {
	switch c.Type {
	case command.Harvest:
		u.harvest(env, c)
	case command.Attack:
		u.attack(env, c)
	default:
		c.SetStatus(command.Complete)
	}
}

// finish pops the completed head. A follow-up produced by the command goes
// in front of whatever was queued next.
func (u *Unit) finish() {
	u.queue.Pop()
	u.clearPath()
	if u.followUp != nil {
		if err := u.queue.PushFront(u.followUp); err != nil {
			slog.Warn("dropping follow-up command", "unit", u.id, "command", u.followUp.Type, "error", err)
		}
		u.followUp = nil
	}
	if next := u.queue.Head(); next != nil {
		next.Reset()
		return
	}
	u.request(State{Kind: Idle})
}

func (u *Unit) capable(t command.Type) bool {
	switch t {
	case command.Harvest:
		return u.stats.Harvester != nil
	case command.Attack:
		return u.stats.Attack != nil
	default:
		return true
	}
}

// resolve returns the current goal position and satisfying range of c,
// falling back to another target of the same type when the original is gone.
func (u *Unit) resolve(env Env, c *command.Command) (model.Vec3, float64, bool) {
	switch c.Type {
	case command.Move:
		return c.Target.Position, arriveEpsilon, true

	case command.Harvest:
		if c.Target.Kind == command.TargetResourceNode {
			if n, ok := env.ResourceNode(c.Target.ID); ok && !n.Depleted() {
				return n.Position(), u.stats.Harvester.HarvestRange + n.Radius(), true
			}
		}
		typ := c.Target.Resource
		if c.Target.Kind == command.TargetResourceNode {
			if n, ok := env.ResourceNode(c.Target.ID); ok {
				typ = n.Type()
			}
		}
		n, ok := env.NearestResourceNode(typ, u.pose.Position)
		if !ok {
			slog.Debug("no resource node to harvest", "unit", u.id, "resource", typ)
			return model.Vec3{}, 0, false
		}
		if c.Target.Kind == command.TargetResourceNode {
			slog.Debug("harvest target gone, retargeting", "unit", u.id, "from", c.Target.ID, "to", n.ID())
		}
		c.Target = command.Target{Kind: command.TargetResourceNode, ID: n.ID(), Resource: n.Type(), Position: n.Position()}
		return n.Position(), u.stats.Harvester.HarvestRange + n.Radius(), true

	case command.Deposit:
		rng := 0.0
		if h := u.stats.Harvester; h != nil {
			rng = h.DepositRange
		}
		if c.Target.Kind == command.TargetDepot {
			if d, ok := env.Depot(c.Target.ID); ok {
				return d.Position, rng + d.Radius, true
			}
		}
		d, ok := env.NearestDepot(u.owner, u.pose.Position)
		if !ok {
			slog.Debug("no depot to deposit at", "unit", u.id, "owner", u.owner)
			return model.Vec3{}, 0, false
		}
		c.Target = command.Target{Kind: command.TargetDepot, ID: d.ID, Position: d.Position}
		return d.Position, rng + d.Radius, true

	case command.Attack:
		t, ok := env.Unit(c.Target.ID)
		if !ok || !t.Alive() {
			return model.Vec3{}, 0, false
		}
		c.Target.Position = t.Position
		return t.Position, u.stats.Attack.Range, true
	}
	return model.Vec3{}, 0, false
}

// approach picks the node to path to for a goal position: the goal's own
// node, or the passable one nearest to it when that is blocked. Ties go to
// the node closest to the unit, and an equally close node already being
// walked to is kept.
func (u *Unit) approach(env Env, goal model.Vec3) (model.Coord, bool) {
	c, _ := env.Grid().CoordOf(goal)
	if env.Passable(c) {
		return c, true
	}
	from, _ := env.Grid().CoordOf(u.pose.Position)
	cell, ok := env.NearestPassable(c, from)
	if ok && !u.path.Empty() && u.pathGoal != cell && env.Passable(u.pathGoal) &&
		u.pathGoal.DistSq(c) == cell.DistSq(c) {
		return u.pathGoal, true
	}
	return cell, ok
}
