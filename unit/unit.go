package unit

import (
	"log/slog"
	"math"

	"github.com/Kode-Bolds/Froggies-sub002/command"
	"github.com/Kode-Bolds/Froggies-sub002/model"
	"github.com/Kode-Bolds/Froggies-sub002/nav"
)

// arriveEpsilon is how close a Move must get to its target position.
const arriveEpsilon = 1e-6

// Unit is one simulated agent. Its queue, inventory, pose and path are owned
// by the unit alone, so distinct units may Advance concurrently.
type Unit struct {
	id    int
	owner int
	stats Stats

	pose      model.Pose
	health    int
	inventory Inventory

	queue   *command.Queue
	state   State
	pending *State

	activeID   uint64 // command the cached path belongs to
	path       nav.Path
	pathIdx    int
	pathGoal   model.Coord
	pathFailed bool
	repath     bool

	cooldown int
	lastNode int
	followUp *command.Command
}

func New(id, owner int, stats Stats, pose model.Pose) *Unit {
	u := &Unit{
		id:       id,
		owner:    owner,
		stats:    stats,
		pose:     pose,
		health:   stats.MaxHealth,
		queue:    command.NewQueue(stats.QueueCapacity),
		lastNode: -1,
	}
	if stats.Harvester != nil {
		u.inventory.Capacity = stats.Harvester.CarryCapacity
	}
	return u
}

func (u *Unit) ID() int              { return u.id }
func (u *Unit) Owner() int           { return u.owner }
func (u *Unit) Kind() model.UnitKind { return u.stats.Kind }
func (u *Unit) Stats() Stats         { return u.stats }
func (u *Unit) Pose() model.Pose     { return u.pose }
func (u *Unit) Position() model.Vec3 { return u.pose.Position }
func (u *Unit) Health() int          { return u.health }
func (u *Unit) Alive() bool          { return u.health > 0 }
func (u *Unit) State() State         { return u.state }
func (u *Unit) Inventory() Inventory { return u.inventory }
func (u *Unit) Path() nav.Path       { return u.path }
func (u *Unit) PathFailed() bool     { return u.pathFailed }
func (u *Unit) QueueLen() int        { return u.queue.Len() }
func (u *Unit) Harvester() bool      { return u.stats.Harvester != nil }
func (u *Unit) Combat() bool         { return u.stats.Attack != nil }

// Commands returns a copy of the queue, active command first.
func (u *Unit) Commands() []command.Command { return u.queue.Items() }

// Head returns a copy of the active command.
func (u *Unit) Head() (command.Command, bool) {
	h := u.queue.Head()
	if h == nil {
		return command.Command{}, false
	}
	return *h, true
}

// Enqueue adds c to the tail, or makes it the active command when front is
// set. On overflow nothing changes.
func (u *Unit) Enqueue(c *command.Command, front bool) error {
	if front {
		return u.queue.PushFront(c)
	}
	return u.queue.Push(c)
}

// Stop drops every queued command. The unit requests Idle on its next
// advance unless a newly queued command claims the transition first.
func (u *Unit) Stop() int {
	n := u.queue.Clear()
	u.followUp = nil
	u.clearPath()
	return n
}

// SetInventory overrides what the unit carries, for spawning pre-loaded
// units and for tests.
func (u *Unit) SetInventory(t model.ResourceType, amount int) {
	u.inventory.Type, u.inventory.Amount = model.ResourceNone, 0
	u.inventory.add(t, amount)
}

// TakeDamage is applied in the serial phase. It returns true if the hit was
// fatal.
func (u *Unit) TakeDamage(n int) bool {
	if n <= 0 || u.health <= 0 {
		return false
	}
	u.health -= n
	if u.health < 0 {
		u.health = 0
	}
	return u.health == 0
}

// request records a transition to s. The first request in a tick wins;
// later ones are dropped until ApplyTransition runs.
func (u *Unit) request(s State) bool {
	if u.pending != nil {
		return false
	}
	u.pending = &s
	return true
}

// PendingTransition reports the outstanding request, if any.
func (u *Unit) PendingTransition() (State, bool) {
	if u.pending == nil {
		return State{}, false
	}
	return *u.pending, true
}

// ApplyTransition applies and clears the pending request. It is called once
// per unit at a single point in the tick.
func (u *Unit) ApplyTransition() (Transition, bool) {
	if u.pending == nil {
		return Transition{}, false
	}
	t := Transition{Unit: u.id, From: u.state, To: *u.pending}
	u.state = *u.pending
	u.pending = nil
	return t, true
}

// InvalidatePath marks the cached path stale when it crosses a changed
// node, or when the last search failed and the map has since changed. It
// reports whether the unit will re-plan.
func (u *Unit) InvalidatePath(changed map[model.Coord]struct{}) bool {
	if u.queue.Len() == 0 {
		return false
	}
	if u.pathFailed || u.path.CrossesAny(u.pathIdx, changed) {
		u.repath = true
		return true
	}
	return false
}

func (u *Unit) clearPath() {
	u.path = nav.Path{}
	u.pathIdx = 0
	u.pathFailed = false
	u.repath = false
}

// plan searches from the unit's node to goal and caches the result.
func (u *Unit) plan(env Env, goal model.Coord) bool {
	from, _ := env.Grid().CoordOf(u.pose.Position)
	p, err := env.FindPath(from, goal)
	u.pathGoal = goal
	u.repath = false
	u.pathIdx = 0
	if err != nil {
		if !u.pathFailed {
			slog.Debug("path not found", "unit", u.id, "from", from, "to", goal, "error", err)
		}
		u.pathFailed = true
		u.path = nav.Path{}
		return false
	}
	u.pathFailed = false
	u.path = p
	return true
}

// arrived reports that the unit has walked the whole path to goal.
func (u *Unit) arrived(goal model.Coord) bool {
	return !u.path.Empty() && u.pathGoal == goal && u.pathIdx >= len(u.path.Waypoints)
}

// step walks along the cached path for one tick.
func (u *Unit) step() {
	budget := u.stats.Speed
	wps := u.path.Waypoints
	for budget > 0 && u.pathIdx < len(wps) {
		next := wps[u.pathIdx].Position
		d := u.pose.Position.DistXZ(next)
		if d <= budget {
			u.face(next)
			u.pose.Position = next
			budget -= d
			u.pathIdx++
			continue
		}
		u.face(next)
		u.pose.Position = u.pose.Position.Add(next.Sub(u.pose.Position).Scale(budget / d))
		budget = 0
	}
}

func (u *Unit) face(p model.Vec3) {
	dx, dz := p.X-u.pose.Position.X, p.Z-u.pose.Position.Z
	if dx != 0 || dz != 0 {
		u.pose.Heading = math.Atan2(dx, dz)
	}
}

// View is the read-back form of the unit.
func (u *Unit) View() model.UnitView {
	v := model.UnitView{
		ID:            u.id,
		Kind:          u.stats.Kind,
		Owner:         u.owner,
		Position:      u.pose.Position,
		State:         u.state.Kind.String(),
		QueueLen:      u.queue.Len(),
		CarriedType:   u.inventory.Type,
		CarriedAmount: u.inventory.Amount,
		Capacity:      u.inventory.Capacity,
		Health:        u.health,
		MaxHealth:     u.stats.MaxHealth,
		Harvester:     u.Harvester(),
		Combat:        u.Combat(),
	}
	if h := u.queue.Head(); h != nil {
		v.Command = h.Type.String()
	}
	return v
}
