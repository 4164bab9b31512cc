package unit

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Kode-Bolds/Froggies-sub002/command"
	"github.com/Kode-Bolds/Froggies-sub002/model"
	"github.com/Kode-Bolds/Froggies-sub002/nav"
	"github.com/Kode-Bolds/Froggies-sub002/resource"
)

type fakeEnv struct {
	pf     *nav.Pathfinder
	nodes  map[int]*resource.Node
	depots map[int]resource.Depot
	units  map[int]TargetInfo
	agg    *resource.Aggregator
	damage []Damage
	nextID uint64
}

func newFakeEnv(t *testing.T, w, d int, obstacles ...model.Obstacle) *fakeEnv {
	t.Helper()
	g, err := nav.NewGrid(model.GridSpec{CellSize: 1, Width: w, Depth: d, Obstacles: obstacles})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return &fakeEnv{
		pf:     nav.NewPathfinder(g, nav.DefaultBlockPolicy),
		nodes:  make(map[int]*resource.Node),
		depots: make(map[int]resource.Depot),
		units:  make(map[int]TargetInfo),
		agg:    resource.NewAggregator(resource.NewPool()),
		nextID: 1000,
	}
}

func (e *fakeEnv) Grid() *nav.Grid { return e.pf.Grid() }
func (e *fakeEnv) FindPath(from, to model.Coord) (nav.Path, error) {
	return e.pf.FindPath(from, to)
}
func (e *fakeEnv) Passable(c model.Coord) bool { return e.pf.Passable(c) }
func (e *fakeEnv) NearestPassable(c, from model.Coord) (model.Coord, bool) {
	return e.pf.NearestPassable(c, from)
}
func (e *fakeEnv) ResourceNode(id int) (*resource.Node, bool) {
	n, ok := e.nodes[id]
	return n, ok
}
func (e *fakeEnv) NearestResourceNode(t model.ResourceType, from model.Vec3) (*resource.Node, bool) {
	var best *resource.Node
	for _, n := range e.nodes {
		if n.Depleted() || (t != model.ResourceNone && n.Type() != t) {
			continue
		}
		if best == nil || from.DistXZ(n.Position()) < from.DistXZ(best.Position()) {
			best = n
		}
	}
	return best, best != nil
}
func (e *fakeEnv) Depot(id int) (resource.Depot, bool) {
	d, ok := e.depots[id]
	return d, ok
}
func (e *fakeEnv) NearestDepot(owner int, from model.Vec3) (resource.Depot, bool) {
	for _, d := range e.depots {
		if d.Owner == owner {
			return d, true
		}
	}
	return resource.Depot{}, false
}
func (e *fakeEnv) Unit(id int) (TargetInfo, bool) {
	u, ok := e.units[id]
	return u, ok
}
func (e *fakeEnv) EmitDeposit(d resource.Deposit) { e.agg.Emit(d) }
func (e *fakeEnv) EmitDamage(d Damage)            { e.damage = append(e.damage, d) }
func (e *fakeEnv) NextCommandID() uint64 {
	e.nextID++
	return e.nextID
}

func tick(u *Unit, env Env) {
	u.Advance(env)
	u.ApplyTransition()
}

func harvesterStats(capacity, amount, cooldown int) Stats {
	return Stats{
		Kind:      "frog",
		Speed:     1,
		MaxHealth: 10,
		Harvester: &HarvesterStats{
			CarryCapacity: capacity,
			HarvestAmount: amount,
			CooldownTicks: cooldown,
			HarvestRange:  1,
			DepositRange:  1,
		},
	}
}

func at(x, z float64) model.Pose { return model.Pose{Position: model.Vec3{X: x, Z: z}} }

func enqueue(t *testing.T, u *Unit, id uint64, typ command.Type, target command.Target) *command.Command {
	t.Helper()
	c := command.New(id, typ, target)
	if err := u.Enqueue(c, false); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	return c
}

func TestMoveFollowsPath(t *testing.T) {
	env := newFakeEnv(t, 5, 5)
	u := New(1, 1, harvesterStats(10, 1, 1), at(0, 0))
	enqueue(t, u, 1, command.Move, command.Target{Kind: command.TargetPosition, Position: model.Vec3{X: 3}})

	tick(u, env)
	if u.State().Kind != MovingToPosition {
		t.Fatalf("state after first tick = %s, want moving_to_position", u.State())
	}
	want := []model.Coord{{X: 0, Z: 0}, {X: 1, Z: 0}, {X: 2, Z: 0}, {X: 3, Z: 0}}
	if diff := cmp.Diff(want, u.Path().Coords()); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	for i := 0; i < 3; i++ {
		tick(u, env)
	}
	if u.Position() != (model.Vec3{X: 3}) {
		t.Errorf("position after 3 steps = %s, want (3,0,0)", u.Position())
	}
	tick(u, env) // complete
	tick(u, env) // pop
	if u.State().Kind != Idle || u.QueueLen() != 0 {
		t.Errorf("after arrival: state %s, queue %d, want idle and empty", u.State(), u.QueueLen())
	}
}

func TestHarvestCapsAtCapacity(t *testing.T) {
	env := newFakeEnv(t, 5, 5)
	env.nodes[1] = resource.NewNode(1, model.Food, model.Vec3{}, 0.5, 100)
	u := New(1, 1, harvesterStats(10, 4, 1), at(0, 0))
	c := enqueue(t, u, 1, command.Harvest, command.Target{Kind: command.TargetResourceNode, ID: 1})

	tick(u, env) // queued -> moving (already in range)
	tick(u, env) // moving -> executing
	if c.Status != command.ExecutionPhase || u.State().Kind != Harvesting {
		t.Fatalf("status %s, state %s, want executing/harvesting", c.Status, u.State())
	}

	wantCarried := []int{4, 8, 10}
	for i, want := range wantCarried {
		tick(u, env)
		if got := u.Inventory().Amount; got != want {
			t.Errorf("after harvest tick %d: carried %d, want %d", i+1, got, want)
		}
		complete := c.Status == command.Complete
		if complete != (i == len(wantCarried)-1) {
			t.Errorf("after harvest tick %d: complete = %v", i+1, complete)
		}
	}
	if got := env.nodes[1].Remaining(); got != 90 {
		t.Errorf("node remaining = %d, want 90", got)
	}
	if inv := u.Inventory(); inv.Type != model.Food {
		t.Errorf("carried type = %s, want food", inv.Type)
	}
}

func TestHarvestCooldown(t *testing.T) {
	env := newFakeEnv(t, 3, 3)
	env.nodes[1] = resource.NewNode(1, model.Food, model.Vec3{}, 0.5, 100)
	u := New(1, 1, harvesterStats(10, 1, 3), at(0, 0))
	enqueue(t, u, 1, command.Harvest, command.Target{Kind: command.TargetResourceNode, ID: 1})
	tick(u, env)
	tick(u, env)

	var carried []int
	for i := 0; i < 7; i++ {
		tick(u, env)
		carried = append(carried, u.Inventory().Amount)
	}
	want := []int{1, 1, 1, 2, 2, 2, 3}
	if diff := cmp.Diff(want, carried); diff != "" {
		t.Errorf("carried per tick mismatch (-want +got):\n%s", diff)
	}
}

func TestDepositEmptyIsNoop(t *testing.T) {
	env := newFakeEnv(t, 3, 3)
	env.depots[1] = resource.Depot{ID: 1, Owner: 1, Radius: 0.5}
	u := New(1, 1, harvesterStats(10, 4, 1), at(0, 0))
	c := enqueue(t, u, 1, command.Deposit, command.Target{Kind: command.TargetDepot, ID: 1})

	tick(u, env) // queued -> moving
	tick(u, env) // in range, nothing carried
	if c.Status != command.Complete {
		t.Fatalf("status = %s, want complete", c.Status)
	}
	tick(u, env) // pop
	if env.agg.Pending() != 0 {
		t.Errorf("%d deposit events emitted, want 0", env.agg.Pending())
	}
	if u.QueueLen() != 0 || u.State().Kind != Idle {
		t.Errorf("after no-op deposit: queue %d, state %s, want empty idle", u.QueueLen(), u.State())
	}
}

func TestHarvestDepositRoundTrip(t *testing.T) {
	const capacity = 10
	env := newFakeEnv(t, 6, 3)
	env.nodes[7] = resource.NewNode(7, model.BuildingMaterial, model.Vec3{X: 4}, 0.5, 25)
	env.depots[1] = resource.Depot{ID: 1, Owner: 1, Radius: 0.5}
	u := New(1, 1, harvesterStats(capacity, 5, 1), at(0, 0))
	enqueue(t, u, 1, command.Harvest, command.Target{Kind: command.TargetResourceNode, ID: 7})
	enqueue(t, u, 2, command.Deposit, command.Target{Kind: command.TargetAnyDepot})

	for i := 0; i < 50 && env.agg.Pending() == 0; i++ {
		tick(u, env)
	}
	if env.agg.Pending() != 1 {
		t.Fatalf("deposit events = %d, want 1", env.agg.Pending())
	}
	env.agg.Apply()
	if got := env.agg.Pool().Get(model.BuildingMaterial); got != capacity {
		t.Errorf("pool = %d, want %d", got, capacity)
	}
	if !u.Inventory().Empty() {
		t.Errorf("inventory after deposit = %+v, want empty", u.Inventory())
	}

	tick(u, env) // pop deposit, requeue harvest
	head, ok := u.Head()
	if !ok || head.Type != command.Harvest {
		t.Fatalf("head after deposit = %v, want harvest", head)
	}
	if head.Target.Kind != command.TargetResourceNode || head.Target.ID != 7 {
		t.Errorf("requeued harvest target = %s, want resource_node #7", head.Target)
	}
}

func TestDepositRequeuesAnyWhenNodeGone(t *testing.T) {
	env := newFakeEnv(t, 3, 3)
	env.depots[1] = resource.Depot{ID: 1, Owner: 1, Radius: 0.5}
	u := New(1, 1, harvesterStats(10, 5, 1), at(0, 0))
	u.SetInventory(model.RareResource, 6)
	enqueue(t, u, 1, command.Deposit, command.Target{Kind: command.TargetDepot, ID: 1})

	tick(u, env)
	tick(u, env)
	tick(u, env)
	head, ok := u.Head()
	if !ok {
		t.Fatal("no harvest requeued after deposit")
	}
	want := command.Target{Kind: command.TargetAnyResource, Resource: model.RareResource}
	if head.Type != command.Harvest || head.Target != want {
		t.Errorf("head = %s %s, want harvest %s", head.Type, head.Target, want)
	}
}

func TestAutoReturnQueuesDeposit(t *testing.T) {
	env := newFakeEnv(t, 3, 3)
	env.nodes[1] = resource.NewNode(1, model.Food, model.Vec3{}, 0.5, 100)
	stats := harvesterStats(4, 4, 1)
	stats.Harvester.AutoReturn = true
	u := New(1, 1, stats, at(0, 0))
	enqueue(t, u, 1, command.Harvest, command.Target{Kind: command.TargetResourceNode, ID: 1})

	for i := 0; i < 4; i++ {
		tick(u, env)
	}
	head, ok := u.Head()
	if !ok || head.Type != command.Deposit || head.Status != command.Queued {
		t.Errorf("head after full harvest = %v, want queued deposit", head)
	}
}

func TestHarvestRetargetsDepletedNode(t *testing.T) {
	env := newFakeEnv(t, 5, 5)
	env.nodes[1] = resource.NewNode(1, model.Food, model.Vec3{X: 4}, 0.5, 0)
	env.nodes[2] = resource.NewNode(2, model.Food, model.Vec3{Z: 1}, 0.5, 50)
	env.nodes[3] = resource.NewNode(3, model.RareResource, model.Vec3{}, 0.5, 50)
	u := New(1, 1, harvesterStats(10, 4, 1), at(0, 0))
	c := enqueue(t, u, 1, command.Harvest, command.Target{Kind: command.TargetResourceNode, ID: 1})

	tick(u, env)
	if c.Target.ID != 2 || c.Status != command.MovingPhase {
		t.Errorf("after begin: target %s, status %s, want node #2 moving", c.Target, c.Status)
	}
}

func TestHarvestWithoutAnyNodeCompletes(t *testing.T) {
	env := newFakeEnv(t, 3, 3)
	u := New(1, 1, harvesterStats(10, 4, 1), at(0, 0))
	c := enqueue(t, u, 1, command.Harvest, command.Target{Kind: command.TargetAnyResource, Resource: model.Food})
	tick(u, env)
	if c.Status != command.Complete {
		t.Errorf("status = %s, want complete", c.Status)
	}
}

func TestPathNotFoundStaysMoving(t *testing.T) {
	walls := []model.Obstacle{
		{Coord: model.Coord{X: 2, Z: 0}, Tag: model.Environment},
		{Coord: model.Coord{X: 2, Z: 1}, Tag: model.Environment},
		{Coord: model.Coord{X: 2, Z: 2}, Tag: model.Environment},
	}
	env := newFakeEnv(t, 4, 3, walls...)
	u := New(1, 1, harvesterStats(10, 4, 1), at(0, 0))
	c := enqueue(t, u, 1, command.Move, command.Target{Kind: command.TargetPosition, Position: model.Vec3{X: 3, Z: 1}})

	for i := 0; i < 10; i++ {
		tick(u, env)
	}
	if c.Status != command.MovingPhase || !u.PathFailed() {
		t.Errorf("status %s, pathFailed %v, want moving and failed", c.Status, u.PathFailed())
	}
	if u.Position() != (model.Vec3{}) {
		t.Errorf("unit moved to %s without a path", u.Position())
	}

	env.pf.Grid().SetOccupancy(model.Coord{X: 2, Z: 1}, model.Nothing)
	if !u.InvalidatePath(map[model.Coord]struct{}{{X: 2, Z: 1}: {}}) {
		t.Fatal("InvalidatePath() = false for failed search")
	}
	for i := 0; i < 10 && c.Status != command.Complete; i++ {
		tick(u, env)
	}
	if c.Status != command.Complete {
		t.Errorf("status after wall opened = %s, want complete", c.Status)
	}
}

// blockAround walls off the square of nodes within r of (cx, cz).
func blockAround(cx, cz, r int) []model.Obstacle {
	var obs []model.Obstacle
	for z := cz - r; z <= cz+r; z++ {
		for x := cx - r; x <= cx+r; x++ {
			obs = append(obs, model.Obstacle{Coord: model.Coord{X: x, Z: z}, Tag: model.Environment})
		}
	}
	return obs
}

func TestHarvestOutOfRangeBehindObstacle(t *testing.T) {
	env := newFakeEnv(t, 12, 12, blockAround(5, 5, 2)...)
	node := resource.NewNode(7, model.Food, model.Vec3{X: 5, Z: 5}, 0.5, 25)
	env.nodes[7] = node
	u := New(1, 1, harvesterStats(10, 5, 1), at(0, 5))
	c := enqueue(t, u, 1, command.Harvest, command.Target{Kind: command.TargetResourceNode, ID: 7})

	for i := 0; i < 30; i++ {
		tick(u, env)
		if u.State().Kind == Harvesting || c.Status == command.ExecutionPhase {
			t.Fatalf("tick %d: harvesting at %s, %.2f from the node", i, u.Position(), u.Position().DistXZ(node.Position()))
		}
	}
	if c.Status != command.MovingPhase || !u.PathFailed() || u.State().Kind != MovingToHarvest {
		t.Errorf("status %s, pathFailed %v, state %s, want moving, failed, moving_to_harvest", c.Status, u.PathFailed(), u.State())
	}
	if d := u.Position().DistXZ(model.Vec3{X: 2, Z: 5}); d > 1e-9 {
		t.Errorf("stopped at %s, want the near side of the block (2,0,5)", u.Position())
	}
	if node.Remaining() != 25 {
		t.Errorf("node remaining = %d, want 25", node.Remaining())
	}
}

func TestHarvestBlockedNodeInRange(t *testing.T) {
	env := newFakeEnv(t, 12, 12, blockAround(5, 5, 0)...)
	node := resource.NewNode(7, model.Food, model.Vec3{X: 5, Z: 5}, 0.5, 25)
	env.nodes[7] = node
	u := New(1, 1, harvesterStats(10, 5, 1), at(0, 5))
	enqueue(t, u, 1, command.Harvest, command.Target{Kind: command.TargetResourceNode, ID: 7})

	for i := 0; i < 30 && u.State().Kind != Harvesting; i++ {
		tick(u, env)
	}
	if u.State().Kind != Harvesting {
		t.Fatalf("state = %s, want harvesting", u.State())
	}
	if p := u.Position(); p.X >= 5 || p.DistXZ(node.Position()) > 1.5 {
		t.Errorf("harvesting from %s, want the unit's side within 1.5", p)
	}
}

func TestMoveToBlockedNodeEndsBeside(t *testing.T) {
	env := newFakeEnv(t, 12, 12, blockAround(5, 5, 2)...)
	u := New(1, 1, harvesterStats(10, 5, 1), at(0, 5))
	c := enqueue(t, u, 1, command.Move, command.Target{Kind: command.TargetPosition, Position: model.Vec3{X: 5, Z: 5}})

	for i := 0; i < 10 && c.Status != command.Complete; i++ {
		tick(u, env)
	}
	if c.Status != command.Complete {
		t.Fatalf("status = %s, want complete", c.Status)
	}
	if d := u.Position().DistXZ(model.Vec3{X: 2, Z: 5}); d > 1e-9 {
		t.Errorf("stopped at %s, want (2,0,5)", u.Position())
	}
}

func TestFirstTransitionRequestWins(t *testing.T) {
	u := New(1, 1, harvesterStats(10, 4, 1), at(0, 0))
	u.request(State{Kind: MovingToHarvest})
	u.request(State{Kind: Attacking})
	if s, _ := u.PendingTransition(); s.Kind != MovingToHarvest {
		t.Errorf("pending = %s, want moving_to_harvest", s)
	}
	tr, ok := u.ApplyTransition()
	if !ok || tr.From.Kind != Idle || tr.To.Kind != MovingToHarvest {
		t.Errorf("ApplyTransition() = %+v, %v", tr, ok)
	}
	if _, ok := u.PendingTransition(); ok {
		t.Error("request not cleared after apply")
	}
	if _, ok := u.ApplyTransition(); ok {
		t.Error("second ApplyTransition() applied something")
	}
}

func TestAttackCycle(t *testing.T) {
	env := newFakeEnv(t, 10, 3)
	env.units[2] = TargetInfo{ID: 2, Owner: 2, Position: model.Vec3{X: 1}, Health: 10}
	stats := Stats{Kind: "heron", Speed: 1, MaxHealth: 10, Attack: &AttackStats{Damage: 3, CooldownTicks: 2, Range: 1.5}}
	u := New(1, 1, stats, at(0, 0))
	c := enqueue(t, u, 1, command.Attack, command.Target{Kind: command.TargetUnit, ID: 2})

	tick(u, env) // queued -> moving
	tick(u, env) // moving -> executing
	if u.State().Kind != Attacking {
		t.Fatalf("state = %s, want attacking", u.State())
	}
	for i := 0; i < 4; i++ {
		tick(u, env)
	}
	if len(env.damage) != 2 {
		t.Errorf("damage events = %d, want 2", len(env.damage))
	}

	env.units[2] = TargetInfo{ID: 2, Owner: 2, Position: model.Vec3{X: 6}, Health: 4}
	tick(u, env)
	if c.Status != command.MovingPhase || u.State().Kind != MovingToAttack {
		t.Errorf("after target fled: status %s, state %s", c.Status, u.State())
	}

	delete(env.units, 2)
	tick(u, env)
	if c.Status != command.Complete {
		t.Errorf("status after target died = %s, want complete", c.Status)
	}
}

func TestIncapableCommandCompletes(t *testing.T) {
	env := newFakeEnv(t, 3, 3)
	u := New(1, 1, Stats{Kind: "egg", Speed: 1, MaxHealth: 1}, at(0, 0))
	c := enqueue(t, u, 1, command.Harvest, command.Target{Kind: command.TargetAnyResource})
	tick(u, env)
	if c.Status != command.Complete {
		t.Errorf("status = %s, want complete", c.Status)
	}
}

func TestStopClearsQueue(t *testing.T) {
	env := newFakeEnv(t, 5, 5)
	u := New(1, 1, harvesterStats(10, 4, 1), at(0, 0))
	enqueue(t, u, 1, command.Move, command.Target{Kind: command.TargetPosition, Position: model.Vec3{X: 4}})
	enqueue(t, u, 2, command.Move, command.Target{Kind: command.TargetPosition, Position: model.Vec3{Z: 4}})
	tick(u, env)

	if n := u.Stop(); n != 2 {
		t.Errorf("Stop() = %d, want 2", n)
	}
	if !u.Path().Empty() {
		t.Errorf("after Stop: path %v", u.Path().Coords())
	}
	tick(u, env)
	if u.State().Kind != Idle {
		t.Errorf("after Stop: state %s, want idle", u.State())
	}
}

func TestStopThenEnqueueKeepsMoving(t *testing.T) {
	env := newFakeEnv(t, 10, 10)
	u := New(1, 1, harvesterStats(10, 4, 1), at(0, 0))
	enqueue(t, u, 1, command.Move, command.Target{Kind: command.TargetPosition, Position: model.Vec3{X: 9}})
	tick(u, env)
	tick(u, env)

	u.Stop()
	next := enqueue(t, u, 2, command.Move, command.Target{Kind: command.TargetPosition, Position: model.Vec3{Z: 9}})
	for i := range 4 {
		tick(u, env)
		if u.State().Kind != MovingToPosition {
			t.Fatalf("tick %d after replace: state %s, want moving_to_position", i, u.State())
		}
	}
	if next.Status != command.MovingPhase {
		t.Errorf("status = %s, want moving", next.Status)
	}
}

func TestBlockedTransitionRetried(t *testing.T) {
	env := newFakeEnv(t, 10, 10)
	u := New(1, 1, harvesterStats(10, 4, 1), at(0, 0))
	u.request(State{Kind: Attacking})
	enqueue(t, u, 1, command.Move, command.Target{Kind: command.TargetPosition, Position: model.Vec3{X: 9}})

	u.Advance(env)
	if s, _ := u.PendingTransition(); s.Kind != Attacking {
		t.Fatalf("pending = %s, want the earlier request", s)
	}
	u.ApplyTransition()
	tick(u, env)
	if u.State().Kind != MovingToPosition {
		t.Errorf("state = %s, want moving_to_position", u.State())
	}
}

func TestEnqueueOverflow(t *testing.T) {
	stats := harvesterStats(10, 4, 1)
	stats.QueueCapacity = 1
	u := New(1, 1, stats, at(0, 0))
	enqueue(t, u, 1, command.Move, command.Target{})
	err := u.Enqueue(command.New(2, command.Move, command.Target{}), false)
	if !errors.Is(err, command.ErrQueueOverflow) {
		t.Errorf("Enqueue on full queue = %v, want ErrQueueOverflow", err)
	}
}

func TestTakeDamage(t *testing.T) {
	u := New(1, 1, Stats{Kind: "frog", Speed: 1, MaxHealth: 5}, at(0, 0))
	if u.TakeDamage(3) {
		t.Error("TakeDamage(3) reported fatal on 5 health")
	}
	if !u.TakeDamage(3) || u.Health() != 0 || u.Alive() {
		t.Errorf("after lethal damage: health %d, alive %v", u.Health(), u.Alive())
	}
	if u.TakeDamage(1) {
		t.Error("damage to a dead unit reported fatal again")
	}
}
