package agent

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Kode-Bolds/Froggies-sub002/command"
	"github.com/Kode-Bolds/Froggies-sub002/ipc"
	"github.com/Kode-Bolds/Froggies-sub002/model"
	"github.com/Kode-Bolds/Froggies-sub002/sim"
	"github.com/Kode-Bolds/Froggies-sub002/unit"
)

// Controller is the part of the world a client session drives. *sim.World
// implements it.
type Controller interface {
	Enqueue(unitID int, typ command.Type, target command.Target, front bool) (uint64, error)
	Replace(unitID int, typ command.Type, target command.Target) (uint64, error)
	Stop(unitID int) (int, error)
	CurrentState(unitID int) (unit.State, error)
	CarriedInventory(unitID int) (model.ResourceType, int, error)
	Commands(unitID int) ([]command.Command, error)
	ResourcePool() map[model.ResourceType]int64
	RequestSpawn(kind model.UnitKind, owner int, pose model.Pose) error
	SetOccupancy(c model.Coord, tag model.Occupancy) error
	Snapshot() model.Snapshot
}

// eventBuffer bounds queued pushes per session; a client that falls further
// behind loses events.
const eventBuffer = 256

// Agent owns one client session.
type Agent struct {
	Conn   *ipc.Connection
	Client string
	Owner  int

	ctl  Controller
	hub  *Hub
	out  chan Event
	done chan struct{}
}

func New(conn *ipc.Connection, ctl Controller, hub *Hub) *Agent {
	a := &Agent{
		Conn: conn,
		ctl:  ctl,
		hub:  hub,
		out:  make(chan Event, eventBuffer),
		done: make(chan struct{}),
	}
	conn.RegisterHandler(ipc.TypeHello, a.HandleHello)
	conn.RegisterHandler(ipc.TypeEnqueue, a.HandleEnqueue)
	conn.RegisterHandler(ipc.TypeStop, a.HandleStop)
	conn.RegisterHandler(ipc.TypeState, a.HandleState)
	conn.RegisterHandler(ipc.TypeInventory, a.HandleInventory)
	conn.RegisterHandler(ipc.TypeCommands, a.HandleCommands)
	conn.RegisterHandler(ipc.TypePool, a.HandlePool)
	conn.RegisterHandler(ipc.TypeSnapshot, a.HandleSnapshot)
	conn.RegisterHandler(ipc.TypeSpawn, a.HandleSpawn)
	conn.RegisterHandler(ipc.TypeSetOccupancy, a.HandleSetOccupancy)
	conn.RegisterHandler(ipc.TypeSubscribe, a.HandleSubscribe)
	return a
}

// Serve runs the session until the client disconnects.
func (a *Agent) Serve() {
	go a.writeEvents()
	a.Conn.ReadLoop()
	close(a.done)
	if a.hub != nil {
		a.hub.remove(a)
	}
	slog.Info("session closed", "client", a.Client)
}

func (a *Agent) writeEvents() {
	for {
		select {
		case <-a.done:
			return
		case ev := <-a.out:
			if err := a.Conn.Send(ipc.TypeEvent, ev.Message()); err != nil {
				slog.Warn("event push failed", "error", err)
				return
			}
		}
	}
}

// push queues ev without blocking the caller.
func (a *Agent) push(ev Event) bool {
	select {
	case a.out <- ev:
		return true
	default:
		return false
	}
}

func ack() (*ipc.Envelope, error) { return reply(ipc.TypeAck, ipc.AckMessage{Status: "ok"}) }

func reply(msgType string, data any) (*ipc.Envelope, error) {
	env, err := ipc.NewEnvelope(msgType, data)
	if err != nil {
		return nil, err
	}
	return &env, nil
}

// HandleHello identifies the client and the side it plays.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := env.Decode(&hello); err != nil {
		return nil, err
	}
	a.Client = hello.Client
	a.Owner = hello.Owner
	a.Conn.Client = hello.Client
	slog.Info("client identified", "client", a.Client, "owner", a.Owner)
	return ack()
}

func (a *Agent) HandleEnqueue(env ipc.Envelope) (*ipc.Envelope, error) {
	var req ipc.EnqueueCommand
	if err := env.Decode(&req); err != nil {
		return nil, err
	}
	typ, err := command.ParseType(req.Command)
	if err != nil {
		return nil, ipc.Errorf(ipc.CodeBadRequest, "%v", err)
	}
	target, err := targetFromWire(req.Target)
	if err != nil {
		return nil, err
	}
	var id uint64
	if req.Replace {
		id, err = a.ctl.Replace(req.Unit, typ, target)
	} else {
		id, err = a.ctl.Enqueue(req.Unit, typ, target, req.Front)
	}
	if err != nil {
		return nil, wireError(err)
	}
	return reply(ipc.TypeEnqueued, ipc.EnqueuedReply{Unit: req.Unit, CommandID: id})
}

func (a *Agent) HandleStop(env ipc.Envelope) (*ipc.Envelope, error) {
	var q ipc.UnitQuery
	if err := env.Decode(&q); err != nil {
		return nil, err
	}
	n, err := a.ctl.Stop(q.Unit)
	if err != nil {
		return nil, wireError(err)
	}
	return reply(ipc.TypeStopped, ipc.StoppedReply{Unit: q.Unit, Cleared: n})
}

func (a *Agent) HandleState(env ipc.Envelope) (*ipc.Envelope, error) {
	var q ipc.UnitQuery
	if err := env.Decode(&q); err != nil {
		return nil, err
	}
	s, err := a.ctl.CurrentState(q.Unit)
	if err != nil {
		return nil, wireError(err)
	}
	r := ipc.StateReply{Unit: q.Unit, State: s.Kind.String()}
	if s.Kind != unit.Idle {
		t := targetToWire(s.Target)
		r.Target = &t
	}
	return reply(ipc.TypeState, r)
}

func (a *Agent) HandleInventory(env ipc.Envelope) (*ipc.Envelope, error) {
	var q ipc.UnitQuery
	if err := env.Decode(&q); err != nil {
		return nil, err
	}
	t, n, err := a.ctl.CarriedInventory(q.Unit)
	if err != nil {
		return nil, wireError(err)
	}
	return reply(ipc.TypeInventory, ipc.InventoryReply{Unit: q.Unit, Resource: t.String(), Amount: n})
}

func (a *Agent) HandleCommands(env ipc.Envelope) (*ipc.Envelope, error) {
	var q ipc.UnitQuery
	if err := env.Decode(&q); err != nil {
		return nil, err
	}
	cmds, err := a.ctl.Commands(q.Unit)
	if err != nil {
		return nil, wireError(err)
	}
	r := ipc.CommandsReply{Unit: q.Unit, Commands: make([]ipc.CommandInfo, len(cmds))}
	for i, c := range cmds {
		r.Commands[i] = ipc.CommandInfo{ID: c.ID, Type: c.Type.String(), Status: c.Status.String(), Target: targetToWire(c.Target)}
	}
	return reply(ipc.TypeCommands, r)
}

func (a *Agent) HandlePool(ipc.Envelope) (*ipc.Envelope, error) {
	return reply(ipc.TypePool, ipc.PoolReply{Pool: a.ctl.ResourcePool()})
}

func (a *Agent) HandleSnapshot(ipc.Envelope) (*ipc.Envelope, error) {
	return reply(ipc.TypeSnapshot, a.ctl.Snapshot())
}

// HandleSpawn queues a unit for the next apply phase. An omitted owner
// means the session's own side.
func (a *Agent) HandleSpawn(env ipc.Envelope) (*ipc.Envelope, error) {
	var req ipc.SpawnCommand
	if err := env.Decode(&req); err != nil {
		return nil, err
	}
	owner := req.Owner
	if owner == 0 {
		owner = a.Owner
	}
	pose := model.Pose{Position: req.Position, Heading: req.Heading}
	if err := a.ctl.RequestSpawn(model.UnitKind(req.Kind), owner, pose); err != nil {
		return nil, wireError(err)
	}
	return ack()
}

func (a *Agent) HandleSetOccupancy(env ipc.Envelope) (*ipc.Envelope, error) {
	var req ipc.SetOccupancyCommand
	if err := env.Decode(&req); err != nil {
		return nil, err
	}
	tag, err := model.ParseOccupancy(req.Occupancy)
	if err != nil {
		return nil, ipc.Errorf(ipc.CodeBadRequest, "%v", err)
	}
	if err := a.ctl.SetOccupancy(model.Coord{X: req.X, Z: req.Z}, tag); err != nil {
		return nil, wireError(err)
	}
	return ack()
}

func (a *Agent) HandleSubscribe(env ipc.Envelope) (*ipc.Envelope, error) {
	var req ipc.SubscribeMessage
	if err := env.Decode(&req); err != nil {
		return nil, err
	}
	if a.hub == nil {
		return nil, ipc.Errorf(ipc.CodeBadRequest, "events not available")
	}
	if req.Events {
		a.hub.add(a)
	} else {
		a.hub.remove(a)
	}
	return ack()
}

func targetFromWire(s ipc.TargetSpec) (command.Target, error) {
	kind, err := command.ParseTargetKind(s.Kind)
	if err != nil {
		return command.Target{}, ipc.Errorf(ipc.CodeBadRequest, "%v", err)
	}
	t := command.Target{Kind: kind, ID: s.ID}
	if s.Resource != "" {
		if t.Resource, err = model.ParseResourceType(s.Resource); err != nil {
			return command.Target{}, ipc.Errorf(ipc.CodeBadRequest, "%v", err)
		}
	}
	if s.Position != nil {
		t.Position = *s.Position
	}
	return t, nil
}

func targetToWire(t command.Target) ipc.TargetSpec {
	s := ipc.TargetSpec{Kind: t.Kind.String(), ID: t.ID}
	if t.Resource != model.ResourceNone {
		s.Resource = t.Resource.String()
	}
	if t.Kind != command.TargetAnyResource && t.Kind != command.TargetAnyDepot {
		p := t.Position
		s.Position = &p
	}
	return s
}

// wireError maps boundary errors to reply codes.
func wireError(err error) error {
	code := ipc.CodeInternal
	switch {
	case errors.Is(err, command.ErrQueueOverflow):
		code = ipc.CodeQueueOverflow
	case errors.Is(err, sim.ErrUnknownUnit):
		code = ipc.CodeUnknownUnit
	case errors.Is(err, sim.ErrUnknownKind):
		code = ipc.CodeUnknownKind
	case errors.Is(err, sim.ErrInvalidTarget):
		code = ipc.CodeInvalidTarget
	case errors.Is(err, sim.ErrOutOfBounds):
		code = ipc.CodeOutOfBounds
	case errors.Is(err, sim.ErrInsufficientResources):
		code = ipc.CodeInsufficient
	}
	return &ipc.Error{Code: code, Message: fmt.Sprint(err)}
}
