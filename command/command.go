package command

import (
	"fmt"
	"strings"

	"github.com/Kode-Bolds/Froggies-sub002/model"
)

// Type is the kind of order a unit executes.
type Type int

const (
	Move Type = iota
	Harvest
	Attack
	Deposit
)

var typeNames = map[Type]string{
	Move:    "move",
	Harvest: "harvest",
	Attack:  "attack",
	Deposit: "deposit",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseType accepts the String form, case-insensitively.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown command type %q", s)
}

// Status is the lifecycle phase of a queued command.
type Status int

const (
	Queued Status = iota
	MovingPhase
	ExecutionPhase
	Complete
)

func (s Status) String() string {
	switch s {
	case Queued:
		return "queued"
	case MovingPhase:
		return "moving"
	case ExecutionPhase:
		return "executing"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// TargetKind classifies what a command's target refers to.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetPosition
	TargetUnit
	TargetResourceNode
	TargetDepot
	// TargetAnyResource resolves to the nearest non-depleted node of
	// Target.Resource when the command starts.
	TargetAnyResource
	// TargetAnyDepot resolves to the owner's nearest depot.
	TargetAnyDepot
)

var targetKindNames = map[TargetKind]string{
	TargetNone:         "none",
	TargetPosition:     "position",
	TargetUnit:         "unit",
	TargetResourceNode: "resource_node",
	TargetDepot:        "depot",
	TargetAnyResource:  "any_resource",
	TargetAnyDepot:     "any_depot",
}

func (k TargetKind) String() string {
	if s, ok := targetKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("target(%d)", int(k))
}

func ParseTargetKind(s string) (TargetKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range targetKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown target kind %q", s)
}

// Target is a command payload. ID is meaningful for unit, node and depot
// targets; Resource for TargetAnyResource; Position for TargetPosition and
// as the last known location of entity targets.
type Target struct {
	Kind     TargetKind         `json:"kind"`
	ID       int                `json:"id,omitempty"`
	Resource model.ResourceType `json:"resource,omitempty"`
	Position model.Vec3         `json:"position"`
}

func (t Target) String() string {
	switch t.Kind {
	case TargetPosition:
		return "position " + t.Position.String()
	case TargetAnyResource:
		return "any " + t.Resource.String()
	case TargetNone, TargetAnyDepot:
		return t.Kind.String()
	default:
		return fmt.Sprintf("%s #%d", t.Kind, t.ID)
	}
}

// Command is one queued order.
type Command struct {
	ID             uint64
	Type           Type
	Status         Status
	PreviousStatus Status
	Target         Target
}

// New returns a Queued command.
func New(id uint64, typ Type, target Target) *Command {
	return &Command{ID: id, Type: typ, Target: target}
}

// SetStatus moves the command to s, remembering where it came from.
func (c *Command) SetStatus(s Status) {
	c.PreviousStatus = c.Status
	c.Status = s
}

// Transitioned reports whether the last SetStatus changed the status and
// has not been settled yet.
func (c *Command) Transitioned() bool { return c.Status != c.PreviousStatus }

// Settle marks the current status as observed.
func (c *Command) Settle() { c.PreviousStatus = c.Status }

// Reset puts the command back to Queued so its lifecycle restarts.
func (c *Command) Reset() {
	c.Status = Queued
	c.PreviousStatus = Queued
}

func (c *Command) String() string {
	return fmt.Sprintf("%s(%s) %s", c.Type, c.Target, c.Status)
}
