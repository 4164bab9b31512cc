package ipc

import "github.com/Kode-Bolds/Froggies-sub002/model"

// Order message types.
const (
	TypeEnqueue      = "enqueue"
	TypeEnqueued     = "enqueued"
	TypeStop         = "stop"
	TypeStopped      = "stopped"
	TypeSpawn        = "spawn"
	TypeSetOccupancy = "set_occupancy"
)

// TargetSpec names a command target on the wire. Kind is one of position,
// unit, resource_node, depot, any_resource, any_depot.
type TargetSpec struct {
	Kind     string      `json:"kind"`
	ID       int         `json:"id,omitempty"`
	Resource string      `json:"resource,omitempty"`
	Position *model.Vec3 `json:"position,omitempty"`
}

type EnqueueCommand struct {
	Unit    int        `json:"unit"`
	Command string     `json:"command"`
	Target  TargetSpec `json:"target"`
	// Front preempts the active command.
	Front bool `json:"front,omitempty"`
	// Replace clears the queue before enqueueing.
	Replace bool `json:"replace,omitempty"`
}

type EnqueuedReply struct {
	Unit      int    `json:"unit"`
	CommandID uint64 `json:"command_id"`
}

type StoppedReply struct {
	Unit    int `json:"unit"`
	Cleared int `json:"cleared"`
}

type SpawnCommand struct {
	Kind     string     `json:"kind"`
	Owner    int        `json:"owner,omitempty"`
	Position model.Vec3 `json:"position"`
	Heading  float64    `json:"heading,omitempty"`
}

type SetOccupancyCommand struct {
	X         int    `json:"x"`
	Z         int    `json:"z"`
	Occupancy string `json:"occupancy"`
}
