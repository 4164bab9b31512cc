package ipc

import (
	"fmt"

	"github.com/Kode-Bolds/Froggies-sub002/model"
)

// Session and query message types.
const (
	TypeHello     = "hello"
	TypeAck       = "ack"
	TypeError     = "error"
	TypeState     = "state"
	TypeInventory = "inventory"
	TypeCommands  = "commands"
	TypePool      = "pool"
	TypeSnapshot  = "snapshot"
	TypeSubscribe = "subscribe"
	TypeEvent     = "event"
)

// Error codes carried by TypeError replies.
const (
	CodeBadRequest    = "bad_request"
	CodeQueueOverflow = "queue_overflow"
	CodeUnknownUnit   = "unknown_unit"
	CodeUnknownKind   = "unknown_kind"
	CodeInvalidTarget = "invalid_target"
	CodeOutOfBounds   = "out_of_bounds"
	CodeInsufficient  = "insufficient_resources"
	CodeInternal      = "internal"
)

type HelloMessage struct {
	Client string `json:"client"`
	// Owner is the side this client acts for; 0 means observe only.
	Owner int `json:"owner"`
}

type AckMessage struct {
	Status string `json:"status"`
}

// Error is both the TypeError payload and a Go error handlers can return
// to choose the reply code.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

func Errorf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// UnitQuery selects a unit for stop and the state queries.
type UnitQuery struct {
	Unit int `json:"unit"`
}

type StateReply struct {
	Unit   int         `json:"unit"`
	State  string      `json:"state"`
	Target *TargetSpec `json:"target,omitempty"`
}

type InventoryReply struct {
	Unit     int    `json:"unit"`
	Resource string `json:"resource"`
	Amount   int    `json:"amount"`
}

type CommandInfo struct {
	ID     uint64     `json:"id"`
	Type   string     `json:"type"`
	Status string     `json:"status"`
	Target TargetSpec `json:"target"`
}

type CommandsReply struct {
	Unit     int           `json:"unit"`
	Commands []CommandInfo `json:"commands"`
}

type PoolReply struct {
	Pool map[model.ResourceType]int64 `json:"pool"`
}

type SubscribeMessage struct {
	Events bool `json:"events"`
}

// EventMessage is pushed to subscribed clients after a tick.
type EventMessage struct {
	Tick   uint64 `json:"tick"`
	Kind   string `json:"kind"`
	Unit   int    `json:"unit,omitempty"`
	Node   int    `json:"node,omitempty"`
	Owner  int    `json:"owner,omitempty"`
	Detail string `json:"detail,omitempty"`
}
