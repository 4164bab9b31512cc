package model

// Snapshot is the read-only view of the simulation handed to presentation
// and automation after a tick. It never aliases live simulation state.
type Snapshot struct {
	Tick   uint64                 `json:"tick"`
	Pool   map[ResourceType]int64 `json:"pool"`
	Units  []UnitView             `json:"units"`
	Nodes  []NodeView             `json:"nodes"`
	Depots []DepotView            `json:"depots"`
}

type UnitView struct {
	ID            int          `json:"id"`
	Kind          UnitKind     `json:"kind"`
	Owner         int          `json:"owner"`
	Position      Vec3         `json:"position"`
	State         string       `json:"state"`
	Command       string       `json:"command,omitempty"` // head command type, empty when idle
	QueueLen      int          `json:"queueLen"`
	CarriedType   ResourceType `json:"carriedType"`
	CarriedAmount int          `json:"carriedAmount"`
	Capacity      int          `json:"capacity"`
	Health        int          `json:"health"`
	MaxHealth     int          `json:"maxHealth"`
	Harvester     bool         `json:"harvester"`
	Combat        bool         `json:"combat"`
}

func (u UnitView) TypeName() string { return string(u.Kind) }

// Idle reports a unit with nothing queued.
func (u UnitView) Idle() bool { return u.QueueLen == 0 }

type NodeView struct {
	ID        int          `json:"id"`
	Type      ResourceType `json:"type"`
	Remaining int          `json:"remaining"`
	Position  Vec3         `json:"position"`
}

type DepotView struct {
	ID       int  `json:"id"`
	Owner    int  `json:"owner"`
	Position Vec3 `json:"position"`
}

// Unit returns the view for id, if present.
func (s Snapshot) Unit(id int) (UnitView, bool) {
	for _, u := range s.Units {
		if u.ID == id {
			return u, true
		}
	}
	return UnitView{}, false
}
