package agent

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Kode-Bolds/Froggies-sub002/model"
	"github.com/Kode-Bolds/Froggies-sub002/sim"
)

// Hub fans snapshot events out to subscribed sessions. It is a sim.Hook.
type Hub struct {
	mu       sync.Mutex
	sessions map[*Agent]struct{}
	prev     *model.Snapshot
	dropped  int
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[*Agent]struct{})}
}

func (h *Hub) add(a *Agent) {
	h.mu.Lock()
	h.sessions[a] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(a *Agent) {
	h.mu.Lock()
	delete(h.sessions, a)
	h.mu.Unlock()
}

// Subscribers returns the number of sessions receiving events.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *Hub) AfterTick(_ context.Context, _ sim.TickReport, snap model.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	events := detectEvents(h.prev, snap)
	h.prev = &snap
	if len(events) == 0 {
		return
	}
	for a := range h.sessions {
		for _, ev := range events {
			if !a.push(ev) {
				h.dropped++
				slog.Warn("event dropped for slow client", "kind", ev.Kind, "tick", ev.Tick, "dropped", h.dropped)
			}
		}
	}
}
